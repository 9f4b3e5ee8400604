package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"fripe/internal/models"
	"fripe/internal/search"

	"github.com/google/uuid"
)

// MockOfferRepository is an in-memory implementation of OfferRepository.
// Offers are kept in insertion order so unsorted searches are deterministic,
// mirroring the creation-time ordering of the GORM implementation.
type MockOfferRepository struct {
	offers []models.Offer
	mu     sync.RWMutex
}

// NewMockOfferRepository creates a new instance of MockOfferRepository.
func NewMockOfferRepository() *MockOfferRepository {
	return &MockOfferRepository{}
}

// Create adds a new offer.
func (r *MockOfferRepository) Create(offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt
	r.offers = append(r.offers, *offer)
	return nil
}

// GetByID returns an offer by its ID.
func (r *MockOfferRepository) GetByID(id string) (*models.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	offer := r.offers[i]
	return &offer, nil
}

// Search applies the query's filter, sort and window in memory, replicating
// the semantics of the GORM implementation.
func (r *MockOfferRepository) Search(q search.Query) ([]models.Offer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Offer
	for _, o := range r.offers {
		if q.Match(o.Title, o.Price) {
			matched = append(matched, o)
		}
	}

	switch q.Sort {
	case search.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case search.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	count := int64(len(matched))
	start, end := q.Window(len(matched))
	page := make([]models.Offer, end-start)
	copy(page, matched[start:end])
	return page, count, nil
}

// UpdateFields applies a partial update and returns the updated offer.
func (r *MockOfferRepository) UpdateFields(id string, fields map[string]interface{}) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	offer := &r.offers[i]
	for column, value := range fields {
		switch column {
		case "title":
			offer.Title = value.(string)
		case "description":
			offer.Description = value.(string)
		case "price":
			offer.Price = value.(float64)
		}
	}
	offer.UpdatedAt = time.Now()
	updated := *offer
	return &updated, nil
}

// Delete removes an offer by its ID.
func (r *MockOfferRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	r.offers = append(r.offers[:i], r.offers[i+1:]...)
	return nil
}

// MarkSold records the time an offer was paid for.
func (r *MockOfferRepository) MarkSold(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	r.offers[i].SoldAt = &at
	return nil
}

// index returns the position of an offer, or -1. Callers hold the lock.
func (r *MockOfferRepository) index(id string) int {
	for i := range r.offers {
		if r.offers[i].ID == id {
			return i
		}
	}
	return -1
}
