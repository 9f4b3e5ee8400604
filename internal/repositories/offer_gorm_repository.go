package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fripe/internal/models"
	"fripe/internal/search"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOfferRepository is a GORM implementation of OfferRepository.
type GORMOfferRepository struct {
	db *gorm.DB
}

// NewGORMOfferRepository creates a new instance of GORMOfferRepository.
func NewGORMOfferRepository(db *gorm.DB) *GORMOfferRepository {
	return &GORMOfferRepository{
		db: db,
	}
}

// Create creates a new offer in the database.
func (r *GORMOfferRepository) Create(offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if err := r.db.Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByID retrieves a single offer with its owner.
func (r *GORMOfferRepository) GetByID(id string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Preload("Owner").First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get offer %s: %w", id, err)
	}
	return &offer, nil
}

// filterScope translates the query's filter predicate to WHERE clauses.
// The scope is applied to both the count and the page query so the count
// always reflects the full filtered set.
func filterScope(q search.Query) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.Title != "" {
			tx = tx.Where("lower(title) LIKE ?", "%"+strings.ToLower(q.Title)+"%")
		}
		if q.PriceMin != nil {
			tx = tx.Where("price >= ?", *q.PriceMin)
		}
		if q.PriceMax != nil {
			tx = tx.Where("price <= ?", *q.PriceMax)
		}
		return tx
	}
}

// Search applies the query against the offers table. The match count is
// computed before the pagination window is applied.
func (r *GORMOfferRepository) Search(q search.Query) ([]models.Offer, int64, error) {
	var count int64
	if err := r.db.Model(&models.Offer{}).Scopes(filterScope(q)).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count offers: %w", err)
	}

	tx := r.db.Model(&models.Offer{}).Scopes(filterScope(q))
	switch q.Sort {
	case search.SortPriceAsc:
		tx = tx.Order("price ASC")
	case search.SortPriceDesc:
		tx = tx.Order("price DESC")
	default:
		tx = tx.Order("created_at ASC")
	}
	if q.Limit > 0 {
		tx = tx.Offset(q.Offset).Limit(q.Limit)
	}

	var offers []models.Offer
	if err := tx.Preload("Owner").Find(&offers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search offers: %w", err)
	}
	return offers, count, nil
}

// UpdateFields applies a partial update and returns the updated offer.
func (r *GORMOfferRepository) UpdateFields(id string, fields map[string]interface{}) (*models.Offer, error) {
	res := r.db.Model(&models.Offer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update offer %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Updates does not report ErrRecordNotFound, so we check RowsAffected.
		return nil, fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}

// Delete deletes an offer by its ID.
func (r *GORMOfferRepository) Delete(id string) error {
	res := r.db.Delete(&models.Offer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete offer %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkSold records the time an offer was paid for.
func (r *GORMOfferRepository) MarkSold(id string, at time.Time) error {
	res := r.db.Model(&models.Offer{}).Where("id = ?", id).Update("sold_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to mark offer %s sold: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("offer %s: %w", id, ErrNotFound)
	}
	return nil
}
