package repositories

import (
	"fmt"
	"sync"
	"time"

	"fripe/internal/models"

	"github.com/google/uuid"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
type MockPaymentRepository struct {
	payments []models.Payment
	mu       sync.RWMutex
}

// NewMockPaymentRepository creates a new instance of MockPaymentRepository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{}
}

// Create records a new payment.
func (r *MockPaymentRepository) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	r.payments = append(r.payments, *payment)
	return nil
}

// GetByID retrieves a payment by its ID.
func (r *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.payments {
		if r.payments[i].ID == id {
			payment := r.payments[i]
			return &payment, nil
		}
	}
	return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
}

// ListByOffer returns every payment recorded against an offer.
func (r *MockPaymentRepository) ListByOffer(offerID string) ([]models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payments []models.Payment
	for _, p := range r.payments {
		if p.OfferID == offerID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}
