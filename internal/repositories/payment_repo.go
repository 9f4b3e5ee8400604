package repositories

import "fripe/internal/models"

// PaymentRepository defines the interface for payment record data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	ListByOffer(offerID string) ([]models.Payment, error)
}
