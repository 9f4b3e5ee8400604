package repositories

import (
	"time"

	"fripe/internal/models"
	"fripe/internal/search"
)

// OfferRepository defines the interface for offer data access.
//
// Search applies the query's filter, sort and pagination window and returns
// the page of offers together with the pre-pagination match count.
type OfferRepository interface {
	Create(offer *models.Offer) error
	GetByID(id string) (*models.Offer, error)
	Search(q search.Query) ([]models.Offer, int64, error)
	UpdateFields(id string, fields map[string]interface{}) (*models.Offer, error)
	Delete(id string) error
	MarkSold(id string, at time.Time) error
}
