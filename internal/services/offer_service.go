package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"fripe/internal/models"
	"fripe/internal/repositories"
	"fripe/internal/search"

	"github.com/google/uuid"
)

// ErrNotOwner is returned when an authenticated account tries to mutate an
// offer it does not own. Handlers answer 404 so offer existence is not
// revealed to non-owners.
var ErrNotOwner = errors.New("offer does not belong to this account")

// ImageStore uploads offer pictures and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
}

// EventPublisher publishes marketplace events. A nil publisher disables
// events without disabling the service.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ImageUpload is an optional picture attached to a publish request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// PublishInput carries the fields of a new offer.
type PublishInput struct {
	Title       string
	Description string
	Price       float64
	Facets      models.Facets
	Image       *ImageUpload
}

// UpdateInput carries a partial offer update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
}

// OfferService handles business logic related to offers.
type OfferService struct {
	offerRepo repositories.OfferRepository
	images    ImageStore
	mqClient  EventPublisher
}

// NewOfferService creates a new OfferService.
func NewOfferService(offerRepo repositories.OfferRepository, images ImageStore, mqClient EventPublisher) *OfferService {
	return &OfferService{
		offerRepo: offerRepo,
		images:    images,
		mqClient:  mqClient,
	}
}

// Publish creates an offer owned by the authenticated account, uploading the
// picture to the image store first when one is attached.
func (s *OfferService) Publish(ctx context.Context, owner *models.User, in PublishInput) (*models.Offer, error) {
	offer := &models.Offer{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Facets:      in.Facets,
		OwnerID:     owner.ID,
		Owner:       *owner,
	}

	if in.Image != nil {
		if s.images == nil {
			return nil, fmt.Errorf("image store is not configured")
		}
		key := fmt.Sprintf("offers/%s/%s", offer.ID, in.Image.Filename)
		url, err := s.images.Upload(ctx, key, in.Image.Reader, in.Image.Size, in.Image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload offer image: %w", err)
		}
		offer.ImageURL = url
	}

	if err := s.offerRepo.Create(offer); err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	s.publishEvent("offer.published", map[string]interface{}{
		"offerID": offer.ID,
		"ownerID": offer.OwnerID,
		"title":   offer.Title,
		"price":   offer.Price,
	})
	return offer, nil
}

// Update applies a partial update to an offer owned by the caller.
func (s *OfferService) Update(owner *models.User, id string, in UpdateInput) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offer.OwnerID != owner.ID {
		return nil, ErrNotOwner
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if len(fields) == 0 {
		return offer, nil
	}
	return s.offerRepo.UpdateFields(id, fields)
}

// Delete removes an offer owned by the caller.
func (s *OfferService) Delete(owner *models.User, id string) error {
	offer, err := s.offerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if offer.OwnerID != owner.ID {
		return ErrNotOwner
	}
	return s.offerRepo.Delete(id)
}

// Search runs a parsed query and returns the page of offers with the
// pre-pagination match count. An empty result is a successful search.
func (s *OfferService) Search(q search.Query) ([]models.Offer, int64, error) {
	return s.offerRepo.Search(q)
}

// GetByID retrieves a single offer.
func (s *OfferService) GetByID(id string) (*models.Offer, error) {
	return s.offerRepo.GetByID(id)
}

// publishEvent sends a best-effort marketplace event; failures are logged,
// never returned.
func (s *OfferService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", eventType, err)
	}
}
