package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"fripe/internal/models"
	"fripe/internal/repositories"
	"fripe/pkg/charge"

	"github.com/google/uuid"
)

// ErrPriceMismatch is returned when the claimed amount does not clear the
// listed price by the required margin.
var ErrPriceMismatch = errors.New("price mismatch")

// priceBuffer is the minimum margin, in currency units, between the claimed
// amount and the listed price before a charge is attempted.
const priceBuffer = 3.0

// chargeCurrency is the fixed settlement currency of the marketplace.
const chargeCurrency = "eur"

// Charger creates charges on the external card-payment service.
type Charger interface {
	CreateCharge(ctx context.Context, req charge.Request) (*charge.Charge, error)
}

// PaymentService validates claimed amounts against authoritative prices and
// delegates the monetary transaction to the charge service.
type PaymentService struct {
	offerRepo   repositories.OfferRepository
	paymentRepo repositories.PaymentRepository
	charger     Charger
	mqClient    EventPublisher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(offerRepo repositories.OfferRepository, paymentRepo repositories.PaymentRepository, charger Charger, mqClient EventPublisher) *PaymentService {
	return &PaymentService{
		offerRepo:   offerRepo,
		paymentRepo: paymentRepo,
		charger:     charger,
		mqClient:    mqClient,
	}
}

// Checkout charges the claimed amount for an offer. The claimed amount must
// exceed the listed price by at least the buffer, and the charge is executed
// in the smallest currency unit. On success the offer is marked sold, the
// payment is recorded and the charge status is returned verbatim.
func (s *PaymentService) Checkout(ctx context.Context, offerID string, amount float64, cardToken, title string) (*charge.Charge, error) {
	offer, err := s.offerRepo.GetByID(offerID)
	if err != nil {
		return nil, err
	}

	if amount-offer.Price < priceBuffer {
		return nil, ErrPriceMismatch
	}

	amountMinor := int64(math.Round(amount * 100))
	ch, err := s.charger.CreateCharge(ctx, charge.Request{
		AmountMinor: amountMinor,
		Currency:    chargeCurrency,
		Description: fmt.Sprintf("Paiement vinted pour : %s", title),
		Source:      cardToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	// The charge already happened: bookkeeping failures are logged, not
	// surfaced, so the caller still learns the charge status.
	now := time.Now()
	if err := s.offerRepo.MarkSold(offerID, now); err != nil {
		log.Printf("Warning: failed to mark offer %s sold: %v", offerID, err)
	}
	payment := &models.Payment{
		ID:          uuid.New().String(),
		OfferID:     offerID,
		Amount:      amount,
		AmountMinor: amountMinor,
		ChargeID:    ch.ID,
		Status:      ch.Status,
		CreatedAt:   now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		log.Printf("Warning: failed to record payment for offer %s: %v", offerID, err)
	}

	s.publishEvent("payment.succeeded", map[string]interface{}{
		"offerID":     offerID,
		"amount":      amount,
		"amountMinor": amountMinor,
		"chargeID":    ch.ID,
		"status":      ch.Status,
	})
	return ch, nil
}

func (s *PaymentService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
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
