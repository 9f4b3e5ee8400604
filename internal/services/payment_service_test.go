package services_test

import (
	"context"
	"testing"

	"fripe/internal/models"
	"fripe/internal/repositories"
	"fripe/internal/services"
	"fripe/pkg/charge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCharger is a mock implementation of services.Charger
type MockCharger struct {
	mock.Mock
}

func (m *MockCharger) CreateCharge(ctx context.Context, req charge.Request) (*charge.Charge, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charge.Charge), args.Error(1)
}

func seedOffer(t *testing.T, repo *repositories.MockOfferRepository, price float64) *models.Offer {
	t.Helper()
	offer := &models.Offer{Title: "Manteau", Price: price, OwnerID: "owner-1"}
	assert.NoError(t, repo.Create(offer))
	return offer
}

func TestPaymentService_Checkout(t *testing.T) {
	offerRepo := repositories.NewMockOfferRepository()
	paymentRepo := repositories.NewMockPaymentRepository()
	charger := new(MockCharger)
	events := &fakePublisher{}
	svc := services.NewPaymentService(offerRepo, paymentRepo, charger, events)

	offer := seedOffer(t, offerRepo, 15.00)

	// 18.00 - 15.00 = 3: passes the threshold, charged as 1800 minor units.
	charger.On("CreateCharge", mock.Anything, charge.Request{
		AmountMinor: 1800,
		Currency:    "eur",
		Description: "Paiement vinted pour : Manteau",
		Source:      "tok_visa",
	}).Return(&charge.Charge{ID: "ch_1", Status: "succeeded"}, nil).Once()

	ch, err := svc.Checkout(context.Background(), offer.ID, 18.00, "tok_visa", "Manteau")
	assert.NoError(t, err)
	assert.Equal(t, "succeeded", ch.Status)
	charger.AssertExpectations(t)

	// The offer is marked sold and the payment recorded.
	sold, err := offerRepo.GetByID(offer.ID)
	assert.NoError(t, err)
	assert.NotNil(t, sold.SoldAt)

	payments, err := paymentRepo.ListByOffer(offer.ID)
	assert.NoError(t, err)
	if assert.Len(t, payments, 1) {
		assert.Equal(t, int64(1800), payments[0].AmountMinor)
		assert.Equal(t, "ch_1", payments[0].ChargeID)
		assert.Equal(t, "succeeded", payments[0].Status)
	}
	assert.Equal(t, []string{"payment.succeeded"}, events.events)
}

func TestPaymentService_Checkout_PriceMismatch(t *testing.T) {
	offerRepo := repositories.NewMockOfferRepository()
	paymentRepo := repositories.NewMockPaymentRepository()
	charger := new(MockCharger)
	svc := services.NewPaymentService(offerRepo, paymentRepo, charger, nil)

	offer := seedOffer(t, offerRepo, 15.00)

	// 17.00 - 15.00 = 2 < 3: rejected before any charge is attempted.
	_, err := svc.Checkout(context.Background(), offer.ID, 17.00, "tok_visa", "Manteau")
	assert.ErrorIs(t, err, services.ErrPriceMismatch)
	charger.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)

	// The offer stays unsold.
	unsold, err := offerRepo.GetByID(offer.ID)
	assert.NoError(t, err)
	assert.Nil(t, unsold.SoldAt)
}

func TestPaymentService_Checkout_OfferNotFound(t *testing.T) {
	offerRepo := repositories.NewMockOfferRepository()
	paymentRepo := repositories.NewMockPaymentRepository()
	charger := new(MockCharger)
	svc := services.NewPaymentService(offerRepo, paymentRepo, charger, nil)

	_, err := svc.Checkout(context.Background(), "missing", 18.00, "tok_visa", "Manteau")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	charger.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
}

func TestPaymentService_Checkout_MinorUnitRounding(t *testing.T) {
	offerRepo := repositories.NewMockOfferRepository()
	paymentRepo := repositories.NewMockPaymentRepository()
	charger := new(MockCharger)
	svc := services.NewPaymentService(offerRepo, paymentRepo, charger, nil)

	offer := seedOffer(t, offerRepo, 15.00)

	// 19.995 rounds to 2000 minor units, not 1999.
	charger.On("CreateCharge", mock.Anything, mock.MatchedBy(func(req charge.Request) bool {
		return req.AmountMinor == 2000
	})).Return(&charge.Charge{ID: "ch_2", Status: "succeeded"}, nil).Once()

	_, err := svc.Checkout(context.Background(), offer.ID, 19.995, "tok_visa", "Manteau")
	assert.NoError(t, err)
	charger.AssertExpectations(t)
}

func TestPaymentService_Checkout_ChargeFailure(t *testing.T) {
	offerRepo := repositories.NewMockOfferRepository()
	paymentRepo := repositories.NewMockPaymentRepository()
	charger := new(MockCharger)
	svc := services.NewPaymentService(offerRepo, paymentRepo, charger, nil)

	offer := seedOffer(t, offerRepo, 15.00)

	charger.On("CreateCharge", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	_, err := svc.Checkout(context.Background(), offer.ID, 20.00, "tok_visa", "Manteau")
	assert.Error(t, err)

	// A failed charge leaves no sold mark and no payment record.
	unsold, getErr := offerRepo.GetByID(offer.ID)
	assert.NoError(t, getErr)
	assert.Nil(t, unsold.SoldAt)
	payments, listErr := paymentRepo.ListByOffer(offer.ID)
	assert.NoError(t, listErr)
	assert.Empty(t, payments)
}
