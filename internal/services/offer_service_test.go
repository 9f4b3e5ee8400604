package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"fripe/internal/models"
	"fripe/internal/repositories"
	"fripe/internal/search"
	"fripe/internal/services"

	"github.com/stretchr/testify/assert"
)

// fakeImageStore records uploads and returns a predictable URL.
type fakeImageStore struct {
	uploads map[string][]byte
	fail    bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploads: make(map[string][]byte)}
}

func (f *fakeImageStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("upload rejected")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploads[key] = data
	return "https://images.test/" + key, nil
}

// fakePublisher collects published events.
type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(eventType string, _ []byte) error {
	f.events = append(f.events, eventType)
	return nil
}

func testOwner() *models.User {
	return &models.User{
		ID:       "owner-1",
		Username: "alice",
		Phone:    "0601020304",
		Avatar:   "https://images.test/avatar.png",
	}
}

func publishOffer(t *testing.T, svc *services.OfferService, owner *models.User, title string, price float64) *models.Offer {
	t.Helper()
	offer, err := svc.Publish(context.Background(), owner, services.PublishInput{
		Title: title,
		Price: price,
	})
	assert.NoError(t, err)
	return offer
}

func TestOfferService_Publish(t *testing.T) {
	repo := repositories.NewMockOfferRepository()
	images := newFakeImageStore()
	events := &fakePublisher{}
	svc := services.NewOfferService(repo, images, events)

	offer, err := svc.Publish(context.Background(), testOwner(), services.PublishInput{
		Title:       "Veste en cuir",
		Description: "Peu portée",
		Price:       45.0,
		Facets: models.Facets{
			Brand:     "Zara",
			Size:      "M",
			Condition: "Très bon état",
			Color:     "Noir",
			City:      "Paris",
		},
		Image: &services.ImageUpload{
			Filename:    "veste.jpg",
			ContentType: "image/jpeg",
			Size:        4,
			Reader:      bytes.NewReader([]byte("jpeg")),
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "owner-1", offer.OwnerID)
	assert.Equal(t, "https://images.test/offers/"+offer.ID+"/veste.jpg", offer.ImageURL)
	assert.Equal(t, []string{"offer.published"}, events.events)

	stored, err := repo.GetByID(offer.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Zara", stored.Facets.Brand)
}

func TestOfferService_Publish_FacetRoundTrip(t *testing.T) {
	repo := repositories.NewMockOfferRepository()
	svc := services.NewOfferService(repo, nil, nil)

	offer, err := svc.Publish(context.Background(), testOwner(), services.PublishInput{
		Title: "Jean slim",
		Price: 12.0,
		Facets: models.Facets{
			Brand:     "Levi's",
			Size:      "38",
			Condition: "Bon état",
			Color:     "Bleu",
			City:      "Lyon",
		},
	})
	assert.NoError(t, err)

	fetched, err := svc.GetByID(offer.ID)
	assert.NoError(t, err)

	// The wire shape re-labels each facet with its display name, in the
	// fixed brand, size, condition, color, city order.
	raw, err := json.Marshal(fetched.ToResponse().Details)
	assert.NoError(t, err)

	var details []map[string]string
	assert.NoError(t, json.Unmarshal(raw, &details))
	assert.Equal(t, []map[string]string{
		{"MARQUE": "Levi's"},
		{"TAILLE": "38"},
		{"ÉTAT": "Bon état"},
		{"COULEUR": "Bleu"},
		{"EMPLACEMENT": "Lyon"},
	}, details)
}

func TestOfferService_Publish_ImageUploadFailure(t *testing.T) {
	repo := repositories.NewMockOfferRepository()
	images := newFakeImageStore()
	images.fail = true
	svc := services.NewOfferService(repo, images, nil)

	_, err := svc.Publish(context.Background(), testOwner(), services.PublishInput{
		Title: "Pull",
		Price: 10,
		Image: &services.ImageUpload{
			Filename: "pull.jpg",
			Reader:   strings.NewReader("jpeg"),
		},
	})
	assert.Error(t, err)

	// The offer is not created when its image cannot be stored.
	_, count, searchErr := svc.Search(search.Query{})
	assert.NoError(t, searchErr)
	assert.Zero(t, count)
}

func TestOfferService_Update(t *testing.T) {
	repo := repositories.NewMockOfferRepository()
	svc := services.NewOfferService(repo, nil, nil)
	owner := testOwner()

	offer := publishOffer(t, svc, owner, "Robe", 30)

	newTitle := "Robe d'été"
	newPrice := 25.0
	updated, err := svc.Update(owner, offer.ID, services.UpdateInput{
		Title: &newTitle,
		Price: &newPrice,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Robe d'été", updated.Title)
	assert.Equal(t, 25.0, updated.Price)
	// Fields left nil stay untouched.
	assert.Equal(t, offer.Description, updated.Description)

	// Unknown id.
	_, err = svc.Update(owner, "missing", services.UpdateInput{Title: &newTitle})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Another account cannot touch the offer.
	stranger := &models.User{ID: "owner-2", Username: "bob"}
	_, err = svc.Update(stranger, offer.ID, services.UpdateInput{Title: &newTitle})
	assert.ErrorIs(t, err, services.ErrNotOwner)
}

func TestOfferService_Delete(t *testing.T) {
	repo := repositories.NewMockOfferRepository()
	svc := services.NewOfferService(repo, nil, nil)
	owner := testOwner()

	offer := publishOffer(t, svc, owner, "Baskets", 60)

	stranger := &models.User{ID: "owner-2"}
	assert.ErrorIs(t, svc.Delete(stranger, offer.ID), services.ErrNotOwner)

	assert.NoError(t, svc.Delete(owner, offer.ID))
	_, err := svc.GetByID(offer.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(owner, offer.ID), repositories.ErrNotFound)
}

func TestOfferService_Search(t *testing.T) {
	repo := repositories.NewMockOfferRepository()
	svc := services.NewOfferService(repo, nil, nil)
	owner := testOwner()

	prices := []float64{5, 10, 15, 20, 25}
	for i, p := range prices {
		publishOffer(t, svc, owner, fmt.Sprintf("Article %d", i), p)
	}

	// Price range is inclusive on both bounds.
	min, max := 10.0, 20.0
	offers, count, err := svc.Search(search.Query{PriceMin: &min, PriceMax: &max})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	for _, o := range offers {
		assert.GreaterOrEqual(t, o.Price, 10.0)
		assert.LessOrEqual(t, o.Price, 20.0)
	}

	// Sort directions.
	offers, _, err = svc.Search(search.Query{Sort: search.SortPriceDesc})
	assert.NoError(t, err)
	for i := 1; i < len(offers); i++ {
		assert.GreaterOrEqual(t, offers[i-1].Price, offers[i].Price)
	}
	offers, _, err = svc.Search(search.Query{Sort: search.SortPriceAsc})
	assert.NoError(t, err)
	for i := 1; i < len(offers); i++ {
		assert.LessOrEqual(t, offers[i-1].Price, offers[i].Price)
	}

	// Count stays the full match total on every page.
	offers, count, err = svc.Search(search.Query{Limit: 2, Offset: 4})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Len(t, offers, 1)

	// An empty result is a successful search.
	offers, count, err = svc.Search(search.Query{Title: "introuvable"})
	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, offers)
}
