package handlers

import (
	"errors"
	"log"

	"fripe/internal/middleware"
	"fripe/internal/models"
	"fripe/internal/repositories"
	"fripe/internal/search"
	"fripe/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OfferHandler handles HTTP requests for offers.
type OfferHandler struct {
	offers   *services.OfferService
	validate *validator.Validate
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offers *services.OfferService) *OfferHandler {
	return &OfferHandler{
		offers:   offers,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the offer routes. Mutation routes are gated by
// authRequired; search and get-by-id stay public.
func (h *OfferHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/offer/publish", authRequired, h.HandlePublish)
	router.Put("/offer/update", authRequired, h.HandleUpdate)
	router.Delete("/offer/delete/:id", authRequired, h.HandleDelete)
	router.Get("/offers", h.HandleSearch)
	router.Get("/offer/:id", h.HandleGetByID)
}

// PublishRequest represents the request body for publishing an offer.
type PublishRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,max=255"`
	Description string  `json:"description" form:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
	Brand       string  `json:"brand" form:"brand"`
	Size        string  `json:"size" form:"size"`
	Condition   string  `json:"condition" form:"condition"`
	Color       string  `json:"color" form:"color"`
	City        string  `json:"city" form:"city"`
}

// HandlePublish creates an offer owned by the authenticated account. An
// optional "picture" multipart file is uploaded to the image store.
func (h *OfferHandler) HandlePublish(c *fiber.Ctx) error {
	owner := middleware.UserFromContext(c)
	if owner == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "unauthorized",
		})
	}

	var req PublishRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing publish request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	in := services.PublishInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Facets: models.Facets{
			Brand:     req.Brand,
			Size:      req.Size,
			Condition: req.Condition,
			Color:     req.Color,
			City:      req.City,
		},
	}

	if file, err := c.FormFile("picture"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			log.Printf("Error opening uploaded picture: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid picture upload",
			})
		}
		defer src.Close()
		in.Image = &services.ImageUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Reader:      src,
		}
	}

	offer, err := h.offers.Publish(c.Context(), owner, in)
	if err != nil {
		log.Printf("Error publishing offer: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not publish offer",
		})
	}

	return c.JSON(fiber.Map{"message": offer.ToResponse()})
}

// UpdateRequest represents the request body for a partial offer update. The
// id is mandatory; the other fields are applied only when present.
type UpdateRequest struct {
	ID          string   `json:"id" form:"id"`
	Title       *string  `json:"title" form:"title"`
	Description *string  `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
}

// HandleUpdate applies a partial update to an offer owned by the caller.
func (h *OfferHandler) HandleUpdate(c *fiber.Ctx) error {
	owner := middleware.UserFromContext(c)
	if owner == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "unauthorized",
		})
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "bad request",
		})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "price must not be negative",
		})
	}

	offer, err := h.offers.Update(owner, req.ID, services.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, services.ErrNotOwner) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "offer not found",
			})
		}
		log.Printf("Error updating offer %s: %v", req.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update offer",
		})
	}

	return c.JSON(fiber.Map{
		"message": "offer successfully updated",
		"offer":   offer.ToResponse(),
	})
}

// HandleDelete removes an offer owned by the caller.
func (h *OfferHandler) HandleDelete(c *fiber.Ctx) error {
	owner := middleware.UserFromContext(c)
	if owner == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "unauthorized",
		})
	}

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "bad request",
		})
	}

	if err := h.offers.Delete(owner, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, services.ErrNotOwner) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "offer not found",
			})
		}
		log.Printf("Error deleting offer %s: %v", id, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not delete offer",
		})
	}

	return c.JSON(fiber.Map{"message": "offer successfully deleted"})
}

// HandleSearch runs a filtered, sorted, paginated search. The count is the
// total number of matches before pagination; an empty page is a success.
func (h *OfferHandler) HandleSearch(c *fiber.Ctx) error {
	q := search.Parse(search.Params{
		Title:    c.Query("title"),
		PriceMin: c.Query("priceMin"),
		PriceMax: c.Query("priceMax"),
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	})

	offers, count, err := h.offers.Search(q)
	if err != nil {
		log.Printf("Error searching offers: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not search offers",
		})
	}

	responses := make([]models.OfferResponse, 0, len(offers))
	for i := range offers {
		responses = append(responses, offers[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"count":  count,
		"offers": responses,
	})
}

// HandleGetByID fetches a single offer.
func (h *OfferHandler) HandleGetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "bad request",
		})
	}

	offer, err := h.offers.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "offer not found",
			})
		}
		log.Printf("Error getting offer %s: %v", id, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not retrieve offer",
		})
	}

	return c.JSON(offer.ToResponse())
}
