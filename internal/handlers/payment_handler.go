package handlers

import (
	"errors"
	"log"

	"fripe/internal/repositories"
	"fripe/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	payments *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/payment", h.HandlePayment)
}

// PaymentRequest represents the request body for a payment.
type PaymentRequest struct {
	ProductID string  `json:"productId" form:"productId" validate:"required"`
	Amount    float64 `json:"amount" form:"amount" validate:"required,gt=0"`
	Token     string  `json:"token" form:"token" validate:"required"`
	Title     string  `json:"title" form:"title"`
}

// HandlePayment validates the claimed amount against the offer price and
// delegates the charge to the payment service.
func (h *PaymentHandler) HandlePayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing payment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	ch, err := h.payments.Checkout(c.Context(), req.ProductID, req.Amount, req.Token, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "product not found",
			})
		case errors.Is(err, services.ErrPriceMismatch):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "price mismatch",
			})
		default:
			log.Printf("Error charging offer %s: %v", req.ProductID, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "payment failed",
			})
		}
	}

	return c.JSON(fiber.Map{"status": ch.Status})
}
