// Package charge is the HTTP client for the external card-charge service
// (a Stripe-compatible charges endpoint).
package charge

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.stripe.com"

// Config holds the charge service credentials.
type Config struct {
	// BaseURL overrides the charge API host, mainly for tests.
	BaseURL string
	// Secret is the API secret key, sent as a bearer credential.
	Secret string
}

// Request describes one charge to create.
type Request struct {
	// AmountMinor is the amount in the smallest currency unit (cents).
	AmountMinor int64
	Currency    string
	Description string
	// Source is the payment-method token produced by the frontend.
	Source string
}

// Charge is the charge service's view of a created transaction.
type Charge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the charge API.
type Client struct {
	http *resty.Client
}

// NewClient creates a charge client with the given credentials.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(base).
		SetAuthToken(cfg.Secret).
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

// CreateCharge executes one charge and returns its id and status verbatim.
func (c *Client) CreateCharge(ctx context.Context, req Request) (*Charge, error) {
	var out Charge
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"amount":      strconv.FormatInt(req.AmountMinor, 10),
			"currency":    req.Currency,
			"description": req.Description,
			"source":      req.Source,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/charges")
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("charge rejected: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("charge failed with status %d", resp.StatusCode())
	}
	return &out, nil
}
