package models

import "time"

// Payment records a charge executed against an offer, so a sold offer can be
// traced back to its transaction.
type Payment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OfferID     string    `json:"offer_id" gorm:"type:varchar(36);index"`
	Amount      float64   `json:"amount"`
	AmountMinor int64     `json:"amount_minor"` // amount in the smallest currency unit, as sent to the charge service
	ChargeID    string    `json:"charge_id" gorm:"type:varchar(64)"`
	Status      string    `json:"status" gorm:"type:varchar(32)"`
	CreatedAt   time.Time `json:"created_at"`
}
