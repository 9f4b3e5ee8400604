package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Facets are the five descriptive attributes of an offer. They are stored as
// named columns; the positional display array the frontend expects only
// exists on the wire (see FacetList).
type Facets struct {
	Brand     string `json:"brand" gorm:"type:varchar(100)"`
	Size      string `json:"size" gorm:"type:varchar(50)"`
	Condition string `json:"condition" gorm:"type:varchar(100)"`
	Color     string `json:"color" gorm:"type:varchar(50)"`
	City      string `json:"city" gorm:"type:varchar(100)"`
}

// Offer represents a published marketplace offer.
type Offer struct {
	ID          string     `json:"_id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string     `json:"title" gorm:"type:varchar(255)" validate:"required,max=255"`
	Description string     `json:"description" gorm:"type:varchar(2000)" validate:"omitempty,max=2000"`
	Price       float64    `json:"price" validate:"gte=0"`
	Facets      Facets     `json:"facets" gorm:"embedded"`
	ImageURL    string     `json:"image_url" gorm:"type:varchar(512)"`
	OwnerID     string     `json:"owner_id" gorm:"type:varchar(36);index"`
	Owner       User       `json:"-" gorm:"foreignKey:OwnerID"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FacetList serializes Facets as the fixed five-element array of display
// labels the frontend consumes. The order is part of the contract:
// brand, size, condition, color, city.
type FacetList Facets

func (f FacetList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]map[string]string{
		{"MARQUE": f.Brand},
		{"TAILLE": f.Size},
		{"ÉTAT": f.Condition},
		{"COULEUR": f.Color},
		{"EMPLACEMENT": f.City},
	})
}

// OfferOwner is the public projection of an offer's owner. Credential fields
// are deliberately absent.
type OfferOwner struct {
	Account OfferOwnerAccount `json:"account"`
	ID      string            `json:"_id"`
}

// OfferOwnerAccount carries the owner fields shown next to an offer.
type OfferOwnerAccount struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

// OfferResponse is the client-facing shape of an offer.
type OfferResponse struct {
	ID          string     `json:"_id"`
	Name        string     `json:"product_name"`
	Description string     `json:"product_description"`
	Price       float64    `json:"product_price"`
	Details     FacetList  `json:"product_details"`
	Image       string     `json:"product_image"`
	Owner       OfferOwner `json:"owner"`
}

// ToResponse projects an offer to its client-facing shape. The Owner
// association must be populated.
func (o *Offer) ToResponse() OfferResponse {
	return OfferResponse{
		ID:          o.ID,
		Name:        o.Title,
		Description: o.Description,
		Price:       o.Price,
		Details:     FacetList(o.Facets),
		Image:       o.ImageURL,
		Owner: OfferOwner{
			ID: o.OwnerID,
			Account: OfferOwnerAccount{
				Username: o.Owner.Username,
				Phone:    o.Owner.Phone,
				Avatar:   o.Owner.Avatar,
			},
		},
	}
}
