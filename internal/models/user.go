package models

import "gorm.io/gorm"

// User represents a registered account and its credential material.
// Salt, Hash and Token never leave the server through JSON serialization;
// the token is handed out once via SessionResponse at signup and login.
type User struct {
	ID         string `json:"_id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Username   string `json:"username" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" gorm:"type:varchar(32)"`
	Avatar     string `json:"avatar" gorm:"type:varchar(512)"`
	Salt       string `json:"-" gorm:"type:varchar(64)"`
	Hash       string `json:"-" gorm:"type:varchar(128)"`
	Token      string `json:"-" gorm:"uniqueIndex;type:varchar(64)"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// AccountSummary is the public projection of an account embedded in session
// responses.
type AccountSummary struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// SessionResponse is the signup/login response body. It carries the bearer
// token exactly once; every other response exposes at most AccountSummary.
type SessionResponse struct {
	ID      string         `json:"_id"`
	Token   string         `json:"token"`
	Account AccountSummary `json:"account"`
}

// ToSession builds the one-time credential response for a user.
func (u *User) ToSession() SessionResponse {
	return SessionResponse{
		ID:    u.ID,
		Token: u.Token,
		Account: AccountSummary{
			Username: u.Username,
			Phone:    u.Phone,
		},
	}
}
