package repositories

import "fripe/internal/models"

// UserRepository defines the interface for account data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByToken(token string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
