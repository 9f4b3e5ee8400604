package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"fripe/internal/auth"
	"fripe/internal/models"
	"fripe/internal/repositories"
)

var (
	// ErrEmailTaken is returned when a signup reuses a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for every authentication failure.
	// Unknown email and wrong password share it so callers cannot probe
	// which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountService handles signup, login and bearer-token resolution.
type AccountService struct {
	userRepo repositories.UserRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository) *AccountService {
	return &AccountService{
		userRepo: userRepo,
	}
}

// Register creates a new account. The password is never stored; a fresh salt
// and digest are derived and a long-lived bearer token is issued once.
func (s *AccountService) Register(username, email, password, phone string) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Phone:    phone,
		Salt:     salt,
		Hash:     auth.HashPassword(password, salt),
		Token:    token,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates an email/password pair. It succeeds iff the candidate
// digest equals the stored one.
func (s *AccountService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	digest := auth.HashPassword(password, user.Salt)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(user.Hash)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByToken resolves a bearer token to the account that owns it by exact
// match. Missing and unmatched tokens fail identically.
func (s *AccountService) GetByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByToken(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
