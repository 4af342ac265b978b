// Package identity provides registration, login and token validation.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/identity/jwt"
	"github.com/avelius/taskboard/internal/identity/password"
	"github.com/avelius/taskboard/internal/pkg/ctxlog"
	"github.com/google/uuid"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("user with this email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses do not reveal which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Authenticator issues and validates access tokens.
type Authenticator interface {
	Issue(user *domain.User) (string, error)
	Validate(token string) (*jwt.Claims, error)
}

// Service orchestrates the credential store, password hasher and token
// service.
type Service struct {
	repo   Repository
	hasher *password.Hasher
	auth   Authenticator
}

// NewService creates a new identity service.
func NewService(repo Repository, hasher *password.Hasher, auth Authenticator) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		auth:   auth,
	}
}

// RegisterInput holds data for registering a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResponse is returned by both Register and Login: the caller ends up
// holding a valid token for the identity either way.
type AuthResponse struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
}

// NormalizeEmail lowercases and trims an email for lookups and storage.
// Uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with role=user and returns a token for it.
// Fails with ErrEmailExists if the email is taken; the pre-insert check races
// with concurrent registrations, so the store's unique constraint is the
// authority and surfaces as the same error.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	email := NormalizeEmail(input.Email)

	if err := password.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("validate password: %w", err)
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		recordRegistration("duplicate")
		return nil, ErrEmailExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			recordRegistration("duplicate")
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	recordRegistration("success")
	ctxlog.FromContext(ctx).Info("user registered", "user_id", user.ID)

	return s.authResponse(user, token), nil
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password are indistinguishable (ErrInvalidCredentials); a disabled account
// with correct credentials fails with ErrAccountDisabled.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			recordLogin("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		recordLogin("error")
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		recordLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		recordLogin("account_disabled")
		return nil, ErrAccountDisabled
	}

	token, err := s.auth.Issue(user)
	if err != nil {
		recordLogin("error")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	recordLogin("success")
	ctxlog.FromContext(ctx).Info("user logged in", "user_id", user.ID)

	return s.authResponse(user, token), nil
}

// ValidateToken validates an access token and returns the caller's identity.
// Implements the request gate's token validator.
func (s *Service) ValidateToken(_ context.Context, token string) (string, domain.Role, error) {
	claims, err := s.auth.Validate(token)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}

// GetUserByID returns a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// EnsureAdmin creates the configured admin account on startup if it does not
// exist. An existing account is left untouched, including its password.
func (s *Service) EnsureAdmin(ctx context.Context, email, plaintext, firstName, lastName string) error {
	email = NormalizeEmail(email)

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, admin); err != nil {
		// Lost a race with another instance seeding the same account.
		if errors.Is(err, ErrEmailExists) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}

	ctxlog.FromContext(ctx).Info("seeded admin account", "email", email)
	return nil
}

func (s *Service) authResponse(user *domain.User, token string) *AuthResponse {
	return &AuthResponse{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Token:     token,
	}
}
