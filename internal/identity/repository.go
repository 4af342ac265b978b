package identity

import (
	"context"

	"github.com/avelius/taskboard/internal/domain"
)

// Repository defines the credential store interface.
//
// CreateUser must fail with ErrEmailExists when the email uniqueness
// constraint is violated, so a concurrent duplicate registration surfaces as
// the same error kind as the pre-insert check.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}
