package users

import (
	"context"

	"github.com/avelius/taskboard/internal/domain"
)

// Repository defines the interface for user account data operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter ListFilter) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// ListFilter represents filter criteria for listing users.
type ListFilter struct {
	Role     *domain.Role
	IsActive *bool
	Limit    int
	Offset   int
}
