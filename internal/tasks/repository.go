package tasks

import (
	"context"

	"github.com/avelius/taskboard/internal/domain"
)

// Repository defines the interface for task data operations.
type Repository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Task, int, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}

// ListFilter represents filter criteria for listing tasks.
type ListFilter struct {
	ProjectID  *string
	AssignedTo *string
	Status     *domain.TaskStatus
	Priority   *domain.Priority
	Limit      int
	Offset     int
}
