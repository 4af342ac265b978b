package projects

import (
	"context"

	"github.com/avelius/taskboard/internal/domain"
)

// Repository defines the interface for project data operations.
// AddMember must fail with ErrAlreadyMember when the membership row already
// exists, RemoveMember with ErrNotMember when it does not.
type Repository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Project, int, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
}

// ListFilter represents filter criteria for listing projects.
type ListFilter struct {
	Status    *domain.ProjectStatus
	Priority  *domain.Priority
	CreatedBy *string
	MemberID  *string
	Limit     int
	Offset    int
}
