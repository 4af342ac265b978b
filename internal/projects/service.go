// Package projects provides business logic for project management and
// project membership.
package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/pkg/ctxlog"
	"github.com/google/uuid"
)

// Service errors.
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrMemberNotFound   = errors.New("user not found")
	ErrAlreadyMember    = errors.New("user is already a project member")
	ErrNotMember        = errors.New("user is not a project member")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidStatus    = errors.New("invalid project status")
	ErrInvalidPriority  = errors.New("invalid priority")
)

// UserReader checks user existence for membership operations.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Service contains business logic for the projects module.
type Service struct {
	repo  Repository
	users UserReader
}

// NewService creates a new projects service.
func NewService(repo Repository, users UserReader) *Service {
	return &Service{repo: repo, users: users}
}

// CreateInput carries the fields for creating a project.
type CreateInput struct {
	Name        string
	Description string
	CreatedByID string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      domain.ProjectStatus
	Priority    domain.Priority
}

// Create stores a new project. The creator is recorded but not automatically
// added as a member; membership is managed explicitly.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Project, error) {
	status := input.Status
	if status == "" {
		status = domain.ProjectStatusPlanning
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: input.CreatedByID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
		Priority:    priority,
		MemberIDs:   make([]string, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	ctxlog.FromContext(ctx).Info("project created", "project_id", project.ID, "created_by", input.CreatedByID)
	return project, nil
}

// GetByID returns a single project including its member IDs.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of projects matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Project, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInput carries the fields for updating a project.
type UpdateInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      domain.ProjectStatus
	Priority    domain.Priority
}

// Update replaces the mutable fields of a project.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Project, error) {
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Description = input.Description
	project.StartDate = input.StartDate
	project.EndDate = input.EndDate
	project.Status = input.Status
	project.Priority = input.Priority
	project.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return project, nil
}

// Delete removes a project. Tasks referencing it keep their rows with the
// project link cleared.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	ctxlog.FromContext(ctx).Info("project deleted", "project_id", id)
	return nil
}

// AddMember adds an existing user to the project.
func (s *Service) AddMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, ErrMemberNotFound
	}

	if err := s.repo.AddMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("add project member: %w", err)
	}

	ctxlog.FromContext(ctx).Info("project member added", "project_id", projectID, "user_id", userID)
	return s.repo.GetByID(ctx, projectID)
}

// RemoveMember removes a user from the project.
func (s *Service) RemoveMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, ErrNotMember) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("remove project member: %w", err)
	}

	ctxlog.FromContext(ctx).Info("project member removed", "project_id", projectID, "user_id", userID)
	return s.repo.GetByID(ctx, projectID)
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDateRange
	}
	return nil
}
