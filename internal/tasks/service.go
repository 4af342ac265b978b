// Package tasks provides business logic for task tracking.
package tasks

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
	ErrTaskNotFound     = errors.New("task not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrAssigneeNotFound = errors.New("assigned user not found")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrInvalidPriority  = errors.New("invalid priority")
)

// ProjectReader checks project existence for task links.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
}

// UserReader checks user existence for task assignment.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Service contains business logic for the tasks module.
type Service struct {
	repo     Repository
	projects ProjectReader
	users    UserReader
}

// NewService creates a new tasks service.
func NewService(repo Repository, projects ProjectReader, users UserReader) *Service {
	return &Service{repo: repo, projects: projects, users: users}
}

// CreateInput carries the fields for creating a task.
type CreateInput struct {
	ProjectID    *string
	AssignedToID *string
	Title        string
	Description  string
	Status       domain.TaskStatus
	Priority     domain.Priority
	DueDate      *time.Time
}

// Create stores a new task after verifying its project and assignee exist.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	status := input.Status
	if status == "" {
		status = domain.TaskStatusTodo
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
	if err := s.checkReferences(ctx, input.ProjectID, input.AssignedToID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:           uuid.New().String(),
		ProjectID:    input.ProjectID,
		AssignedToID: input.AssignedToID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      input.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	ctxlog.FromContext(ctx).Info("task created", "task_id", task.ID, "project_id", input.ProjectID)
	return task, nil
}

// GetByID returns a single task.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of tasks matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Task, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInput carries the fields for updating a task.
type UpdateInput struct {
	ProjectID    *string
	AssignedToID *string
	Title        string
	Description  string
	Status       domain.TaskStatus
	Priority     domain.Priority
	DueDate      *time.Time
}

// Update replaces the mutable fields of a task. Project and assignee links
// are re-verified so a task never points at a missing row.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Task, error) {
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if err := s.checkReferences(ctx, input.ProjectID, input.AssignedToID); err != nil {
		return nil, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.ProjectID = input.ProjectID
	task.AssignedToID = input.AssignedToID
	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority
	task.DueDate = input.DueDate
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// UpdateStatus moves a task through the workflow without touching other fields.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	return task, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	ctxlog.FromContext(ctx).Info("task deleted", "task_id", id)
	return nil
}

func (s *Service) checkReferences(ctx context.Context, projectID, assignedToID *string) error {
	if projectID != nil {
		if _, err := s.projects.GetByID(ctx, *projectID); err != nil {
			return ErrProjectNotFound
		}
	}
	if assignedToID != nil {
		if _, err := s.users.GetByID(ctx, *assignedToID); err != nil {
			return ErrAssigneeNotFound
		}
	}
	return nil
}
