// Package postgres provides the PostgreSQL implementation of the tasks repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/tasks"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the tasks.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const taskColumns = `id, project_id, assigned_to_id, title, description, status, priority, due_date, created_at, updated_at`

// Create stores a new task.
func (r *Repository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.ProjectID,
		task.AssignedToID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task domain.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.ProjectID,
		&task.AssignedToID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tasks.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

// List retrieves a page of tasks matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter tasks.ListFilter) ([]domain.Task, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argNum := 1

	if filter.ProjectID != nil {
		where += fmt.Sprintf(" AND project_id = $%d", argNum)
		args = append(args, *filter.ProjectID)
		argNum++
	}

	if filter.AssignedTo != nil {
		where += fmt.Sprintf(" AND assigned_to_id = $%d", argNum)
		args = append(args, *filter.AssignedTo)
		argNum++
	}

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	if filter.Priority != nil {
		where += fmt.Sprintf(" AND priority = $%d", argNum)
		args = append(args, *filter.Priority)
		argNum++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.AssignedToID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}

	return list, total, nil
}

// Update persists changes to an existing task.
func (r *Repository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET project_id = $2, assigned_to_id = $3, title = $4, description = $5,
		    status = $6, priority = $7, due_date = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		task.ID,
		task.ProjectID,
		task.AssignedToID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}

	return nil
}
