// Package postgres provides the PostgreSQL implementation of the projects repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelius/taskboard/internal/domain"
	"github.com/avelius/taskboard/internal/projects"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository implements the projects.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const projectColumns = `id, name, description, created_by_id, start_date, end_date, status, priority, created_at, updated_at`

// Create stores a new project.
func (r *Repository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.CreatedByID,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Priority,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project with its member IDs.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var project domain.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedByID,
		&project.StartDate,
		&project.EndDate,
		&project.Status,
		&project.Priority,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, projects.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}

	memberIDs, err := r.listMemberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	project.MemberIDs = memberIDs

	return &project, nil
}

// List retrieves a page of projects matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, filter projects.ListFilter) ([]domain.Project, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argNum := 1

	if filter.Status != nil {
		where += fmt.Sprintf(" AND p.status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	if filter.Priority != nil {
		where += fmt.Sprintf(" AND p.priority = $%d", argNum)
		args = append(args, *filter.Priority)
		argNum++
	}

	if filter.CreatedBy != nil {
		where += fmt.Sprintf(" AND p.created_by_id = $%d", argNum)
		args = append(args, *filter.CreatedBy)
		argNum++
	}

	if filter.MemberID != nil {
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = p.id AND pm.user_id = $%d)", argNum)
		args = append(args, *filter.MemberID)
		argNum++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM projects p` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := `
		SELECT p.id, p.name, p.description, p.created_by_id, p.start_date, p.end_date,
		       p.status, p.priority, p.created_at, p.updated_at
		FROM projects p` + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Project, 0)
	for rows.Next() {
		var project domain.Project
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.CreatedByID,
			&project.StartDate,
			&project.EndDate,
			&project.Status,
			&project.Priority,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		project.MemberIDs = make([]string, 0)
		list = append(list, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate projects: %w", err)
	}

	if err := r.attachMemberIDs(ctx, list); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// Update persists changes to an existing project.
func (r *Repository) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, start_date = $4, end_date = $5,
		    status = $6, priority = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Priority,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projects.ErrProjectNotFound
	}

	return nil
}

// Delete removes a project. Membership rows cascade, tasks keep their rows
// with project_id cleared via ON DELETE SET NULL.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projects.ErrProjectNotFound
	}

	return nil
}

// AddMember inserts a membership row.
func (r *Repository) AddMember(ctx context.Context, projectID, userID string) error {
	query := `INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, projectID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return projects.ErrAlreadyMember
		}
		return fmt.Errorf("add project member: %w", err)
	}

	return nil
}

// RemoveMember deletes a membership row.
func (r *Repository) RemoveMember(ctx context.Context, projectID, userID string) error {
	query := `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projects.ErrNotMember
	}

	return nil
}

func (r *Repository) listMemberIDs(ctx context.Context, projectID string) ([]string, error) {
	query := `SELECT user_id FROM project_members WHERE project_id = $1 ORDER BY user_id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project members: %w", err)
	}

	return ids, nil
}

// attachMemberIDs loads memberships for a page of projects in one query.
func (r *Repository) attachMemberIDs(ctx context.Context, list []domain.Project) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i, p := range list {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `SELECT project_id, user_id FROM project_members WHERE project_id = ANY($1) ORDER BY user_id`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, userID string
		if err := rows.Scan(&projectID, &userID); err != nil {
			return fmt.Errorf("scan project member: %w", err)
		}
		if i, ok := index[projectID]; ok {
			list[i].MemberIDs = append(list[i].MemberIDs, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate project members: %w", err)
	}

	return nil
}
