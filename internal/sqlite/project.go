package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, description, category, status, progress,
	created_date, updated_date, start_date, end_date, sponsor_address`

// Upsert inserts a project or replaces the stored copy
func (r *ProjectRepository) Upsert(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			status = excluded.status,
			progress = excluded.progress,
			created_date = excluded.created_date,
			updated_date = excluded.updated_date,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			sponsor_address = excluded.sponsor_address
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.Category,
		proj.Status,
		proj.Progress,
		proj.CreatedDate,
		proj.UpdatedDate,
		proj.StartDate,
		proj.EndDate,
		proj.SponsorAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// List returns all projects, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var start, end sql.NullTime
	err := row.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&proj.Category,
		&proj.Status,
		&proj.Progress,
		&proj.CreatedDate,
		&proj.UpdatedDate,
		&start,
		&end,
		&proj.SponsorAddress,
	)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		proj.StartDate = start.Time
	}
	if end.Valid {
		proj.EndDate = end.Time
	}
	return &proj, nil
}
