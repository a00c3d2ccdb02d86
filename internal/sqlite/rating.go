package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
)

// RatingRepository implements rating.Repository for SQLite
type RatingRepository struct {
	db *DB
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db *DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Aggregates returns the average rating and feedback count per project.
// Projects without feedback are omitted.
func (r *RatingRepository) Aggregates(ctx context.Context) ([]rating.Aggregate, error) {
	query := `
		SELECT project_id, AVG(rating), COUNT(*)
		FROM feedback
		GROUP BY project_id
		ORDER BY project_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer rows.Close()

	aggs := []rating.Aggregate{}
	for rows.Next() {
		var agg rating.Aggregate
		if err := rows.Scan(&agg.ProjectID, &agg.Rating, &agg.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan rating aggregate: %w", err)
		}
		aggs = append(aggs, agg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating rows: %w", err)
	}

	return aggs, nil
}

const feedbackColumns = `id, project_id, username, level, rating, comment, created_date, updated_date`

// ListFeedback returns a project's feedback
func (r *RatingRepository) ListFeedback(ctx context.Context, projectID string) ([]rating.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE project_id = ? ORDER BY updated_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	entries := []rating.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, *fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	return entries, nil
}

// GetFeedback retrieves one feedback entry
func (r *RatingRepository) GetFeedback(ctx context.Context, id string) (*rating.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = ?`

	fb, err := scanFeedback(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return fb, nil
}

// CreateFeedback inserts a feedback entry
func (r *RatingRepository) CreateFeedback(ctx context.Context, fb *rating.Feedback) error {
	query := `INSERT INTO feedback (` + feedbackColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		fb.ID,
		fb.ProjectID,
		fb.Username,
		fb.Level,
		fb.Rating,
		fb.Comment,
		fb.CreatedDate,
		fb.UpdatedDate,
	)
	if err != nil {
		return mapWriteError("create feedback", err)
	}

	return nil
}

// DeleteFeedback removes a feedback entry
func (r *RatingRepository) DeleteFeedback(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanFeedback(row rowScanner) (*rating.Feedback, error) {
	var fb rating.Feedback
	err := row.Scan(
		&fb.ID,
		&fb.ProjectID,
		&fb.Username,
		&fb.Level,
		&fb.Rating,
		&fb.Comment,
		&fb.CreatedDate,
		&fb.UpdatedDate,
	)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}
