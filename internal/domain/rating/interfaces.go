package rating

import (
	"context"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
)

// Repository provides persistence for feedback and rating aggregates.
type Repository interface {
	Aggregates(ctx context.Context) ([]Aggregate, error)
	ListFeedback(ctx context.Context, projectID string) ([]Feedback, error)
	GetFeedback(ctx context.Context, id string) (*Feedback, error)
	CreateFeedback(ctx context.Context, fb *Feedback) error
	DeleteFeedback(ctx context.Context, id string) error
}

// ActivityRepository records feedback mutations.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
