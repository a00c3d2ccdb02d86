// Package catalog joins projects, sponsor profiles and rating aggregates
// into one denormalized collection and runs filtered list views over it.
package catalog

import (
	"context"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
)

// ProjectsSource provides project records.
type ProjectsSource interface {
	GetAllProjects(ctx context.Context) ([]project.Project, error)
	GetProject(ctx context.Context, id string) (*project.Project, error)
}

// SponsorSource provides sponsor profiles.
type SponsorSource interface {
	GetAllSponsors(ctx context.Context) ([]sponsor.Sponsor, error)
}

// RatingsSource provides rating aggregates and feedback.
type RatingsSource interface {
	GetAllRatings(ctx context.Context) ([]rating.Aggregate, error)
	GetFeedback(ctx context.Context, projectID string) ([]rating.Feedback, error)
	AddFeedback(ctx context.Context, voter rating.Voter, projectID string, stars int, comment string) (*rating.Feedback, error)
	DeleteFeedback(ctx context.Context, voter rating.Voter, projectID, feedbackID string) error
}
