package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
)

// FeedbackResult is the state of a project's feedback after a mutation.
type FeedbackResult struct {
	Entry    *rating.Feedback  `json:"entry,omitempty"`
	Feedback []rating.Feedback `json:"feedback"`
	Project  *JoinedProject    `json:"project,omitempty"`
}

// FeedbackDesk submits and deletes feedback. A voter may have one mutation
// in flight per project; after each success the rating aggregates are
// reloaded into the catalog and the project's feedback is refetched.
type FeedbackDesk struct {
	projects ProjectsSource
	ratings  RatingsSource
	catalog  *Catalog
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewFeedbackDesk creates a feedback desk.
func NewFeedbackDesk(projects ProjectsSource, ratings RatingsSource, c *Catalog, logger *slog.Logger) *FeedbackDesk {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FeedbackDesk{
		projects: projects,
		ratings:  ratings,
		catalog:  c,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Busy reports whether voter has a mutation in flight on projectID.
func (d *FeedbackDesk) Busy(voter rating.Voter, projectID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inflight[formKey(voter, projectID)]
	return ok
}

// List returns the project's feedback, most recently updated first.
func (d *FeedbackDesk) List(ctx context.Context, projectID string) ([]rating.Feedback, error) {
	return d.ratings.GetFeedback(ctx, projectID)
}

// Submit adds feedback. Validation and storage failures come back as
// *rating.FeedbackError; an unknown project as ErrProjectNotFound.
func (d *FeedbackDesk) Submit(ctx context.Context, voter rating.Voter, projectID string, stars int, comment string) (*FeedbackResult, error) {
	if _, err := d.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	release, err := d.acquire(voter, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	entry, err := d.ratings.AddFeedback(ctx, voter, projectID, stars, comment)
	if err != nil {
		return nil, err
	}
	result := d.reload(ctx, projectID)
	result.Entry = entry
	return result, nil
}

// Delete removes the voter's feedback entry.
func (d *FeedbackDesk) Delete(ctx context.Context, voter rating.Voter, projectID, feedbackID string) (*FeedbackResult, error) {
	release, err := d.acquire(voter, projectID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := d.ratings.DeleteFeedback(ctx, voter, projectID, feedbackID); err != nil {
		return nil, err
	}
	return d.reload(ctx, projectID), nil
}

func (d *FeedbackDesk) acquire(voter rating.Voter, projectID string) (func(), error) {
	key := formKey(voter, projectID)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[key]; busy {
		return nil, &rating.FeedbackError{Message: rating.MsgBusy, Err: rating.ErrBusy}
	}
	d.inflight[key] = struct{}{}
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.inflight, key)
	}, nil
}

// reload refreshes aggregates and the project's feedback. Failures are
// logged; the mutation itself already succeeded.
func (d *FeedbackDesk) reload(ctx context.Context, projectID string) *FeedbackResult {
	result := &FeedbackResult{Feedback: []rating.Feedback{}}

	if err := d.catalog.ReloadRatings(ctx); err != nil {
		d.logger.Warn("ratings reload after feedback failed", "project_id", projectID, "error", err)
	}
	if entries, err := d.ratings.GetFeedback(ctx, projectID); err != nil {
		d.logger.Warn("feedback reload failed", "project_id", projectID, "error", err)
	} else {
		result.Feedback = entries
	}
	if jp, err := d.catalog.Project(projectID); err == nil {
		result.Project = &jp
	}
	return result
}

func formKey(voter rating.Voter, projectID string) string {
	return voter.Username + "\x00" + projectID
}
