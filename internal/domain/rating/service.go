package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
	"github.com/google/uuid"
)

// Service handles ratings and feedback.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new rating service. activities may be nil.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// WithClock replaces the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetAllRatings returns the aggregate of every rated project.
func (s *Service) GetAllRatings(ctx context.Context) ([]Aggregate, error) {
	aggs, err := s.repo.Aggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ratings: %w", err)
	}
	return aggs, nil
}

// GetFeedback lists a project's feedback, most recently updated first.
func (s *Service) GetFeedback(ctx context.Context, projectID string) ([]Feedback, error) {
	entries, err := s.repo.ListFeedback(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedDate.After(entries[j].UpdatedDate)
	})
	return entries, nil
}

// AddFeedback validates and stores a voter's feedback on a project.
func (s *Service) AddFeedback(ctx context.Context, voter Voter, projectID string, rating int, comment string) (*Feedback, error) {
	if err := ValidateFeedback(voter, rating, comment); err != nil {
		return nil, err
	}

	now := s.now()
	fb := &Feedback{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Username:    voter.Username,
		Level:       voter.Level,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		CreatedDate: now,
		UpdatedDate: now,
	}
	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		s.logger.Error("failed to add feedback", "project_id", projectID, "username", voter.Username, "error", err)
		return nil, newFeedbackError(MsgAddFailed, fmt.Errorf("%w: %w", ErrSubmitFailed, err))
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    projectID,
		FeedbackID:   fb.ID,
		Username:     voter.Username,
		ActivityType: activity.TypeFeedbackAdded,
		Summary:      fmt.Sprintf("%s rated %d stars", voter.Username, rating),
		CreatedAt:    now,
	})
	return fb, nil
}

// DeleteFeedback removes feedback written by the voter.
func (s *Service) DeleteFeedback(ctx context.Context, voter Voter, projectID, feedbackID string) error {
	fb, err := s.repo.GetFeedback(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newFeedbackError(MsgNotFound, ErrFeedbackNotFound)
		}
		return newFeedbackError(MsgDeleteFailed, fmt.Errorf("%w: %w", ErrDeleteFailed, err))
	}
	if fb.ProjectID != projectID {
		return newFeedbackError(MsgNotFound, ErrFeedbackNotFound)
	}
	if fb.Username != voter.Username {
		return newFeedbackError(MsgNotOwner, ErrNotOwner)
	}

	if err := s.repo.DeleteFeedback(ctx, feedbackID); err != nil {
		s.logger.Error("failed to delete feedback", "feedback_id", feedbackID, "error", err)
		return newFeedbackError(MsgDeleteFailed, fmt.Errorf("%w: %w", ErrDeleteFailed, err))
	}

	s.logActivity(ctx, &activity.ActivityEntry{
		ProjectID:    projectID,
		FeedbackID:   feedbackID,
		Username:     voter.Username,
		ActivityType: activity.TypeFeedbackDeleted,
		Summary:      fmt.Sprintf("%s removed feedback", voter.Username),
		CreatedAt:    s.now(),
	})
	return nil
}

func (s *Service) logActivity(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}
