package mocks

import (
	"context"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Upsert(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SponsorRepository is a mock for sponsor.Repository.
type SponsorRepository struct {
	mock.Mock
}

func (m *SponsorRepository) Upsert(ctx context.Context, s *sponsor.Sponsor) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SponsorRepository) Get(ctx context.Context, address string) (*sponsor.Sponsor, error) {
	args := m.Called(ctx, address)
	if sp, ok := args.Get(0).(*sponsor.Sponsor); ok {
		return sp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SponsorRepository) List(ctx context.Context) ([]sponsor.Sponsor, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]sponsor.Sponsor); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RatingRepository is a mock for rating.Repository.
type RatingRepository struct {
	mock.Mock
}

func (m *RatingRepository) Aggregates(ctx context.Context) ([]rating.Aggregate, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]rating.Aggregate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RatingRepository) ListFeedback(ctx context.Context, projectID string) ([]rating.Feedback, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]rating.Feedback); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RatingRepository) GetFeedback(ctx context.Context, id string) (*rating.Feedback, error) {
	args := m.Called(ctx, id)
	if fb, ok := args.Get(0).(*rating.Feedback); ok {
		return fb, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RatingRepository) CreateFeedback(ctx context.Context, fb *rating.Feedback) error {
	args := m.Called(ctx, fb)
	return args.Error(0)
}

func (m *RatingRepository) DeleteFeedback(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
