package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository/mocks"
	"github.com/Transcranial-Solutions/iconpreps/internal/seed"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixture = `
sponsors:
  - address: hx1
    name: Node Alpha
    rank: 4
    socials:
      website: https://alpha.example
projects:
  - id: p1
    name: ICON Wallet
    description: Mobile wallet
    category: Development
    status: In Progress
    created_date: 2024-05-01T00:00:00Z
    sponsor_address: hx1
feedback:
  - id: f1
    project_id: p1
    username: alice
    rating: 5
    comment: Great work
    created_date: 2024-05-02T00:00:00Z
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	f, err := seed.Load(path)
	require.NoError(t, err)
	require.Len(t, f.Sponsors, 1)
	require.Equal(t, "https://alpha.example", f.Sponsors[0].Socials.Website)
	require.Len(t, f.Projects, 1)
	require.Equal(t, project.StatusInProgress, f.Projects[0].Status)
	require.True(t, f.Projects[0].CreatedDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 5, f.Feedback[0].Rating)

	_, err = seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read seed file")

	_, err = seed.Parse([]byte("projects: {"))
	require.ErrorContains(t, err, "parse seed file")
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()
	f, err := seed.Parse([]byte(fixture))
	require.NoError(t, err)

	projectRepo := &mocks.ProjectRepository{}
	sponsorRepo := &mocks.SponsorRepository{}
	ratingRepo := &mocks.RatingRepository{}
	activityRepo := &mocks.ActivityRepository{}

	sponsorRepo.On("Upsert", ctx, mock.AnythingOfType("*sponsor.Sponsor")).Return(nil)
	projectRepo.On("Upsert", ctx, mock.AnythingOfType("*project.Project")).Return(nil)
	ratingRepo.On("CreateFeedback", ctx, mock.MatchedBy(func(fb *rating.Feedback) bool {
		return fb.ID == "f1" && fb.UpdatedDate.Equal(fb.CreatedDate)
	})).Return(nil).Once()
	activityRepo.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeCatalogImported
	})).Return(nil)

	im := &seed.Importer{
		Projects:   project.NewService(projectRepo, nil),
		Sponsors:   sponsor.NewService(sponsorRepo, nil),
		Feedback:   ratingRepo,
		Activities: activity.NewService(activityRepo, nil),
	}
	require.NoError(t, im.Import(ctx, f))

	// A second run skips feedback that already exists.
	ratingRepo.On("CreateFeedback", ctx, mock.Anything).Return(repository.ErrConflict)
	require.NoError(t, im.Import(ctx, f))

	projectRepo.AssertExpectations(t)
	sponsorRepo.AssertExpectations(t)
	ratingRepo.AssertExpectations(t)
	activityRepo.AssertNumberOfCalls(t, "Log", 2)
}
