package catalog_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return now.Add(-time.Duration(n) * 24 * time.Hour)
}

// fakeSources implements all three catalog sources over in-memory slices.
type fakeSources struct {
	mu          sync.Mutex
	projects    []project.Project
	sponsors    []sponsor.Sponsor
	ratings     []rating.Aggregate
	feedback    map[string][]rating.Feedback
	projectsErr error
	sponsorsErr error
	ratingsErr  error
	addFn       func(context.Context, rating.Voter, string, int, string) (*rating.Feedback, error)
	deleteFn    func(context.Context, rating.Voter, string, string) error
}

func (f *fakeSources) GetAllProjects(context.Context) ([]project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects, f.projectsErr
}

func (f *fakeSources) GetProject(_ context.Context, id string) (*project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, project.ErrProjectNotFound
}

func (f *fakeSources) GetAllSponsors(context.Context) ([]sponsor.Sponsor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sponsors, f.sponsorsErr
}

func (f *fakeSources) GetAllRatings(context.Context) ([]rating.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ratings, f.ratingsErr
}

func (f *fakeSources) GetFeedback(_ context.Context, projectID string) ([]rating.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedback[projectID], nil
}

func (f *fakeSources) AddFeedback(ctx context.Context, voter rating.Voter, projectID string, stars int, comment string) (*rating.Feedback, error) {
	return f.addFn(ctx, voter, projectID, stars, comment)
}

func (f *fakeSources) DeleteFeedback(ctx context.Context, voter rating.Voter, projectID, feedbackID string) error {
	return f.deleteFn(ctx, voter, projectID, feedbackID)
}

func (f *fakeSources) setRatings(aggs []rating.Aggregate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings = aggs
}

func newPipeline() *catalog.Pipeline {
	p := catalog.NewPipeline(rand.New(rand.NewPCG(1, 2)))
	p.Now = func() time.Time { return now }
	return p
}

func sampleSources() *fakeSources {
	return &fakeSources{
		projects: []project.Project{
			{ID: "p1", Name: "ICON Wallet", Description: "Mobile wallet", Category: project.CategoryDevelopment, Status: project.StatusInProgress, CreatedDate: day(30), UpdatedDate: day(1), SponsorAddress: "hx1"},
			{ID: "p2", Name: "Academy", Description: "Blockchain courses", Category: project.CategoryEducation, Status: project.StatusCompleted, CreatedDate: day(2), UpdatedDate: day(2), SponsorAddress: "hx2"},
			{ID: "p3", Name: "Meetups", Description: "Community events", Category: project.CategoryCommunity, Status: project.StatusProposed, CreatedDate: day(10), UpdatedDate: day(9), SponsorAddress: "hx1"},
			{ID: "p4", Name: "Tutorials", Description: "Video series for WALLET users", Category: project.CategoryEducation, Status: project.StatusInProgress, CreatedDate: day(3), UpdatedDate: day(3), SponsorAddress: "hx-gone"},
			{ID: "p5", Name: "Explorer", Description: "Block explorer", Category: project.CategoryInfrastructure, Status: project.StatusOnHold, CreatedDate: day(60), UpdatedDate: day(40), SponsorAddress: "hx3"},
		},
		sponsors: []sponsor.Sponsor{
			{Address: "hx1", Name: "Node Alpha", Rank: 5},
			{Address: "hx2", Name: "Beta Staking", Rank: 1},
			{Address: "hx3", Name: "Gamma Node", Rank: 30},
		},
		ratings: []rating.Aggregate{
			{ProjectID: "p1", Rating: 4.5, RatingCount: 2},
			{ProjectID: "p2", Rating: 3, RatingCount: 1},
			{ProjectID: "p3", Rating: 2.9, RatingCount: 7},
		},
		feedback: map[string][]rating.Feedback{},
	}
}

func ids(items []catalog.JoinedProject) []string {
	out := make([]string, len(items))
	for i, jp := range items {
		out[i] = jp.ID
	}
	return out
}
