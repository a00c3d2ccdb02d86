// Package testserver runs the whole stack (SQLite, catalog, REST and MCP)
// behind an httptest server for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/browse"
	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/mcp"
	"github.com/Transcranial-Solutions/iconpreps/internal/random"
	"github.com/Transcranial-Solutions/iconpreps/internal/seed"
	"github.com/Transcranial-Solutions/iconpreps/internal/sqlite"
	"github.com/Transcranial-Solutions/iconpreps/internal/transport"
	"github.com/benbjohnson/clock"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// Now is the mock clock's starting time. Fixture dates are relative to it.
var Now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const secret = "testserver-secret"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Secret   string
	Clock    *clock.Mock
	Catalog  *catalog.Catalog
	Pipeline *catalog.Pipeline
	Feedback *catalog.FeedbackDesk
	Activity *activity.Service
	Browse   *browse.Manager
	MCP      *sdkmcp.Server
}

// Option configures New.
type Option func(*options)

type options struct {
	auth    bool
	fixture *seed.Fixture
}

// WithAuth requires voter tokens on feedback mutations.
func WithAuth() Option {
	return func(o *options) { o.auth = true }
}

// WithFixture replaces the default fixture. Nil starts empty.
func WithFixture(f *seed.Fixture) Option {
	return func(o *options) { o.fixture = f }
}

// New starts a server over a fresh in-memory database loaded with the
// fixture.
func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	o := options{fixture: Fixture()}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	mock := clock.NewMock()
	mock.Set(Now)

	projectRepo := sqlite.NewProjectRepository(db)
	sponsorRepo := sqlite.NewSponsorRepository(db)
	ratingRepo := sqlite.NewRatingRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	projectSvc := project.NewService(projectRepo, nil)
	sponsorSvc := sponsor.NewService(sponsorRepo, nil)
	ratingSvc := rating.NewService(ratingRepo, activityRepo, nil).WithClock(mock.Now)
	activitySvc := activity.NewService(activityRepo, nil)

	ctx := context.Background()
	if o.fixture != nil {
		importer := &seed.Importer{
			Projects:   projectSvc,
			Sponsors:   sponsorSvc,
			Feedback:   ratingRepo,
			Activities: activitySvc,
		}
		require.NoError(t, importer.Import(ctx, o.fixture))
	}

	pipeline := catalog.NewPipeline(random.New(1))
	pipeline.Now = mock.Now
	cat := catalog.New(projectSvc, sponsorSvc, ratingSvc, nil).WithClock(mock)
	require.NoError(t, cat.LoadAll(ctx))

	desk := catalog.NewFeedbackDesk(projectSvc, ratingSvc, cat, nil)
	manager := browse.NewManager(cat, pipeline, browse.WithClock(mock))

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Catalog:  cat,
			Pipeline: pipeline,
			Feedback: desk,
			Activity: activitySvc,
			Browse:   manager,
		},
		AuthEnabled:   o.auth,
		JWTSecret:     secret,
		TransportMode: "http",
		Now:           mock.Now,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	router := transport.NewServer(transport.Services{
		Catalog:  cat,
		Pipeline: pipeline,
		Feedback: desk,
		Ratings:  ratingSvc,
		Activity: activitySvc,
	}, transport.Options{
		AuthEnabled: o.auth,
		JWTSecret:   secret,
		MCP:         mcpHandler,
		Now:         mock.Now,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Secret:   secret,
		Clock:    mock,
		Catalog:  cat,
		Pipeline: pipeline,
		Feedback: desk,
		Activity: activitySvc,
		Browse:   manager,
		MCP:      mcpServer,
	}
}

// Token issues an hour-long voter token.
func (ts *TestServer) Token(t *testing.T, voter rating.Voter) string {
	t.Helper()
	token, err := transport.IssueVoterToken(ts.Secret, voter, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

// Alice can leave feedback; Bob has not delegated enough.
var (
	Alice = rating.Voter{Username: "alice", Level: 2, CanSubmitFeedback: true}
	Bob   = rating.Voter{Username: "bob", Level: 0, CanSubmitFeedback: false}
)

// Fixture returns two sponsors, four projects and two feedback entries:
//
//	p1 ICON Wallet        Development  In Progress  hx1  created 30d ago, updated 1d ago, rated 5 and 3
//	p2 Blockchain Academy Education    Completed    hx2  created 2d ago
//	p3 Bridge Monitor     Development  Proposed     hx1  created 60d ago
//	p4 Meetup Grants      Community    In Progress  hx2  created 10d ago
func Fixture() *seed.Fixture {
	day := 24 * time.Hour
	return &seed.Fixture{
		Sponsors: []sponsor.Sponsor{
			{Address: "hx1", Name: "Node Alpha", Rank: 3, Votes: 1200000, Voters: 310},
			{Address: "hx2", Name: "Beacon Labs", Rank: 30, Votes: 90000, Voters: 42},
		},
		Projects: []project.Project{
			{
				ID: "p1", Name: "ICON Wallet", Description: "Mobile wallet for ICX",
				Category: project.CategoryDevelopment, Status: project.StatusInProgress, Progress: 60,
				CreatedDate: Now.Add(-30 * day), UpdatedDate: Now.Add(-1 * day), SponsorAddress: "hx1",
			},
			{
				ID: "p2", Name: "Blockchain Academy", Description: "Courses for new developers",
				Category: project.CategoryEducation, Status: project.StatusCompleted, Progress: 100,
				CreatedDate: Now.Add(-2 * day), UpdatedDate: Now.Add(-2 * day), SponsorAddress: "hx2",
			},
			{
				ID: "p3", Name: "Bridge Monitor", Description: "Dashboard for cross-chain transfers",
				Category: project.CategoryDevelopment, Status: project.StatusProposed,
				CreatedDate: Now.Add(-60 * day), UpdatedDate: Now.Add(-40 * day), SponsorAddress: "hx1",
			},
			{
				ID: "p4", Name: "Meetup Grants", Description: "Local community meetups",
				Category: project.CategoryCommunity, Status: project.StatusInProgress, Progress: 20,
				CreatedDate: Now.Add(-10 * day), UpdatedDate: Now.Add(-10 * day), SponsorAddress: "hx2",
			},
		},
		Feedback: []rating.Feedback{
			{
				ID: "f1", ProjectID: "p1", Username: "carol", Level: 3, Rating: 5, Comment: "Works well",
				CreatedDate: Now.Add(-5 * day), UpdatedDate: Now.Add(-5 * day),
			},
			{
				ID: "f2", ProjectID: "p1", Username: "dave", Level: 1, Rating: 3, Comment: "Slow sync",
				CreatedDate: Now.Add(-3 * day), UpdatedDate: Now.Add(-3 * day),
			},
		},
	}
}
