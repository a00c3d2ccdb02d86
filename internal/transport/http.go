package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RatingsReader lists rating aggregates.
type RatingsReader interface {
	GetAllRatings(ctx context.Context) ([]rating.Aggregate, error)
}

// ActivityReader lists activity entries.
type ActivityReader interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services are the dependencies the HTTP handlers call.
type Services struct {
	Catalog  *catalog.Catalog
	Pipeline *catalog.Pipeline
	Feedback *catalog.FeedbackDesk
	Ratings  RatingsReader
	Activity ActivityReader
}

// Options configure the router.
type Options struct {
	// AuthEnabled requires a voter JWT on feedback mutations. When false
	// the voter is taken from the request.
	AuthEnabled bool
	JWTSecret   string
	CORSOrigins []string
	// MCP, when set, is mounted at /mcp.
	MCP    http.Handler
	Now    func() time.Time
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	opts   Options
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{svc: svc, opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
			ExposedHeaders: []string{"Mcp-Session-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", srv.handleHealth)
	r.Get("/filters", srv.handleFilters)

	r.Get("/projects", srv.handleListProjects)
	r.Get("/projects/{id}", srv.handleGetProject)
	r.Get("/projects/{id}/related", srv.handleRelatedProjects)

	r.Get("/sponsors", srv.handleListSponsors)
	r.Get("/sponsors/{address}", srv.handleGetSponsor)

	r.Get("/ratings", srv.handleListRatings)
	r.Get("/feedback", srv.handleListFeedback)
	r.Get("/activity", srv.handleListActivity)

	r.Group(func(r chi.Router) {
		if opts.AuthEnabled {
			r.Use(AuthMiddleware(opts.JWTSecret))
		}
		r.Post("/feedback", srv.handleAddFeedback)
		r.Delete("/feedback/{id}", srv.handleDeleteFeedback)
	})

	if opts.MCP != nil {
		mcpHandler := opts.MCP
		if opts.AuthEnabled {
			mcpHandler = OptionalAuthMiddleware(opts.JWTSecret)(mcpHandler)
		}
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
