package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/browse"
	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains everything the tools call.
type Services struct {
	Catalog  *catalog.Catalog
	Pipeline *catalog.Pipeline
	Feedback *catalog.FeedbackDesk
	Activity ActivityService
	Browse   *browse.Manager
}

// Config contains server configuration.
type Config struct {
	Services    Services
	AuthEnabled bool
	JWTSecret   string
	// TransportMode is "stdio" or "http". Stdio never authenticates.
	TransportMode string
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "iconpreps",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Within one call the first middleware is outermost, so the logger sees
	// the resolved voter and session.
	authRequired := cfg.AuthEnabled && cfg.TransportMode != "stdio"
	var receiving []sdkmcp.Middleware
	if authRequired {
		receiving = append(receiving, authMiddleware(cfg.JWTSecret))
	}
	receiving = append(receiving, sessionMiddleware(), trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddReceivingMiddleware(receiving...)
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &toolset{svc: cfg.Services, authRequired: authRequired, now: cfg.Now})

	return server
}
