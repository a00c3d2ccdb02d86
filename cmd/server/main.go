package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/browse"
	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/config"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/mcp"
	"github.com/Transcranial-Solutions/iconpreps/internal/random"
	"github.com/Transcranial-Solutions/iconpreps/internal/seed"
	"github.com/Transcranial-Solutions/iconpreps/internal/sqlite"
	"github.com/Transcranial-Solutions/iconpreps/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries JSON-RPC in stdio mode.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.ModeStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	projectRepo := sqlite.NewProjectRepository(db)
	sponsorRepo := sqlite.NewSponsorRepository(db)
	ratingRepo := sqlite.NewRatingRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	projectSvc := project.NewService(projectRepo, logger)
	sponsorSvc := sponsor.NewService(sponsorRepo, logger)
	ratingSvc := rating.NewService(ratingRepo, activityRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.Path != "" {
		fixture, err := seed.Load(cfg.Seed.Path)
		if err != nil {
			return err
		}
		importer := &seed.Importer{
			Projects:   projectSvc,
			Sponsors:   sponsorSvc,
			Feedback:   ratingRepo,
			Activities: activitySvc,
			Logger:     logger,
		}
		if err := importer.Import(ctx, fixture); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	rng, err := random.NewFromEntropy()
	if err != nil {
		return err
	}
	pipeline := catalog.NewPipeline(rng)
	cat := catalog.New(projectSvc, sponsorSvc, ratingSvc, logger)
	if err := cat.LoadAll(ctx); err != nil {
		// Views serve empty lists until a refresh succeeds.
		logger.Warn("initial catalog load incomplete", "error", err)
	}
	go cat.Refresh(ctx, cfg.Catalog.RefreshInterval)

	desk := catalog.NewFeedbackDesk(projectSvc, ratingSvc, cat, logger)
	manager := browse.NewManager(cat, pipeline,
		browse.WithIdleTimeout(cfg.Browse.IdleTimeout),
		browse.WithDebounce(cfg.Search.Debounce),
		browse.WithListLimit(cfg.Catalog.ListLimit),
		browse.WithLogger(logger),
	)
	go manager.Run(ctx)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Catalog:  cat,
			Pipeline: pipeline,
			Feedback: desk,
			Activity: activitySvc,
			Browse:   manager,
		},
		AuthEnabled:   cfg.Auth.Enabled,
		JWTSecret:     cfg.Auth.JWTSecret,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == config.ModeStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}

	// Browse state expires in the manager; transport sessions live until
	// the client ends them.
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)
	router := transport.NewServer(transport.Services{
		Catalog:  cat,
		Pipeline: pipeline,
		Feedback: desk,
		Ratings:  ratingSvc,
		Activity: activitySvc,
	}, transport.Options{
		AuthEnabled: cfg.Auth.Enabled,
		JWTSecret:   cfg.Auth.JWTSecret,
		CORSOrigins: cfg.Server.CORSOrigins,
		MCP:         mcpHandler,
		Logger:      logger,
	})
	return runHTTPMode(ctx, logger, router, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")
	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
