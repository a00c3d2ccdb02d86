// Package seed loads project, sponsor and feedback fixtures from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
	"gopkg.in/yaml.v3"
)

// Fixture is the seed file layout.
type Fixture struct {
	Sponsors []sponsor.Sponsor `yaml:"sponsors"`
	Projects []project.Project `yaml:"projects"`
	Feedback []rating.Feedback `yaml:"feedback"`
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// ProjectImporter stores projects.
type ProjectImporter interface {
	Import(ctx context.Context, projects []project.Project) error
}

// SponsorImporter stores sponsor profiles.
type SponsorImporter interface {
	Import(ctx context.Context, sponsors []sponsor.Sponsor) error
}

// FeedbackWriter stores feedback entries as given.
type FeedbackWriter interface {
	CreateFeedback(ctx context.Context, fb *rating.Feedback) error
}

// ActivityLogger records the import.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}

// Importer writes a fixture into storage.
type Importer struct {
	Projects   ProjectImporter
	Sponsors   SponsorImporter
	Feedback   FeedbackWriter
	Activities ActivityLogger
	Logger     *slog.Logger
}

// Import stores sponsors, then projects, then feedback. Feedback already
// present is left alone, so a fixture can be imported on every start.
func (im *Importer) Import(ctx context.Context, f *Fixture) error {
	logger := im.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := im.Sponsors.Import(ctx, f.Sponsors); err != nil {
		return fmt.Errorf("import sponsors: %w", err)
	}
	if err := im.Projects.Import(ctx, f.Projects); err != nil {
		return fmt.Errorf("import projects: %w", err)
	}

	added := 0
	for i := range f.Feedback {
		fb := f.Feedback[i]
		if fb.UpdatedDate.IsZero() {
			fb.UpdatedDate = fb.CreatedDate
		}
		err := im.Feedback.CreateFeedback(ctx, &fb)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("import feedback %s: %w", fb.ID, err)
		}
		added++
	}

	summary := fmt.Sprintf("imported %d sponsors, %d projects, %d feedback", len(f.Sponsors), len(f.Projects), added)
	logger.Info("seed imported", "sponsors", len(f.Sponsors), "projects", len(f.Projects), "feedback", added)
	if im.Activities != nil {
		if err := im.Activities.LogActivity(ctx, &activity.ActivityEntry{
			ActivityType: activity.TypeCatalogImported,
			Summary:      summary,
		}); err != nil {
			logger.Warn("failed to log seed import", "error", err)
		}
	}
	return nil
}
