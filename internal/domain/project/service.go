package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// GetAllProjects returns every project in storage order.
func (s *Service) GetAllProjects(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a project by ID.
func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Import validates and stores a batch of projects, replacing existing rows by ID.
func (s *Service) Import(ctx context.Context, projects []Project) error {
	for i := range projects {
		proj := &projects[i]
		if err := validate(proj); err != nil {
			return fmt.Errorf("project %q: %w", proj.ID, err)
		}
		if proj.UpdatedDate.IsZero() {
			proj.UpdatedDate = proj.CreatedDate
		}
		if err := s.repo.Upsert(ctx, proj); err != nil {
			return fmt.Errorf("importing project %q: %w", proj.ID, err)
		}
	}
	s.logger.Info("projects imported", "count", len(projects))
	return nil
}

func validate(proj *Project) error {
	switch {
	case strings.TrimSpace(proj.ID) == "", strings.TrimSpace(proj.Name) == "":
		return ErrInvalidInput
	case !proj.Category.Valid(), !proj.Status.Valid():
		return ErrInvalidInput
	case proj.Progress < 0 || proj.Progress > 100:
		return ErrInvalidInput
	}
	return nil
}
