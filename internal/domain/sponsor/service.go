package sponsor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
)

// Service handles sponsor profile operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new sponsor service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// GetAllSponsors returns every sponsor profile.
func (s *Service) GetAllSponsors(ctx context.Context) ([]Sponsor, error) {
	sponsors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sponsors: %w", err)
	}
	return sponsors, nil
}

// Get fetches a sponsor by address.
func (s *Service) Get(ctx context.Context, address string) (*Sponsor, error) {
	sp, err := s.repo.Get(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSponsorNotFound
		}
		return nil, fmt.Errorf("getting sponsor: %w", err)
	}
	return sp, nil
}

// Import stores a batch of sponsor profiles, replacing existing rows by address.
func (s *Service) Import(ctx context.Context, sponsors []Sponsor) error {
	for i := range sponsors {
		sp := &sponsors[i]
		if strings.TrimSpace(sp.Address) == "" || strings.TrimSpace(sp.Name) == "" || sp.Rank < 1 {
			return fmt.Errorf("sponsor %q: %w", sp.Address, ErrInvalidInput)
		}
		if err := s.repo.Upsert(ctx, sp); err != nil {
			return fmt.Errorf("importing sponsor %q: %w", sp.Address, err)
		}
	}
	s.logger.Info("sponsors imported", "count", len(sponsors))
	return nil
}
