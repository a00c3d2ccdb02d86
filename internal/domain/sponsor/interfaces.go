package sponsor

import "context"

// Repository provides persistence for sponsor profiles.
type Repository interface {
	Upsert(ctx context.Context, s *Sponsor) error
	Get(ctx context.Context, address string) (*Sponsor, error)
	List(ctx context.Context) ([]Sponsor, error)
}
