package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
)

// SponsorRepository implements sponsor.Repository for SQLite
type SponsorRepository struct {
	db *DB
}

// NewSponsorRepository creates a new SponsorRepository
func NewSponsorRepository(db *DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

// Upsert inserts a sponsor profile or replaces the stored copy
func (r *SponsorRepository) Upsert(ctx context.Context, s *sponsor.Sponsor) error {
	query := `
		INSERT INTO sponsors (
			address, name, logo, rank, votes, voters,
			website, twitter, telegram, github, reddit, facebook
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			name = excluded.name,
			logo = excluded.logo,
			rank = excluded.rank,
			votes = excluded.votes,
			voters = excluded.voters,
			website = excluded.website,
			twitter = excluded.twitter,
			telegram = excluded.telegram,
			github = excluded.github,
			reddit = excluded.reddit,
			facebook = excluded.facebook
	`

	_, err := r.db.ExecContext(ctx, query,
		s.Address,
		s.Name,
		s.Logo,
		s.Rank,
		s.Votes,
		s.Voters,
		s.Socials.Website,
		s.Socials.Twitter,
		s.Socials.Telegram,
		s.Socials.Github,
		s.Socials.Reddit,
		s.Socials.Facebook,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sponsor: %w", err)
	}

	return nil
}

const sponsorSelect = `
	SELECT
		s.address, s.name, s.logo, s.rank, s.votes, s.voters,
		s.website, s.twitter, s.telegram, s.github, s.reddit, s.facebook,
		COUNT(p.id) AS projects
	FROM sponsors s
	LEFT JOIN projects p ON p.sponsor_address = s.address
`

// Get retrieves a sponsor by address along with its project count
func (r *SponsorRepository) Get(ctx context.Context, address string) (*sponsor.Sponsor, error) {
	query := sponsorSelect + ` WHERE s.address = ? GROUP BY s.address`

	s, err := scanSponsor(r.db.QueryRowContext(ctx, query, address))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor: %w", err)
	}

	return s, nil
}

// List returns all sponsors ordered by rank
func (r *SponsorRepository) List(ctx context.Context) ([]sponsor.Sponsor, error) {
	query := sponsorSelect + ` GROUP BY s.address ORDER BY s.rank ASC, s.address`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	sponsors := []sponsor.Sponsor{}
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		sponsors = append(sponsors, *s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sponsor rows: %w", err)
	}

	return sponsors, nil
}

func scanSponsor(row rowScanner) (*sponsor.Sponsor, error) {
	var s sponsor.Sponsor
	err := row.Scan(
		&s.Address,
		&s.Name,
		&s.Logo,
		&s.Rank,
		&s.Votes,
		&s.Voters,
		&s.Socials.Website,
		&s.Socials.Twitter,
		&s.Socials.Telegram,
		&s.Socials.Github,
		&s.Socials.Reddit,
		&s.Socials.Facebook,
		&s.Projects,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
