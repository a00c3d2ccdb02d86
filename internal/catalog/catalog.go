package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
)

// Catalog holds the three source collections and the joined projects built
// from them. Each collection loads independently; the join runs only once
// all three have loaded and reruns in full whenever any one reloads.
type Catalog struct {
	projects ProjectsSource
	sponsors SponsorSource
	ratings  RatingsSource
	logger   *slog.Logger
	clock    clock.Clock

	mu             sync.RWMutex
	projectRecs    []project.Project
	sponsorRecs    []sponsor.Sponsor
	ratingRecs     []rating.Aggregate
	projectsLoaded bool
	sponsorsLoaded bool
	ratingsLoaded  bool
	joined         []JoinedProject
	subs           map[int]func()
	nextSub        int
}

// New creates an empty catalog over the three sources.
func New(projects ProjectsSource, sponsors SponsorSource, ratings RatingsSource, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		projects: projects,
		sponsors: sponsors,
		ratings:  ratings,
		logger:   logger,
		clock:    clock.New(),
		subs:     make(map[int]func()),
	}
}

// WithClock replaces the refresh clock.
func (c *Catalog) WithClock(clk clock.Clock) *Catalog {
	c.clock = clk
	return c
}

// LoadAll loads the three collections concurrently. A failed load is logged
// and leaves that collection as it was; the first error is returned.
func (c *Catalog) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.ReloadProjects(ctx) })
	g.Go(func() error { return c.ReloadSponsors(ctx) })
	g.Go(func() error { return c.ReloadRatings(ctx) })
	return g.Wait()
}

// ReloadProjects refetches projects and rejoins.
func (c *Catalog) ReloadProjects(ctx context.Context) error {
	recs, err := c.projects.GetAllProjects(ctx)
	if err != nil {
		c.logger.Error("failed to load projects", "error", err)
		return err
	}
	c.store(func() {
		c.projectRecs = recs
		c.projectsLoaded = true
	})
	return nil
}

// ReloadSponsors refetches sponsor profiles and rejoins.
func (c *Catalog) ReloadSponsors(ctx context.Context) error {
	recs, err := c.sponsors.GetAllSponsors(ctx)
	if err != nil {
		c.logger.Error("failed to load sponsors", "error", err)
		return err
	}
	c.store(func() {
		c.sponsorRecs = recs
		c.sponsorsLoaded = true
	})
	return nil
}

// ReloadRatings refetches rating aggregates and rejoins.
func (c *Catalog) ReloadRatings(ctx context.Context) error {
	recs, err := c.ratings.GetAllRatings(ctx)
	if err != nil {
		c.logger.Error("failed to load ratings", "error", err)
		return err
	}
	c.store(func() {
		c.ratingRecs = recs
		c.ratingsLoaded = true
	})
	return nil
}

func (c *Catalog) store(set func()) {
	c.mu.Lock()
	set()
	rejoined := c.projectsLoaded && c.sponsorsLoaded && c.ratingsLoaded
	if rejoined {
		c.joined = Join(c.projectRecs, c.ratingRecs, c.sponsorRecs)
	}
	subs := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if !rejoined {
		return
	}
	c.logger.Debug("catalog joined", "projects", len(c.Joined()))
	for _, fn := range subs {
		fn()
	}
}

// Ready reports whether all three collections have loaded.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projectsLoaded && c.sponsorsLoaded && c.ratingsLoaded
}

// Joined returns the current joined collection, or nil before all three
// collections have loaded. The slice is shared and must not be modified.
func (c *Catalog) Joined() []JoinedProject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.joined
}

// Projects returns a copy of the raw project collection.
func (c *Catalog) Projects() []project.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.projectRecs)
}

// Sponsors returns a copy of the sponsor collection, or nil before all three
// collections have loaded.
func (c *Catalog) Sponsors() []sponsor.Sponsor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.joined == nil {
		return nil
	}
	return slices.Clone(c.sponsorRecs)
}

// Project finds a joined project by ID.
func (c *Catalog) Project(id string) (JoinedProject, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.joined == nil {
		return JoinedProject{}, ErrNotReady
	}
	for _, jp := range c.joined {
		if jp.ID == id {
			return jp, nil
		}
	}
	return JoinedProject{}, ErrProjectNotFound
}

// Sponsor finds a sponsor profile by address.
func (c *Catalog) Sponsor(address string) (sponsor.Sponsor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.joined == nil {
		return sponsor.Sponsor{}, ErrNotReady
	}
	for _, sp := range c.sponsorRecs {
		if sp.Address == address {
			return sp, nil
		}
	}
	return sponsor.Sponsor{}, ErrSponsorNotFound
}

// Subscribe registers fn to run after every join. It returns a function that
// removes the subscription.
func (c *Catalog) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Refresh reloads every collection each interval until ctx is done.
// A non-positive interval returns immediately.
func (c *Catalog) Refresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := c.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.LoadAll(ctx); err != nil {
				c.logger.Warn("catalog refresh incomplete", "error", err)
			}
		}
	}
}
