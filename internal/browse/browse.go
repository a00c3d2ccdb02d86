// Package browse keeps per-client list state: a project view, a sponsor
// view and a debounced search input for each, keyed by session ID.
package browse

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
	"github.com/Transcranial-Solutions/iconpreps/internal/search"
	"github.com/benbjohnson/clock"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Session is one client's browsing state.
type Session struct {
	ID            string
	Projects      *catalog.ProjectView
	Sponsors      *catalog.SponsorView
	ProjectSearch *search.Coordinator
	SponsorSearch *search.Coordinator
	CreatedAt     time.Time

	mu           sync.Mutex
	lastActivity time.Time
	unsubscribe  []func()
}

// Info describes a live session.
type Info struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// LastActivity returns when the session was last used.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *Session) close() {
	s.ProjectSearch.Close()
	s.SponsorSearch.Close()
	s.mu.Lock()
	unsubs := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	for _, fn := range unsubs {
		fn()
	}
}

// Manager creates, looks up and expires sessions.
type Manager struct {
	catalog  *catalog.Catalog
	pipeline *catalog.Pipeline
	clock    clock.Clock
	idle     time.Duration
	debounce time.Duration
	limit    int
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for idle expiry and debouncing.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) { m.clock = clk }
}

// WithIdleTimeout sets how long an untouched session survives.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idle = d
		}
	}
}

// WithDebounce sets the search quiet period.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounce = d }
}

// WithListLimit sets the result limit new views start with.
func WithListLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager over a catalog.
func NewManager(c *catalog.Catalog, p *catalog.Pipeline, opts ...Option) *Manager {
	m := &Manager{
		catalog:  c,
		pipeline: p,
		clock:    clock.New(),
		idle:     DefaultIdleTimeout,
		debounce: search.DefaultDelay,
		limit:    filter.DefaultLimit,
		logger:   slog.New(slog.DiscardHandler),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the session for id, creating it on first use, and marks it
// active.
func (m *Manager) Get(id string) *Session {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s
	}
	s := m.newSession(id, now)
	m.sessions[id] = s
	m.logger.Debug("browse session opened", "session_id", id)
	return s
}

func (m *Manager) newSession(id string, now time.Time) *Session {
	s := &Session{
		ID:           id,
		Projects:     catalog.NewProjectView(m.catalog, m.pipeline, filter.WithLimit(m.limit)),
		Sponsors:     catalog.NewSponsorView(m.catalog, m.pipeline, filter.WithLimit(m.limit)),
		CreatedAt:    now,
		lastActivity: now,
	}
	searchOpts := []search.Option{search.WithClock(m.clock), search.WithDelay(m.debounce)}
	s.ProjectSearch = search.NewCoordinator(s.Projects.Dispatch, "", searchOpts...)
	s.SponsorSearch = search.NewCoordinator(s.Sponsors.Dispatch, "", searchOpts...)
	s.unsubscribe = []func(){
		s.Projects.Subscribe(func(st filter.State) { s.ProjectSearch.Observe(st.Query) }),
		s.Sponsors.Subscribe(func(st filter.State) { s.SponsorSearch.Observe(st.Query) }),
	}
	return s
}

// Close ends a session. It reports whether the session existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.close()
	m.logger.Debug("browse session closed", "session_id", id)
	return true
}

// Sweep closes sessions idle for longer than the timeout and returns how
// many it closed.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.idle)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastActivity().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		m.logger.Debug("browse session expired", "session_id", s.ID)
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := m.clock.Ticker(m.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("expired browse sessions", "count", n)
			}
		}
	}
}

// Sessions lists live sessions, oldest first.
func (m *Manager) Sessions() []Info {
	m.mu.Lock()
	out := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, Info{SessionID: s.ID, CreatedAt: s.CreatedAt, LastActivity: s.LastActivity()})
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
