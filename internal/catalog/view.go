package catalog

import (
	"errors"
	"sync"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
)

// ErrInvalidLimit indicates a non-positive result limit.
var ErrInvalidLimit = errors.New("limit must be positive")

// listState owns one view's filter state. Subscribers run after the lock is
// released and only when a transition changed the state.
type listState struct {
	reduce filter.Reducer

	mu    sync.Mutex
	state filter.State
	subs  map[int]func(filter.State)
	next  int
}

func newListState(reduce filter.Reducer, initial filter.State) *listState {
	return &listState{reduce: reduce, state: initial, subs: make(map[int]func(filter.State))}
}

func (l *listState) snapshot() filter.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *listState) dispatch(a filter.Action) {
	l.update(func(s filter.State) filter.State { return l.reduce(s, a) })
}

func (l *listState) update(fn func(filter.State) filter.State) {
	next, subs, changed := l.swap(fn)
	if !changed {
		return
	}
	for _, sub := range subs {
		sub(next)
	}
}

func (l *listState) swap(fn func(filter.State) filter.State) (filter.State, []func(filter.State), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := fn(l.state)
	changed := !next.Equal(l.state)
	l.state = next
	subs := make([]func(filter.State), 0, len(l.subs))
	for _, sub := range l.subs {
		subs = append(subs, sub)
	}
	return next, subs, changed
}

func (l *listState) subscribe(fn func(filter.State)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.next
	l.next++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

func (l *listState) setLimit(n int) error {
	if n <= 0 {
		return ErrInvalidLimit
	}
	l.update(func(s filter.State) filter.State {
		s.Limit = n
		return s
	})
	return nil
}

// ProjectView is one project list: a filter state over the catalog.
type ProjectView struct {
	catalog  *Catalog
	pipeline *Pipeline
	list     *listState
}

// NewProjectView creates a project list seeded with the project defaults.
func NewProjectView(c *Catalog, p *Pipeline, opts ...filter.Option) *ProjectView {
	return &ProjectView{
		catalog:  c,
		pipeline: p,
		list:     newListState(filter.ReduceProjects, filter.NewProjectState(opts...)),
	}
}

// Dispatch applies a filter action. Unknown actions panic.
func (v *ProjectView) Dispatch(a filter.Action) { v.list.dispatch(a) }

// State returns the current filter state.
func (v *ProjectView) State() filter.State { return v.list.snapshot() }

// SetLimit changes how many results are kept.
func (v *ProjectView) SetLimit(n int) error { return v.list.setLimit(n) }

// Subscribe registers fn to receive each new state.
func (v *ProjectView) Subscribe(fn func(filter.State)) func() { return v.list.subscribe(fn) }

// Results runs the pipeline over the joined catalog. Before the catalog has
// loaded it returns an empty list.
func (v *ProjectView) Results(scope ...Predicate) []JoinedProject {
	joined := v.catalog.Joined()
	if joined == nil {
		return []JoinedProject{}
	}
	return v.pipeline.Run(joined, v.State(), scope...)
}

// Tags lists the active filters; each Remove dispatches on this view.
func (v *ProjectView) Tags() []filter.Tag {
	return filter.Tags(v.State(), v.Dispatch)
}

// Orderings lists the project orderings.
func (v *ProjectView) Orderings() []filter.Choice {
	return v.pipeline.Projects.Choices()
}

// SponsorView is one sponsor list.
type SponsorView struct {
	catalog  *Catalog
	pipeline *Pipeline
	list     *listState
}

// NewSponsorView creates a sponsor list seeded with the sponsor defaults.
func NewSponsorView(c *Catalog, p *Pipeline, opts ...filter.Option) *SponsorView {
	return &SponsorView{
		catalog:  c,
		pipeline: p,
		list:     newListState(filter.ReduceSponsors, filter.NewSponsorState(opts...)),
	}
}

// Dispatch applies a sponsor filter action. Actions outside the sponsor set panic.
func (v *SponsorView) Dispatch(a filter.Action) { v.list.dispatch(a) }

// State returns the current filter state.
func (v *SponsorView) State() filter.State { return v.list.snapshot() }

// SetLimit changes how many results are kept.
func (v *SponsorView) SetLimit(n int) error { return v.list.setLimit(n) }

// Subscribe registers fn to receive each new state.
func (v *SponsorView) Subscribe(fn func(filter.State)) func() { return v.list.subscribe(fn) }

// Results runs the sponsor pipeline. Before the catalog has loaded it
// returns an empty list.
func (v *SponsorView) Results() []sponsor.Sponsor {
	sponsors := v.catalog.Sponsors()
	if sponsors == nil {
		return []sponsor.Sponsor{}
	}
	return v.pipeline.RunSponsors(sponsors, v.catalog.Projects(), v.State())
}

// Tags lists the active filters; each Remove dispatches on this view.
func (v *SponsorView) Tags() []filter.Tag {
	return filter.Tags(v.State(), v.Dispatch)
}

// Orderings lists the sponsor orderings.
func (v *SponsorView) Orderings() []filter.Choice {
	return v.pipeline.Sponsors.Choices()
}
