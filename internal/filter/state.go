// Package filter holds the list filter state, the reducer that transitions
// it, the ordering registry, the recency classifier and tag synthesis.
package filter

import (
	"slices"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
)

// DefaultLimit is the number of results a fresh list view shows.
const DefaultLimit = 20

// State is the active filter of one list view. It is replaced wholesale on
// every transition and never mutated in place.
type State struct {
	Query      string             `json:"query"`
	Categories []project.Category `json:"categories"`
	Rating     *float64           `json:"rating,omitempty"`
	Recent     Recency            `json:"recent,omitempty"`
	Status     project.Status     `json:"status,omitempty"`
	Order      string             `json:"order"`
	Limit      int                `json:"limit"`
}

// Option adjusts a freshly seeded State.
type Option func(*State)

// WithQuery seeds the query text.
func WithQuery(q string) Option {
	return func(s *State) { s.Query = q }
}

// WithCategories seeds the selected categories.
func WithCategories(categories ...project.Category) Option {
	return func(s *State) { s.Categories = dedupe(categories) }
}

// WithOrder seeds the ordering key.
func WithOrder(order string) Option {
	return func(s *State) {
		if order != "" {
			s.Order = order
		}
	}
}

// WithLimit seeds the result cap. Non-positive values are ignored.
func WithLimit(limit int) Option {
	return func(s *State) {
		if limit > 0 {
			s.Limit = limit
		}
	}
}

// NewProjectState returns the project list defaults with opts applied.
func NewProjectState(opts ...Option) State {
	return newState(opts)
}

// NewSponsorState returns the sponsor list defaults with opts applied.
func NewSponsorState(opts ...Option) State {
	return newState(opts)
}

func newState(opts []Option) State {
	s := State{
		Categories: []project.Category{},
		Order:      OrderRandom,
		Limit:      DefaultLimit,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Equal reports whether two states select the same results.
func (s State) Equal(o State) bool {
	if s.Query != o.Query || s.Recent != o.Recent || s.Status != o.Status ||
		s.Order != o.Order || s.Limit != o.Limit {
		return false
	}
	if (s.Rating == nil) != (o.Rating == nil) {
		return false
	}
	if s.Rating != nil && *s.Rating != *o.Rating {
		return false
	}
	return slices.Equal(s.Categories, o.Categories)
}

// HasCategory reports whether c is selected.
func (s State) HasCategory(c project.Category) bool {
	return slices.Contains(s.Categories, c)
}

func dedupe(categories []project.Category) []project.Category {
	out := make([]project.Category, 0, len(categories))
	for _, c := range categories {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
