package filter

import (
	"fmt"
	"slices"
	"sort"
)

// Ordering keys shared by the project and sponsor families.
const (
	OrderRandom = "Random"
	OrderNewest = "Newest"
	OrderRank   = "Rank"
)

// Ordering is a named reorder strategy. Fn must not modify its input.
type Ordering[T any] struct {
	Value string
	Label string
	Fn    func([]T) []T
}

// Choice is the display form of an Ordering.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Registry is a closed, ordered set of orderings. The first entry is the default.
type Registry[T any] struct {
	entries []Ordering[T]
}

// NewRegistry builds a registry. It panics on an empty set or a duplicate key.
func NewRegistry[T any](entries ...Ordering[T]) *Registry[T] {
	if len(entries) == 0 {
		panic("filter: empty ordering registry")
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Value]; dup {
			panic(fmt.Sprintf("filter: duplicate ordering %q", e.Value))
		}
		seen[e.Value] = struct{}{}
	}
	return &Registry[T]{entries: slices.Clone(entries)}
}

// Lookup finds an ordering by key.
func (r *Registry[T]) Lookup(value string) (Ordering[T], bool) {
	for _, e := range r.entries {
		if e.Value == value {
			return e, true
		}
	}
	return Ordering[T]{}, false
}

// Has reports whether value names a registered ordering.
func (r *Registry[T]) Has(value string) bool {
	_, ok := r.Lookup(value)
	return ok
}

// Resolve finds an ordering by key, falling back to the default.
func (r *Registry[T]) Resolve(value string) Ordering[T] {
	if o, ok := r.Lookup(value); ok {
		return o
	}
	return r.Default()
}

// Default returns the first registered ordering.
func (r *Registry[T]) Default() Ordering[T] {
	return r.entries[0]
}

// Choices lists the registered orderings for display.
func (r *Registry[T]) Choices() []Choice {
	out := make([]Choice, len(r.entries))
	for i, e := range r.entries {
		out[i] = Choice{Value: e.Value, Label: e.Label}
	}
	return out
}

// Shuffler is satisfied by *rand.Rand and *random.Source.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Shuffle returns an ordering function that yields a fresh permutation of
// its input on every call.
func Shuffle[T any](rng Shuffler) func([]T) []T {
	return func(items []T) []T {
		out := slices.Clone(items)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
}

// SortedBy returns an ordering function that stable-sorts a copy of its
// input. Items that compare equal keep their input order.
func SortedBy[T any](less func(a, b T) bool) func([]T) []T {
	return func(items []T) []T {
		out := slices.Clone(items)
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		return out
	}
}
