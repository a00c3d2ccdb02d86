package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
)

// RelatedLimit is the number of related projects shown on a detail page.
const RelatedLimit = 3

// EmptyResultsMessage is shown when a filtered list has no results.
const EmptyResultsMessage = "No projects found matching the search criteria."

// Predicate scopes a project list before the filter state applies.
type Predicate func(JoinedProject) bool

// SponsoredBy keeps projects sponsored by address.
func SponsoredBy(address string) Predicate {
	return func(jp JoinedProject) bool { return jp.SponsorAddress == address }
}

// Pipeline filters, orders and truncates list results.
type Pipeline struct {
	Projects *filter.Registry[JoinedProject]
	Sponsors *filter.Registry[sponsor.Sponsor]
	Now      func() time.Time
	rng      filter.Shuffler
}

// NewPipeline builds a pipeline whose Random orderings draw from rng.
func NewPipeline(rng filter.Shuffler) *Pipeline {
	return &Pipeline{
		Projects: NewProjectOrderings(rng),
		Sponsors: NewSponsorOrderings(rng),
		Now:      time.Now,
		rng:      rng,
	}
}

// ValidateOrder reports ErrUnknownOrder when order is not in the family's registry.
func (p *Pipeline) ValidateOrder(k Kind, order string) error {
	var ok bool
	switch k {
	case KindProjects:
		ok = p.Projects.Has(order)
	case KindSponsors:
		ok = p.Sponsors.Has(order)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOrder, order)
	}
	return nil
}

// Run applies scope, then the state's query, category, rating, status and
// recency filters, then its ordering, then its limit.
func (p *Pipeline) Run(joined []JoinedProject, s filter.State, scope ...Predicate) []JoinedProject {
	now := p.Now()
	query := strings.ToLower(s.Query)

	out := make([]JoinedProject, 0, len(joined))
	for _, jp := range joined {
		if !inScope(jp, scope) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(jp.Name), query) &&
			!strings.Contains(strings.ToLower(jp.Description), query) {
			continue
		}
		if len(s.Categories) > 0 && !s.HasCategory(jp.Category) {
			continue
		}
		if s.Rating != nil && jp.Rating < *s.Rating {
			continue
		}
		if s.Status != "" && jp.Status != s.Status {
			continue
		}
		if s.Recent != "" && !s.Recent.Matches(jp.Project, now) {
			continue
		}
		out = append(out, jp)
	}

	return truncate(p.Projects.Resolve(s.Order).Fn(out), s.Limit)
}

// RunSponsors filters sponsors by name and by the categories of the
// projects they sponsor, then orders and truncates.
func (p *Pipeline) RunSponsors(sponsors []sponsor.Sponsor, projects []project.Project, s filter.State) []sponsor.Sponsor {
	query := strings.ToLower(s.Query)

	var sponsoredIn map[string]map[project.Category]struct{}
	if len(s.Categories) > 0 {
		sponsoredIn = make(map[string]map[project.Category]struct{})
		for _, proj := range projects {
			cats, ok := sponsoredIn[proj.SponsorAddress]
			if !ok {
				cats = make(map[project.Category]struct{})
				sponsoredIn[proj.SponsorAddress] = cats
			}
			cats[proj.Category] = struct{}{}
		}
	}

	out := make([]sponsor.Sponsor, 0, len(sponsors))
	for _, sp := range sponsors {
		if query != "" && !strings.Contains(strings.ToLower(sp.Name), query) {
			continue
		}
		if sponsoredIn != nil && !sponsorsAny(sponsoredIn[sp.Address], s.Categories) {
			continue
		}
		out = append(out, sp)
	}

	return truncate(p.Sponsors.Resolve(s.Order).Fn(out), s.Limit)
}

// Related picks up to RelatedLimit other projects in target's category, shuffled.
func (p *Pipeline) Related(joined []JoinedProject, target JoinedProject) []JoinedProject {
	same := make([]JoinedProject, 0)
	for _, jp := range joined {
		if jp.ID != target.ID && jp.Category == target.Category {
			same = append(same, jp)
		}
	}
	return truncate(filter.Shuffle[JoinedProject](p.rng)(same), RelatedLimit)
}

func inScope(jp JoinedProject, scope []Predicate) bool {
	for _, pred := range scope {
		if pred != nil && !pred(jp) {
			return false
		}
	}
	return true
}

func sponsorsAny(cats map[project.Category]struct{}, want []project.Category) bool {
	for _, c := range want {
		if _, ok := cats[c]; ok {
			return true
		}
	}
	return false
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 {
		limit = filter.DefaultLimit
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
