package catalog

import (
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
)

// Kind selects a list family.
type Kind string

const (
	KindProjects Kind = "projects"
	KindSponsors Kind = "sponsors"
)

var (
	projectChoices = []filter.Choice{
		{Value: filter.OrderRandom, Label: "Random"},
		{Value: filter.OrderNewest, Label: "Newest Project"},
	}
	sponsorChoices = []filter.Choice{
		{Value: filter.OrderRandom, Label: "Random"},
		{Value: filter.OrderRank, Label: "Rank"},
	}
)

// Orderings lists the orderings available to a list family.
func Orderings(k Kind) []filter.Choice {
	var src []filter.Choice
	switch k {
	case KindProjects:
		src = projectChoices
	case KindSponsors:
		src = sponsorChoices
	}
	return append([]filter.Choice(nil), src...)
}

// NewProjectOrderings builds the project registry: Random, then Newest
// (created date descending).
func NewProjectOrderings(rng filter.Shuffler) *filter.Registry[JoinedProject] {
	return filter.NewRegistry(
		filter.Ordering[JoinedProject]{
			Value: projectChoices[0].Value,
			Label: projectChoices[0].Label,
			Fn:    filter.Shuffle[JoinedProject](rng),
		},
		filter.Ordering[JoinedProject]{
			Value: projectChoices[1].Value,
			Label: projectChoices[1].Label,
			Fn: filter.SortedBy(func(a, b JoinedProject) bool {
				return a.CreatedDate.After(b.CreatedDate)
			}),
		},
	)
}

// NewSponsorOrderings builds the sponsor registry: Random, then Rank
// (ascending).
func NewSponsorOrderings(rng filter.Shuffler) *filter.Registry[sponsor.Sponsor] {
	return filter.NewRegistry(
		filter.Ordering[sponsor.Sponsor]{
			Value: sponsorChoices[0].Value,
			Label: sponsorChoices[0].Label,
			Fn:    filter.Shuffle[sponsor.Sponsor](rng),
		},
		filter.Ordering[sponsor.Sponsor]{
			Value: sponsorChoices[1].Value,
			Label: sponsorChoices[1].Label,
			Fn: filter.SortedBy(func(a, b sponsor.Sponsor) bool {
				return a.Rank < b.Rank
			}),
		},
	)
}
