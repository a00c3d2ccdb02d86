package filter

import (
	"fmt"
	"slices"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
)

// Reducer transitions a State.
type Reducer func(State, Action) State

// ReduceProjects applies any of the seven filter actions.
// It panics with ErrUnknownAction for anything else.
func ReduceProjects(s State, a Action) State {
	switch act := a.(type) {
	case SetRating:
		if act.Rating != nil {
			r := *act.Rating
			act.Rating = &r
		}
		s.Rating = act.Rating
	case SetRecent:
		s.Recent = act.Recent
	case SetStatus:
		s.Status = act.Status
	default:
		return reduceCommon(s, a)
	}
	s.Categories = slices.Clone(s.Categories)
	return s
}

// ReduceSponsors applies the order, query and category actions.
// It panics with ErrUnknownAction for anything else.
func ReduceSponsors(s State, a Action) State {
	return reduceCommon(s, a)
}

func reduceCommon(s State, a Action) State {
	switch act := a.(type) {
	case SetOrder:
		s.Order = act.Order
		s.Categories = slices.Clone(s.Categories)
	case SetQuery:
		s.Query = act.Query
		s.Categories = slices.Clone(s.Categories)
	case SetCategories:
		s.Categories = dedupe(act.Categories)
	case RemoveCategory:
		s.Categories = slices.DeleteFunc(slices.Clone(s.Categories), func(c project.Category) bool {
			return c == act.Category
		})
	default:
		panic(unknownAction(a))
	}
	return s
}

func unknownAction(a Action) error {
	if a == nil {
		return fmt.Errorf("%w: <nil>", ErrUnknownAction)
	}
	return fmt.Errorf("%w: %s", ErrUnknownAction, a.Type())
}
