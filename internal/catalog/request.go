package catalog

import (
	"fmt"
	"math"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
)

// MaxRating is the highest rating threshold a list can filter on.
const MaxRating = 5

// ListRequest is list input from outside the process, before validation.
type ListRequest struct {
	Query      string
	Categories []string
	Rating     *float64
	Recent     string
	Status     string
	Order      string
	Limit      int
}

// Actions validates req for the list family k and returns the actions
// that bring a fresh state in line with it. Invalid input returns an error
// wrapping ErrInvalidFilter or ErrUnknownOrder; nothing unknown ever
// reaches a reducer.
func (p *Pipeline) Actions(k Kind, req ListRequest) ([]filter.Action, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidFilter)
	}
	if k == KindSponsors && (req.Rating != nil || req.Recent != "" || req.Status != "") {
		return nil, fmt.Errorf("%w: sponsors filter by query and category only", ErrInvalidFilter)
	}

	var actions []filter.Action
	if req.Order != "" {
		if err := p.ValidateOrder(k, req.Order); err != nil {
			return nil, err
		}
		actions = append(actions, filter.SetOrder{Order: req.Order})
	}
	if req.Query != "" {
		actions = append(actions, filter.SetQuery{Query: req.Query})
	}
	if len(req.Categories) > 0 {
		cats := make([]project.Category, 0, len(req.Categories))
		for _, raw := range req.Categories {
			c := project.Category(raw)
			if !c.Valid() {
				return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, raw)
			}
			cats = append(cats, c)
		}
		actions = append(actions, filter.SetCategories{Categories: cats})
	}
	if req.Rating != nil {
		r := *req.Rating
		if math.IsNaN(r) || r < 0 || r > MaxRating {
			return nil, fmt.Errorf("%w: rating must be between 0 and %d", ErrInvalidFilter, MaxRating)
		}
		actions = append(actions, filter.SetRating{Rating: &r})
	}
	if req.Recent != "" {
		recent := filter.Recency(req.Recent)
		if !recent.Valid() {
			return nil, fmt.Errorf("%w: unknown recent type %q", ErrInvalidFilter, req.Recent)
		}
		actions = append(actions, filter.SetRecent{Recent: recent})
	}
	if req.Status != "" {
		status := project.Status(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, req.Status)
		}
		actions = append(actions, filter.SetStatus{Status: status})
	}
	return actions, nil
}

// ProjectViewFor builds a project view from a validated request.
func (p *Pipeline) ProjectViewFor(c *Catalog, req ListRequest) (*ProjectView, error) {
	actions, err := p.Actions(KindProjects, req)
	if err != nil {
		return nil, err
	}
	view := NewProjectView(c, p, filter.WithLimit(req.Limit))
	for _, a := range actions {
		view.Dispatch(a)
	}
	return view, nil
}

// SponsorViewFor builds a sponsor view from a validated request.
func (p *Pipeline) SponsorViewFor(c *Catalog, req ListRequest) (*SponsorView, error) {
	actions, err := p.Actions(KindSponsors, req)
	if err != nil {
		return nil, err
	}
	view := NewSponsorView(c, p, filter.WithLimit(req.Limit))
	for _, a := range actions {
		view.Dispatch(a)
	}
	return view, nil
}
