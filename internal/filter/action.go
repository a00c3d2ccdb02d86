package filter

import (
	"errors"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
)

// ErrUnknownAction is the panic value (wrapped) raised by a reducer handed an
// action it does not handle. It marks a programming error.
var ErrUnknownAction = errors.New("unknown filter action")

// ActionType names a filter transition.
type ActionType string

const (
	ActionSetOrder       ActionType = "SET_ORDER"
	ActionSetQuery       ActionType = "SET_QUERY"
	ActionSetCategories  ActionType = "SET_CATEGORIES"
	ActionRemoveCategory ActionType = "REMOVE_CATEGORY"
	ActionSetRating      ActionType = "SET_RATING"
	ActionSetRecent      ActionType = "SET_RECENT"
	ActionSetStatus      ActionType = "SET_STATUS"
)

// Action is one filter transition.
type Action interface {
	Type() ActionType
}

// SetOrder selects an ordering by key.
type SetOrder struct {
	Order string `json:"order"`
}

// SetQuery replaces the query text verbatim.
type SetQuery struct {
	Query string `json:"query"`
}

// SetCategories replaces the selected categories.
type SetCategories struct {
	Categories []project.Category `json:"categories"`
}

// RemoveCategory deselects one category.
type RemoveCategory struct {
	Category project.Category `json:"category"`
}

// SetRating sets the minimum rating. A nil Rating clears it.
type SetRating struct {
	Rating *float64 `json:"rating,omitempty"`
}

// SetRecent sets the recency filter. An empty Recent clears it.
type SetRecent struct {
	Recent Recency `json:"recent,omitempty"`
}

// SetStatus sets the status filter. An empty Status clears it.
type SetStatus struct {
	Status project.Status `json:"status,omitempty"`
}

func (SetOrder) Type() ActionType       { return ActionSetOrder }
func (SetQuery) Type() ActionType       { return ActionSetQuery }
func (SetCategories) Type() ActionType  { return ActionSetCategories }
func (RemoveCategory) Type() ActionType { return ActionRemoveCategory }
func (SetRating) Type() ActionType      { return ActionSetRating }
func (SetRecent) Type() ActionType      { return ActionSetRecent }
func (SetStatus) Type() ActionType      { return ActionSetStatus }
