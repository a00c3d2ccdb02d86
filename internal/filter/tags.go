package filter

import "strconv"

// Tag describes one active filter and the action that clears it.
type Tag struct {
	Label  string `json:"label"`
	Action Action `json:"-"`
	Remove func() `json:"-"`
}

// Tags lists the active filters of s in display order: query, categories,
// rating, recent, status. Each Remove dispatches the tag's Action.
func Tags(s State, dispatch func(Action)) []Tag {
	var tags []Tag
	add := func(label string, a Action) {
		tags = append(tags, Tag{Label: label, Action: a, Remove: func() { dispatch(a) }})
	}

	if s.Query != "" {
		add("Search for: "+s.Query, SetQuery{Query: ""})
	}
	for _, c := range s.Categories {
		add(string(c), RemoveCategory{Category: c})
	}
	if s.Rating != nil {
		add(strconv.FormatFloat(*s.Rating, 'f', -1, 64)+" stars & up", SetRating{})
	}
	if s.Recent != "" {
		add(string(s.Recent)+" recently", SetRecent{})
	}
	if s.Status != "" {
		add(string(s.Status), SetStatus{})
	}
	return tags
}
