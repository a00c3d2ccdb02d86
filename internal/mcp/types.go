package mcp

import (
	"github.com/Transcranial-Solutions/iconpreps/internal/catalog"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/activity"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
)

type SearchProjectsParams struct {
	Query      string   `json:"query,omitempty" jsonschema:"case-insensitive text matched against name and description"`
	Categories []string `json:"categories,omitempty" jsonschema:"categories; a project matches any of them"`
	Rating     *float64 `json:"rating,omitempty" jsonschema:"minimum average rating from 0 to 5"`
	Recent     string   `json:"recent,omitempty" jsonschema:"Created or Updated within the last 7 days"`
	Status     string   `json:"status,omitempty" jsonschema:"project status"`
	Order      string   `json:"order,omitempty" jsonschema:"ordering key: Random or Newest"`
	Sponsor    string   `json:"sponsor,omitempty" jsonschema:"only projects sponsored by this address"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type SearchSponsorsParams struct {
	Query      string   `json:"query,omitempty" jsonschema:"case-insensitive text matched against the sponsor name"`
	Categories []string `json:"categories,omitempty" jsonschema:"categories of the sponsor's projects"`
	Order      string   `json:"order,omitempty" jsonschema:"ordering key: Random or Rank"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type GetSponsorParams struct {
	Address    string   `json:"address" jsonschema:"sponsor wallet address"`
	Query      string   `json:"query,omitempty" jsonschema:"filters the sponsor's projects by text"`
	Categories []string `json:"categories,omitempty" jsonschema:"filters the sponsor's projects by category"`
	Status     string   `json:"status,omitempty" jsonschema:"filters the sponsor's projects by status"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of projects"`
}

type GetFeedbackParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
}

type AddFeedbackParams struct {
	ProjectID string        `json:"project_id" jsonschema:"project ID"`
	Rating    int           `json:"rating,omitempty" jsonschema:"stars from 1 to 5"`
	Comment   string        `json:"comment,omitempty" jsonschema:"feedback text"`
	Voter     *rating.Voter `json:"voter,omitempty" jsonschema:"the voter; ignored when a bearer token is sent"`
}

type DeleteFeedbackParams struct {
	ProjectID  string        `json:"project_id" jsonschema:"project ID"`
	FeedbackID string        `json:"feedback_id" jsonschema:"feedback entry ID"`
	Voter      *rating.Voter `json:"voter,omitempty" jsonschema:"the voter; ignored when a bearer token is sent"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"only activity on this project"`
	Username  string `json:"username,omitempty" jsonschema:"only activity by this voter"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type BrowseTypeQueryParams struct {
	List string `json:"list,omitempty" jsonschema:"projects (default) or sponsors"`
	Text string `json:"text" jsonschema:"the full search input as typed so far"`
}

type BrowseSetFiltersParams struct {
	List       string   `json:"list,omitempty" jsonschema:"projects (default) or sponsors"`
	Categories []string `json:"categories,omitempty" jsonschema:"replaces the selected categories"`
	Rating     *float64 `json:"rating,omitempty" jsonschema:"minimum average rating from 0 to 5"`
	Recent     string   `json:"recent,omitempty" jsonschema:"Created or Updated"`
	Status     string   `json:"status,omitempty" jsonschema:"project status"`
	Order      string   `json:"order,omitempty" jsonschema:"ordering key"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum number of results"`
	Clear      []string `json:"clear,omitempty" jsonschema:"filters to clear: categories, rating, recent, status"`
}

type BrowseRemoveTagParams struct {
	List  string `json:"list,omitempty" jsonschema:"projects (default) or sponsors"`
	Label string `json:"label" jsonschema:"label of the tag to remove, as returned by browse_results"`
}

type BrowseResultsParams struct {
	List   string `json:"list,omitempty" jsonschema:"projects (default) or sponsors"`
	Settle bool   `json:"settle,omitempty" jsonschema:"dispatch a pending typed query now instead of waiting for the debounce"`
}

// ProjectList is a filtered project list.
type ProjectList struct {
	Results   []catalog.JoinedProject `json:"results"`
	Tags      []string                `json:"tags"`
	Orderings []filter.Choice         `json:"orderings"`
	State     filter.State            `json:"state"`
	Message   string                  `json:"message,omitempty"`
}

// SponsorList is a filtered sponsor list.
type SponsorList struct {
	Results   []sponsor.Sponsor `json:"results"`
	Tags      []string          `json:"tags"`
	Orderings []filter.Choice   `json:"orderings"`
	State     filter.State      `json:"state"`
}

type ProjectDetail struct {
	Project       catalog.JoinedProject   `json:"project"`
	ActivityBadge string                  `json:"activity_badge,omitempty"`
	Related       []catalog.JoinedProject `json:"related"`
}

type SponsorDetail struct {
	Sponsor  sponsor.Sponsor `json:"sponsor"`
	Tier     string          `json:"tier"`
	Projects ProjectList     `json:"projects"`
}

type FeedbackList struct {
	ProjectID string            `json:"project_id"`
	Feedback  []rating.Feedback `json:"feedback"`
}

type ActivityList struct {
	Entries []activity.ActivityEntry `json:"entries"`
}

type DeleteFeedbackResult struct {
	Deleted  string            `json:"deleted"`
	Feedback []rating.Feedback `json:"feedback"`
}

// BrowseView is one session list as a client sees it.
type BrowseView struct {
	SessionID string                  `json:"session_id"`
	List      catalog.Kind            `json:"list"`
	Pending   string                  `json:"pending"`
	Projects  []catalog.JoinedProject `json:"projects,omitempty"`
	Sponsors  []sponsor.Sponsor       `json:"sponsors,omitempty"`
	Tags      []string                `json:"tags"`
	Orderings []filter.Choice         `json:"orderings"`
	State     filter.State            `json:"state"`
	Message   string                  `json:"message,omitempty"`
}

type BrowseTyped struct {
	SessionID string       `json:"session_id"`
	List      catalog.Kind `json:"list"`
	Pending   string       `json:"pending"`
	DelayMS   int64        `json:"delay_ms"`
}
