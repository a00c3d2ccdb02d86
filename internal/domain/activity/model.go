package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeFeedbackAdded   ActivityType = "feedback_added"
	TypeFeedbackDeleted ActivityType = "feedback_deleted"
	TypeCatalogImported ActivityType = "catalog_imported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id,omitempty"`
	FeedbackID   string       `json:"feedback_id,omitempty"`
	Username     string       `json:"username,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}
