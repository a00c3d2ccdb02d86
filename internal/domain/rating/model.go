package rating

import "time"

// Aggregate is the average rating and feedback count of one project.
type Aggregate struct {
	ProjectID   string  `json:"project_id"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

// Feedback is a single voter's rating and comment on a project.
type Feedback struct {
	ID          string    `json:"id" yaml:"id"`
	ProjectID   string    `json:"project_id" yaml:"project_id"`
	Username    string    `json:"username" yaml:"username"`
	Level       int       `json:"level" yaml:"level"`
	Rating      int       `json:"rating" yaml:"rating"`
	Comment     string    `json:"comment" yaml:"comment"`
	CreatedDate time.Time `json:"created_date" yaml:"created_date"`
	UpdatedDate time.Time `json:"updated_date" yaml:"updated_date"`
}

// Voter is the authenticated caller submitting feedback.
type Voter struct {
	Username          string `json:"username"`
	Level             int    `json:"level"`
	CanSubmitFeedback bool   `json:"can_submit_feedback"`
}
