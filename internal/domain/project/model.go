package project

import "time"

// Category is the funding area a project belongs to.
type Category string

const (
	CategoryDevelopment    Category = "Development"
	CategoryEducation      Category = "Education"
	CategoryMarketing      Category = "Marketing"
	CategoryCommunity      Category = "Community"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryOther          Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryDevelopment,
	CategoryEducation,
	CategoryMarketing,
	CategoryCommunity,
	CategoryInfrastructure,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the delivery state of a project.
type Status string

const (
	StatusProposed   Status = "Proposed"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusProposed,
	StatusInProgress,
	StatusCompleted,
	StatusOnHold,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project is a community-funded project sponsored by a P-Rep.
type Project struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description" yaml:"description"`
	Category       Category  `json:"category" yaml:"category"`
	Status         Status    `json:"status" yaml:"status"`
	Progress       int       `json:"progress" yaml:"progress"`
	CreatedDate    time.Time `json:"created_date" yaml:"created_date"`
	UpdatedDate    time.Time `json:"updated_date" yaml:"updated_date"`
	StartDate      time.Time `json:"start_date" yaml:"start_date"`
	EndDate        time.Time `json:"end_date" yaml:"end_date"`
	SponsorAddress string    `json:"sponsor_address" yaml:"sponsor_address"`
}
