package filter

import (
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
)

// RecencyWindow is the trailing period that counts as recent.
const RecencyWindow = 7 * 24 * time.Hour

// Recency selects which project timestamp the recency filter checks.
type Recency string

const (
	RecentCreated Recency = "Created"
	RecentUpdated Recency = "Updated"
)

// RecentType is the display form of a Recency.
type RecentType struct {
	Value Recency `json:"value"`
	Label string  `json:"label"`
}

// RecentTypes lists the recency filters for display.
var RecentTypes = []RecentType{
	{Value: RecentUpdated, Label: "Updated in last 7 days"},
	{Value: RecentCreated, Label: "Created in last 7 days"},
}

// Valid reports whether r is a known recency.
func (r Recency) Valid() bool {
	return r == RecentCreated || r == RecentUpdated
}

// Timestamp returns the project field r checks.
func (r Recency) Timestamp(p project.Project) (time.Time, bool) {
	switch r {
	case RecentCreated:
		return p.CreatedDate, true
	case RecentUpdated:
		return p.UpdatedDate, true
	}
	return time.Time{}, false
}

// Matches reports whether p passes the recency filter r at now.
// An unknown recency passes everything.
func (r Recency) Matches(p project.Project, now time.Time) bool {
	ts, ok := r.Timestamp(p)
	if !ok {
		return true
	}
	return IsRecent(ts, now)
}

// IsRecent reports whether t falls in (now-RecencyWindow, now].
func IsRecent(t, now time.Time) bool {
	return t.After(now.Add(-RecencyWindow)) && !t.After(now)
}
