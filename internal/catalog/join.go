package catalog

import (
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/Transcranial-Solutions/iconpreps/internal/domain/sponsor"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
)

// Badges shown for recent project activity.
const (
	BadgeRecentlyCreated = "Recently created"
	BadgeRecentlyUpdated = "Recently updated"
)

// JoinedProject is a project with its rating aggregate and sponsor profile.
// Sponsor is nil when the sponsor address matches no profile.
type JoinedProject struct {
	project.Project
	Rating      float64          `json:"rating"`
	RatingCount int              `json:"rating_count"`
	Sponsor     *sponsor.Sponsor `json:"sponsor"`
}

// ActivityBadge returns the recent-activity badge for the project, or "".
func (jp JoinedProject) ActivityBadge(now time.Time) string {
	switch {
	case filter.IsRecent(jp.CreatedDate, now):
		return BadgeRecentlyCreated
	case filter.IsRecent(jp.UpdatedDate, now):
		return BadgeRecentlyUpdated
	}
	return ""
}

// Join builds one JoinedProject per project, in project order. Projects with
// no aggregate get a zero rating; projects with an unknown sponsor get nil.
// On duplicate keys the first rating or sponsor wins.
func Join(projects []project.Project, ratings []rating.Aggregate, sponsors []sponsor.Sponsor) []JoinedProject {
	byProject := make(map[string]rating.Aggregate, len(ratings))
	for _, agg := range ratings {
		if _, ok := byProject[agg.ProjectID]; !ok {
			byProject[agg.ProjectID] = agg
		}
	}

	profiles := make([]sponsor.Sponsor, len(sponsors))
	copy(profiles, sponsors)
	byAddress := make(map[string]*sponsor.Sponsor, len(profiles))
	for i := range profiles {
		if _, ok := byAddress[profiles[i].Address]; !ok {
			byAddress[profiles[i].Address] = &profiles[i]
		}
	}

	joined := make([]JoinedProject, len(projects))
	for i, p := range projects {
		agg := byProject[p.ID]
		joined[i] = JoinedProject{
			Project:     p,
			Rating:      agg.Rating,
			RatingCount: agg.RatingCount,
			Sponsor:     byAddress[p.SponsorAddress],
		}
	}
	return joined
}
