package filter_test

import (
	"testing"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/project"
	"github.com/Transcranial-Solutions/iconpreps/internal/filter"
	"github.com/stretchr/testify/require"
)

func TestIsRecent_Boundaries(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, filter.IsRecent(now, now))
	require.True(t, filter.IsRecent(now.Add(-filter.RecencyWindow+time.Second), now))
	require.False(t, filter.IsRecent(now.Add(-filter.RecencyWindow), now))
	require.False(t, filter.IsRecent(now.Add(-filter.RecencyWindow-time.Second), now))
	require.False(t, filter.IsRecent(now.Add(time.Second), now))
}

func TestRecency_Matches(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := project.Project{
		CreatedDate: now.Add(-30 * 24 * time.Hour),
		UpdatedDate: now.Add(-time.Hour),
	}

	require.False(t, filter.RecentCreated.Matches(p, now))
	require.True(t, filter.RecentUpdated.Matches(p, now))
	require.True(t, filter.Recency("Someday").Matches(p, now))
	require.True(t, filter.RecentCreated.Valid())
	require.False(t, filter.Recency("").Valid())
}
