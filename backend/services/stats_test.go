package services

import (
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyStatsEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	s := NewStats(db, 7)

	stats, err := s.Weekly(7)
	require.NoError(t, err)

	require.Len(t, stats.Days, 7)
	for _, d := range stats.Days {
		assert.Equal(t, 0, d.Count)
		assert.Equal(t, int64(0), d.Minutes)
	}
	assert.Empty(t, stats.UpdatesByKind)
	assert.Empty(t, stats.TimeSpentByKind)
	assert.Equal(t, 0.0, stats.TotalHoursSpent)
	assert.Equal(t, 0.0, stats.AvgSessionMinutes)
}

func TestWeeklyStatsBuckets(t *testing.T) {
	db := newTestDB(t)
	s := NewStats(db, 7)

	// Pin events to midday so the day bucketing cannot straddle midnight.
	n := time.Now()
	now := time.Date(n.Year(), n.Month(), n.Day(), 12, 0, 0, 0, n.Location())
	create := func(at time.Time, kind string, delta int64) {
		e := models.ActivityEvent{UserID: 7, ActivityID: 1, Kind: kind, Status: models.StatusInProgress, TimeSpentDelta: delta}
		e.CreatedAt = at
		require.NoError(t, db.Create(&e).Error)
	}

	create(now, "exercise", 600)               // today, 10 min
	create(now.Add(-time.Minute), "quiz", 300) // today, same hour: one session
	create(now.AddDate(0, 0, -1), "exercise", 900)
	create(now.AddDate(0, 0, -10), "tool", 1800) // outside the 7-day window

	stats, err := s.Weekly(7)
	require.NoError(t, err)

	require.Len(t, stats.Days, 7)
	today := stats.Days[6]
	assert.Equal(t, now.Format("2006-01-02"), today.Date)
	assert.Equal(t, 2, today.Count)
	assert.Equal(t, int64(15), today.Minutes)

	yesterday := stats.Days[5]
	assert.Equal(t, 1, yesterday.Count)
	assert.Equal(t, int64(15), yesterday.Minutes)

	// Trailing-30-day counts include the old tool event; all-time sums too.
	assert.Equal(t, 2, stats.UpdatesByKind["exercise"])
	assert.Equal(t, 1, stats.UpdatesByKind["quiz"])
	assert.Equal(t, 1, stats.UpdatesByKind["tool"])
	assert.Equal(t, int64(1500), stats.TimeSpentByKind["exercise"])
	assert.Equal(t, int64(1800), stats.TimeSpentByKind["tool"])
	assert.InDelta(t, 3600.0/3600, stats.TotalHoursSpent, 0.001)
}

func TestWeeklyStatsSessions(t *testing.T) {
	db := newTestDB(t)
	s := NewStats(db, 7)

	base := time.Now().Truncate(time.Hour).Add(5 * time.Minute)
	create := func(at time.Time, delta int64) {
		e := models.ActivityEvent{UserID: 7, ActivityID: 1, Kind: "exercise", Status: models.StatusInProgress, TimeSpentDelta: delta}
		e.CreatedAt = at
		require.NoError(t, db.Create(&e).Error)
	}

	// Two updates in one hour bucket, one in another: two sessions.
	create(base, 600)
	create(base.Add(10*time.Minute), 600)
	create(base.Add(-2*time.Hour), 600)

	stats, err := s.Weekly(7)
	require.NoError(t, err)

	// 1800 seconds over 2 sessions = 15 minutes per session.
	assert.InDelta(t, 15.0, stats.AvgSessionMinutes, 0.001)
}

func TestRecentActivities(t *testing.T) {
	db := newTestDB(t)
	_, _, activities := seedPath(t, db, "P", 1, 2)
	r := NewRecorder(db)
	s := NewStats(db, 7)

	_, err := r.Record(7, activities[0].ID, ProgressUpdate{Status: models.StatusInProgress, TimeSpentDelta: 60})
	require.NoError(t, err)
	_, err = r.Record(7, activities[1].ID, ProgressUpdate{Status: models.StatusCompleted, TimeSpentDelta: 60})
	require.NoError(t, err)

	recent, err := s.Recent(7)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, activities[1].ID, recent[0].ActivityID)
	assert.Equal(t, models.StatusCompleted, recent[0].Status)
	assert.Equal(t, activities[1].Title, recent[0].Title)
}
