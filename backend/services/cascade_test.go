package services

import (
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name       string
		completed  int
		inProgress int
		total      int
		want       string
	}{
		{"all completed", 3, 0, 3, models.StatusCompleted},
		{"some completed", 2, 0, 3, models.StatusInProgress},
		{"one in progress", 0, 1, 3, models.StatusInProgress},
		{"mixed", 1, 1, 3, models.StatusInProgress},
		{"untouched", 0, 0, 3, models.StatusNotStarted},
		{"no activities", 0, 0, 0, models.StatusNotStarted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(tc.completed, tc.inProgress, tc.total))
		})
	}
}

func TestCascadeModuleStatus(t *testing.T) {
	db := newTestDB(t)
	_, modules, activities := seedPath(t, db, "P", 1, 3)
	queries := NewQueryService(db)
	awarder := NewAwarder(db, 100)
	cascade := NewCascade(db, queries, awarder, testLogger())
	recorder := NewRecorder(db)

	const userID = 7
	record := func(activityID uint, status string) {
		_, err := recorder.Record(userID, activityID, ProgressUpdate{Status: status, TimeSpentDelta: 60})
		require.NoError(t, err)
		require.NoError(t, cascade.FromActivity(userID, activityID))
	}
	moduleStatus := func() models.ModuleProgress {
		var mp models.ModuleProgress
		require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, modules[0].ID).First(&mp).Error)
		return mp
	}

	// One activity in progress: module in progress.
	record(activities[0].ID, models.StatusInProgress)
	assert.Equal(t, models.StatusInProgress, moduleStatus().Status)

	// Two of three completed: still in progress.
	record(activities[0].ID, models.StatusCompleted)
	record(activities[1].ID, models.StatusCompleted)
	mp := moduleStatus()
	assert.Equal(t, models.StatusInProgress, mp.Status)
	assert.Nil(t, mp.CompletedAt)

	// All three completed: module completed with summed time.
	record(activities[2].ID, models.StatusCompleted)
	mp = moduleStatus()
	assert.Equal(t, models.StatusCompleted, mp.Status)
	require.NotNil(t, mp.CompletedAt)
	assert.Equal(t, int64(240), mp.TimeSpent)
}

func TestCascadeNeverRegressesCompleted(t *testing.T) {
	db := newTestDB(t)
	_, modules, activities := seedPath(t, db, "P", 1, 1)
	queries := NewQueryService(db)
	cascade := NewCascade(db, queries, NewAwarder(db, 100), testLogger())
	recorder := NewRecorder(db)

	const userID = 7
	_, err := recorder.Record(userID, activities[0].ID, ProgressUpdate{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.NoError(t, cascade.FromActivity(userID, activities[0].ID))

	var before models.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, modules[0].ID).First(&before).Error)
	require.Equal(t, models.StatusCompleted, before.Status)
	require.NotNil(t, before.CompletedAt)

	// The activity drops back to in_progress; the module keeps its completed
	// status and timestamp.
	_, err = recorder.Record(userID, activities[0].ID, ProgressUpdate{Status: models.StatusInProgress})
	require.NoError(t, err)
	require.NoError(t, cascade.FromActivity(userID, activities[0].ID))

	var after models.ModuleProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", userID, modules[0].ID).First(&after).Error)
	assert.Equal(t, models.StatusCompleted, after.Status)
	require.NotNil(t, after.CompletedAt)
	assert.WithinDuration(t, *before.CompletedAt, *after.CompletedAt, time.Second)
}

func TestCascadeAwardsPathCompletion(t *testing.T) {
	db := newTestDB(t)
	path, _, activities := seedPath(t, db, "Morning Flow", 2, 1)
	queries := NewQueryService(db)
	cascade := NewCascade(db, queries, NewAwarder(db, 100), testLogger())
	recorder := NewRecorder(db)

	const userID = 7
	for _, a := range activities {
		_, err := recorder.Record(userID, a.ID, ProgressUpdate{Status: models.StatusCompleted})
		require.NoError(t, err)
		require.NoError(t, cascade.FromActivity(userID, a.ID))
	}

	var achievements []models.Achievement
	require.NoError(t, db.Where("user_id = ?", userID).Find(&achievements).Error)
	require.Len(t, achievements, 1)
	assert.Equal(t, models.AchievementPathCompletion, achievements[0].Type)
	assert.Equal(t, "Completed "+path.Name, achievements[0].Title)
	assert.Equal(t, 100, achievements[0].Points)
}

func TestCascadeNoAwardWhilePathIncomplete(t *testing.T) {
	db := newTestDB(t)
	_, _, activities := seedPath(t, db, "P", 2, 1)
	queries := NewQueryService(db)
	cascade := NewCascade(db, queries, NewAwarder(db, 100), testLogger())
	recorder := NewRecorder(db)

	const userID = 7
	_, err := recorder.Record(userID, activities[0].ID, ProgressUpdate{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.NoError(t, cascade.FromActivity(userID, activities[0].ID))

	var count int64
	require.NoError(t, db.Model(&models.Achievement{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCascadeUnresolvableActivityIsNoOp(t *testing.T) {
	db := newTestDB(t)
	cascade := NewCascade(db, NewQueryService(db), NewAwarder(db, 100), testLogger())

	// Missing hierarchy rows must not fail the caller's write.
	assert.NoError(t, cascade.FromActivity(7, 9999))

	var count int64
	require.NoError(t, db.Model(&models.ModuleProgress{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
