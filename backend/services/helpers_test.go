package services

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database keeps the schema alive across pooled
	// connections but stays isolated per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LearningPath{},
		&models.LearningModule{},
		&models.Activity{},
		&models.ActivityProgress{},
		&models.ModuleProgress{},
		&models.ActivityEvent{},
		&models.Achievement{},
		&models.PlatformSnapshot{},
	))
	return db
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testConfig() *config.Config {
	return &config.Config{
		CacheTTL:           5 * time.Minute,
		CacheSweepInterval: 10 * time.Minute,
		WeeklyStatsDays:    7,
		AchievementPoints:  100,
		ActiveLearnerDays:  7,
	}
}

func newTestService(t *testing.T) (*ProgressService, *gorm.DB, *cache.Store) {
	t.Helper()
	db := newTestDB(t)
	store := cache.New(5*time.Minute, 10*time.Minute)
	t.Cleanup(store.Stop)
	return NewProgressService(db, store, testConfig(), testLogger()), db, store
}

// seedPath creates a path with moduleCount modules of activityCount
// activities each and returns them in creation order.
func seedPath(t *testing.T, db *gorm.DB, name string, moduleCount, activityCount int) (*models.LearningPath, []models.LearningModule, []models.Activity) {
	t.Helper()
	path := models.LearningPath{Name: name, Category: "wellness", Active: true}
	require.NoError(t, db.Create(&path).Error)

	var modules []models.LearningModule
	var activities []models.Activity
	for m := 0; m < moduleCount; m++ {
		module := models.LearningModule{
			PathID:        path.ID,
			Title:         fmt.Sprintf("%s module %d", name, m+1),
			SequenceOrder: m + 1,
		}
		require.NoError(t, db.Create(&module).Error)
		modules = append(modules, module)

		for a := 0; a < activityCount; a++ {
			activity := models.Activity{
				ModuleID:      module.ID,
				Title:         fmt.Sprintf("%s activity %d.%d", name, m+1, a+1),
				SequenceOrder: a + 1,
				Kind:          "exercise",
			}
			require.NoError(t, db.Create(&activity).Error)
			activities = append(activities, activity)
		}
	}
	return &path, modules, activities
}
