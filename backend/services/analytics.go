package services

import (
	"fmt"
	"log"
	"time"

	"project/backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Analytics writes the daily platform snapshot: learner totals, active
// learners inside the configured window, and the average path completion
// across all learners.
type Analytics struct {
	DB                *gorm.DB
	Queries           *QueryService
	ActiveLearnerDays int
	Logger            *log.Logger
}

func NewAnalytics(db *gorm.DB, queries *QueryService, activeLearnerDays int, logger *log.Logger) *Analytics {
	return &Analytics{DB: db, Queries: queries, ActiveLearnerDays: activeLearnerDays, Logger: logger}
}

// Snapshot computes today's platform rollup and upserts it by date, so
// re-running the job the same day overwrites instead of duplicating.
func (a *Analytics) Snapshot() error {
	var totalLearners int64
	if err := a.DB.Model(&models.User{}).Count(&totalLearners).Error; err != nil {
		return fmt.Errorf("count learners: %w", err)
	}

	threshold := time.Now().AddDate(0, 0, -a.ActiveLearnerDays)
	var activeLearners int64
	err := a.DB.Model(&models.ActivityEvent{}).
		Where("created_at >= ?", threshold).
		Distinct("user_id").
		Count(&activeLearners).Error
	if err != nil {
		return fmt.Errorf("count active learners: %w", err)
	}

	avgCompletion, err := a.averagePathCompletion()
	if err != nil {
		return err
	}

	snapshot := models.PlatformSnapshot{
		TotalLearners:     int(totalLearners),
		ActiveLearners:    int(activeLearners),
		AvgPathCompletion: avgCompletion,
		Date:              time.Now().Format("2006-01-02"),
	}
	err = a.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_learners":      snapshot.TotalLearners,
			"active_learners":     snapshot.ActiveLearners,
			"avg_path_completion": snapshot.AvgPathCompletion,
			"updated_at":          time.Now(),
		}),
	}).Create(&snapshot).Error
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// averagePathCompletion averages completed-module counts over every learner
// with progress, against the total module count of active paths. No modules
// or no learners yields 0.
func (a *Analytics) averagePathCompletion() (float64, error) {
	var totalModules int64
	err := a.DB.Table("learning_modules AS m").
		Joins("JOIN learning_paths p ON p.id = m.path_id AND p.active = ? AND p.deleted_at IS NULL", true).
		Where("m.deleted_at IS NULL").
		Count(&totalModules).Error
	if err != nil {
		return 0, fmt.Errorf("count modules: %w", err)
	}
	if totalModules == 0 {
		return 0, nil
	}

	type learnerRow struct {
		UserID    uint
		Completed int
	}
	var rows []learnerRow
	err = a.DB.Model(&models.ModuleProgress{}).
		Select("user_id, COUNT(*) AS completed").
		Where("status = ?", models.StatusCompleted).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("completed modules per learner: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var sum float64
	for _, r := range rows {
		sum += float64(r.Completed) / float64(totalModules) * 100
	}
	return sum / float64(len(rows)), nil
}

// Latest returns the most recent snapshot, or a zero snapshot before the
// first run.
func (a *Analytics) Latest() (*models.PlatformSnapshot, error) {
	var snapshot models.PlatformSnapshot
	err := a.DB.Order("date DESC").Limit(1).Find(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// StartAnalyticsScheduler runs Snapshot daily shortly after midnight.
func StartAnalyticsScheduler(a *Analytics) *cron.Cron {
	c := cron.New()
	c.AddFunc("10 0 * * *", func() {
		if err := a.Snapshot(); err != nil {
			a.Logger.Printf("analytics snapshot failed: %v", err)
		}
	})
	c.Start()
	return c
}
