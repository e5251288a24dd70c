package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cascade recomputes derived module and path progress after an activity
// update. A broken reference in the hierarchy (activity without a module,
// module without a path) is logged and skipped instead of failing the
// caller: the activity write itself already committed.
type Cascade struct {
	DB      *gorm.DB
	Queries *QueryService
	Awarder *Awarder
	Logger  *log.Logger
}

func NewCascade(db *gorm.DB, queries *QueryService, awarder *Awarder, logger *log.Logger) *Cascade {
	return &Cascade{DB: db, Queries: queries, Awarder: awarder, Logger: logger}
}

// DeriveStatus maps activity counts to a module status: completed when every
// activity is completed, in_progress when anything was touched, otherwise
// not_started. The same rule applies one level up with module counts.
func DeriveStatus(completed, inProgress, total int) string {
	switch {
	case total > 0 && completed == total:
		return models.StatusCompleted
	case completed > 0 || inProgress > 0:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}

// FromActivity recomputes the owning module's progress row and, when that
// module just reached completed, checks the owning path for full completion
// and awards the achievement.
func (cs *Cascade) FromActivity(userID, activityID uint) error {
	var activity models.Activity
	if err := cs.DB.First(&activity, activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cs.Logger.Printf("cascade: activity %d not found, skipping", activityID)
			return nil
		}
		return fmt.Errorf("cascade load activity: %w", err)
	}

	var module models.LearningModule
	if err := cs.DB.First(&module, activity.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cs.Logger.Printf("cascade: activity %d references missing module %d, skipping", activityID, activity.ModuleID)
			return nil
		}
		return fmt.Errorf("cascade load module: %w", err)
	}

	rollup, err := cs.Queries.ModuleRollup(userID, module.ID)
	if err != nil {
		return err
	}
	status := DeriveStatus(rollup.CompletedActivities, rollup.InProgressActivities, rollup.TotalActivities)

	if err := cs.upsertModuleProgress(userID, module.ID, status, rollup.TimeSpent); err != nil {
		return err
	}

	if status != models.StatusCompleted {
		return nil
	}

	var path models.LearningPath
	if err := cs.DB.First(&path, module.PathID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cs.Logger.Printf("cascade: module %d references missing path %d, skipping", module.ID, module.PathID)
			return nil
		}
		return fmt.Errorf("cascade load path: %w", err)
	}

	pathRollup, err := cs.Queries.PathRollup(userID, path.ID)
	if err != nil {
		return err
	}
	if pathRollup.TotalModules > 0 && pathRollup.CompletedModules == pathRollup.TotalModules {
		return cs.Awarder.AwardPathCompletion(userID, &path)
	}
	return nil
}

// upsertModuleProgress writes the derived row. Two concurrent cascades may
// both compute the same final status (harmless); the CASE keeps a completed
// status from ever regressing and the COALESCE keeps completed_at sticky.
func (cs *Cascade) upsertModuleProgress(userID, moduleID uint, status string, timeSpent int64) error {
	now := time.Now()
	var completedAt *time.Time
	if status == models.StatusCompleted {
		completedAt = &now
	}

	row := models.ModuleProgress{
		UserID:         userID,
		ModuleID:       moduleID,
		Status:         status,
		TimeSpent:      timeSpent,
		LastAccessedAt: now,
		CompletedAt:    completedAt,
	}
	err := cs.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":           gorm.Expr("CASE WHEN status = ? THEN status ELSE ? END", models.StatusCompleted, status),
			"time_spent":       timeSpent,
			"last_accessed_at": now,
			"completed_at":     gorm.Expr("COALESCE(completed_at, ?)", completedAt),
			"updated_at":       now,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert module progress: %w", err)
	}
	return nil
}
