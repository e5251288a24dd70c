package services

import (
	"errors"
	"fmt"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressUpdate is one inbound activity-progress event.
type ProgressUpdate struct {
	Status         string   `json:"status"`
	Score          *float64 `json:"score,omitempty"`
	TimeSpentDelta int64    `json:"time_spent_delta"`
	Attempted      bool     `json:"attempted"`
}

// Recorder persists activity-progress updates with a single
// conflict-resolution upsert so concurrent writes for the same
// (learner, activity) pair serialize at the data store. Time spent is
// additive, completed_at is sticky, score only overwrites when present.
type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// Record upserts the (userID, activityID) progress row, appends an activity
// event in the same transaction and returns the merged row.
func (r *Recorder) Record(userID, activityID uint, upd ProgressUpdate) (*models.ActivityProgress, error) {
	if userID == 0 || activityID == 0 {
		return nil, fmt.Errorf("missing identifier: %w", ErrInvalidInput)
	}
	if !models.ValidStatus(upd.Status) {
		return nil, fmt.Errorf("status %q: %w", upd.Status, ErrInvalidInput)
	}
	if upd.TimeSpentDelta < 0 {
		return nil, fmt.Errorf("negative time delta: %w", ErrInvalidInput)
	}

	var activity models.Activity
	if err := r.DB.First(&activity, activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("activity %d: %w", activityID, ErrNotFound)
		}
		return nil, fmt.Errorf("load activity: %w", err)
	}

	now := time.Now()
	var completedAt *time.Time
	if upd.Status == models.StatusCompleted {
		completedAt = &now
	}
	attemptInc := 0
	if upd.Attempted {
		attemptInc = 1
	}

	// The merge rules live in the conflict clause itself: the addition and
	// the COALESCE run inside the data store, so two concurrent updates
	// cannot lose a time delta or regress completed_at.
	assignments := map[string]interface{}{
		"status":           upd.Status,
		"time_spent":       gorm.Expr("time_spent + ?", upd.TimeSpentDelta),
		"attempts":         gorm.Expr("attempts + ?", attemptInc),
		"last_accessed_at": now,
		"completed_at":     gorm.Expr("COALESCE(completed_at, ?)", completedAt),
		"updated_at":       now,
	}
	if upd.Score != nil {
		assignments["score"] = *upd.Score
	}

	row := models.ActivityProgress{
		UserID:         userID,
		ActivityID:     activityID,
		Status:         upd.Status,
		Score:          upd.Score,
		TimeSpent:      upd.TimeSpentDelta,
		Attempts:       attemptInc,
		LastAccessedAt: now,
		CompletedAt:    completedAt,
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert progress: %w", err)
		}

		event := models.ActivityEvent{
			UserID:         userID,
			ActivityID:     activityID,
			Kind:           activity.Kind,
			Status:         upd.Status,
			TimeSpentDelta: upd.TimeSpentDelta,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("append event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the merged row, not the insert candidate.
	var merged models.ActivityProgress
	if err := r.DB.Where("user_id = ? AND activity_id = ?", userID, activityID).First(&merged).Error; err != nil {
		return nil, fmt.Errorf("reload progress: %w", err)
	}
	return &merged, nil
}
