package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the three progress statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ActivityProgress is the per-learner state of a single activity.
// TimeSpent only ever grows; CompletedAt is set once and never cleared.
type ActivityProgress struct {
	gorm.Model
	UserID         uint `gorm:"uniqueIndex:idx_user_activity;not null"`
	ActivityID     uint `gorm:"uniqueIndex:idx_user_activity;not null"`
	Status         string
	Score          *float64
	TimeSpent      int64 // cumulative seconds
	Attempts       int
	LastAccessedAt time.Time
	CompletedAt    *time.Time
}

// ModuleProgress is derived from the activity rows under the module.
// Only the cascade writes it.
type ModuleProgress struct {
	gorm.Model
	UserID         uint `gorm:"uniqueIndex:idx_user_module;not null"`
	ModuleID       uint `gorm:"uniqueIndex:idx_user_module;not null"`
	Status         string
	TimeSpent      int64
	LastAccessedAt time.Time
	CompletedAt    *time.Time
}

// ActivityEvent is an append-only log of progress updates, one row per
// recorded update. Weekly stats count events, not latest state.
type ActivityEvent struct {
	gorm.Model
	UserID         uint `gorm:"index;not null"`
	ActivityID     uint `gorm:"not null"`
	Kind           string
	Status         string
	TimeSpentDelta int64
}
