package models

import (
	"time"

	"gorm.io/gorm"
)

const AchievementPathCompletion = "path_completion"

// Achievement rows are unique per (user, type, title); a repeated award for
// the same triple is a no-op.
type Achievement struct {
	gorm.Model
	UserID    uint   `gorm:"uniqueIndex:idx_user_achievement;not null"`
	Type      string `gorm:"uniqueIndex:idx_user_achievement;not null"`
	Title     string `gorm:"uniqueIndex:idx_user_achievement;not null"`
	Points    int
	Metadata  string
	AwardedAt time.Time
}
