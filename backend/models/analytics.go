package models

import "gorm.io/gorm"

// PlatformSnapshot is a daily roll-up written by the analytics scheduler.
type PlatformSnapshot struct {
	gorm.Model
	TotalLearners     int
	ActiveLearners    int
	AvgPathCompletion float64
	Date              string `gorm:"uniqueIndex"` // YYYY-MM-DD
}
