package models

import "time"

// Plain aggregate shapes returned to callers. No framework types here so the
// route layer can serialize them as-is.

type PathSummary struct {
	PathID            uint    `json:"path_id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	TotalModules      int     `json:"total_modules"`
	CompletedModules  int     `json:"completed_modules"`
	InProgressModules int     `json:"in_progress_modules"`
	CompletionRate    float64 `json:"completion_rate"`
}

type ModuleSummary struct {
	ModuleID             uint    `json:"module_id"`
	Title                string  `json:"title"`
	SequenceOrder        int     `json:"sequence_order"`
	Status               string  `json:"status"`
	TotalActivities      int     `json:"total_activities"`
	CompletedActivities  int     `json:"completed_activities"`
	InProgressActivities int     `json:"in_progress_activities"`
	TimeSpent            int64   `json:"time_spent"`
	CompletionRate       float64 `json:"completion_rate"`
}

type ActivityItem struct {
	ActivityID    uint     `json:"activity_id"`
	Title         string   `json:"title"`
	Kind          string   `json:"kind"`
	SequenceOrder int      `json:"sequence_order"`
	Status        string   `json:"status"`
	Score         *float64 `json:"score,omitempty"`
	TimeSpent     int64    `json:"time_spent"`
	Attempts      int      `json:"attempts"`
}

// ModuleRollup is the single-module aggregate the cascade derives status from.
type ModuleRollup struct {
	ModuleID             uint
	TotalActivities      int
	CompletedActivities  int
	InProgressActivities int
	TimeSpent            int64
}

// PathRollup backs the achievement trigger: all modules completed or not.
type PathRollup struct {
	PathID           uint
	TotalModules     int
	CompletedModules int
}

type DayBucket struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Count   int    `json:"count"`
	Minutes int64  `json:"minutes"`
}

type WeeklyStats struct {
	Days              []DayBucket      `json:"days"`
	UpdatesByKind     map[string]int   `json:"updates_by_kind"`      // trailing 30 days
	TimeSpentByKind   map[string]int64 `json:"time_spent_by_kind"`   // all-time seconds
	TotalHoursSpent   float64          `json:"total_hours_spent"`
	AvgSessionMinutes float64          `json:"avg_session_minutes"`
}

type RecentActivity struct {
	ActivityID uint      `json:"activity_id"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type UserProgressOverview struct {
	Paths          []PathSummary `json:"paths"`
	TotalPaths     int           `json:"total_paths"`
	CompletedPaths int           `json:"completed_paths"`
}
