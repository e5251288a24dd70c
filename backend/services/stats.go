package services

import (
	"fmt"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
)

const recentActivitiesLimit = 10

// Stats computes time-windowed rollups from the activity-event log,
// independent of the cascade path. Bucketing happens in Go over fetched rows
// so the arithmetic is portable and unit-testable; only the grouped sums run
// in the data store.
type Stats struct {
	DB         *gorm.DB
	WindowDays int
}

func NewStats(db *gorm.DB, windowDays int) *Stats {
	return &Stats{DB: db, WindowDays: windowDays}
}

type kindCountRow struct {
	Kind  string
	Count int
}

type kindSumRow struct {
	Kind  string
	Total int64
}

// Weekly builds the learner's weekly stats view. A learner with no history
// gets zero-filled day buckets and zero averages.
func (s *Stats) Weekly(userID uint) (*models.WeeklyStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := today.AddDate(0, 0, -(s.WindowDays - 1))

	// One bucket per calendar day, oldest first, days with no activity kept.
	days := make([]models.DayBucket, s.WindowDays)
	index := make(map[string]int, s.WindowDays)
	for i := 0; i < s.WindowDays; i++ {
		date := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = models.DayBucket{Date: date}
		index[date] = i
	}

	var windowEvents []models.ActivityEvent
	if err := s.DB.Where("user_id = ? AND created_at >= ?", userID, windowStart).
		Find(&windowEvents).Error; err != nil {
		return nil, fmt.Errorf("window events: %w", err)
	}
	for _, e := range windowEvents {
		if i, ok := index[e.CreatedAt.Format("2006-01-02")]; ok {
			days[i].Count++
			days[i].Minutes += e.TimeSpentDelta / 60
		}
	}

	var kindCounts []kindCountRow
	if err := s.DB.Model(&models.ActivityEvent{}).
		Select("kind, COUNT(*) AS count").
		Where("user_id = ? AND created_at >= ?", userID, now.AddDate(0, 0, -30)).
		Group("kind").
		Scan(&kindCounts).Error; err != nil {
		return nil, fmt.Errorf("kind counts: %w", err)
	}
	updatesByKind := make(map[string]int, len(kindCounts))
	for _, r := range kindCounts {
		updatesByKind[r.Kind] = r.Count
	}

	var kindSums []kindSumRow
	if err := s.DB.Model(&models.ActivityEvent{}).
		Select("kind, COALESCE(SUM(time_spent_delta), 0) AS total").
		Where("user_id = ?", userID).
		Group("kind").
		Scan(&kindSums).Error; err != nil {
		return nil, fmt.Errorf("kind sums: %w", err)
	}
	timeByKind := make(map[string]int64, len(kindSums))
	var totalSeconds int64
	for _, r := range kindSums {
		timeByKind[r.Kind] = r.Total
		totalSeconds += r.Total
	}

	sessions, err := s.sessionCount(userID)
	if err != nil {
		return nil, err
	}
	avgSessionMinutes := 0.0
	if sessions > 0 {
		avgSessionMinutes = float64(totalSeconds) / 60 / float64(sessions)
	}

	return &models.WeeklyStats{
		Days:              days,
		UpdatesByKind:     updatesByKind,
		TimeSpentByKind:   timeByKind,
		TotalHoursSpent:   float64(totalSeconds) / 3600,
		AvgSessionMinutes: avgSessionMinutes,
	}, nil
}

// sessionCount groups all of a learner's updates by their hour-truncated
// timestamp; each distinct hour is one session. Coarse, but it matches how
// the stats view defines a session.
func (s *Stats) sessionCount(userID uint) (int, error) {
	var timestamps []time.Time
	err := s.DB.Model(&models.ActivityEvent{}).
		Where("user_id = ?", userID).
		Pluck("created_at", &timestamps).Error
	if err != nil {
		return 0, fmt.Errorf("session timestamps: %w", err)
	}

	hours := make(map[time.Time]struct{}, len(timestamps))
	for _, ts := range timestamps {
		hours[ts.Truncate(time.Hour)] = struct{}{}
	}
	return len(hours), nil
}

// Recent returns the learner's latest recorded updates, newest first.
func (s *Stats) Recent(userID uint) ([]models.RecentActivity, error) {
	var recent []models.RecentActivity
	err := s.DB.Table("activity_events AS e").
		Select("e.activity_id, a.title, a.kind, e.status, e.created_at AS occurred_at").
		Joins("LEFT JOIN activities a ON a.id = e.activity_id AND a.deleted_at IS NULL").
		Where("e.user_id = ? AND e.deleted_at IS NULL", userID).
		Order("e.created_at DESC, e.id DESC").
		Limit(recentActivitiesLimit).
		Scan(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	return recent, nil
}
