package services

import (
	"errors"
	"fmt"

	"project/backend/models"

	"gorm.io/gorm"
)

// QueryService holds the read-only grouped aggregations over the content
// hierarchy and the learner's progress rows. All queries are point-in-time
// snapshots; joins are LEFT so content without progress counts as
// not-started. The raw joins filter deleted_at themselves because they
// bypass GORM's model scopes.
type QueryService struct {
	DB *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{DB: db}
}

type pathSummaryRow struct {
	PathID            uint
	Name              string
	Category          string
	TotalModules      int
	CompletedModules  int
	InProgressModules int
}

// PathSummaries returns module-level completion counts per active path for
// one learner.
func (q *QueryService) PathSummaries(userID uint) ([]models.PathSummary, error) {
	var rows []pathSummaryRow
	err := q.DB.Table("learning_paths AS p").
		Select(`p.id AS path_id, p.name, p.category,
			COUNT(DISTINCT m.id) AS total_modules,
			COUNT(DISTINCT CASE WHEN mp.status = ? THEN m.id END) AS completed_modules,
			COUNT(DISTINCT CASE WHEN mp.status = ? THEN m.id END) AS in_progress_modules`,
			models.StatusCompleted, models.StatusInProgress).
		Joins("LEFT JOIN learning_modules m ON m.path_id = p.id AND m.deleted_at IS NULL").
		Joins("LEFT JOIN module_progresses mp ON mp.module_id = m.id AND mp.user_id = ? AND mp.deleted_at IS NULL", userID).
		Where("p.active = ? AND p.deleted_at IS NULL", true).
		Group("p.id, p.name, p.category").
		Order("p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("path summaries: %w", err)
	}

	summaries := make([]models.PathSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, models.PathSummary{
			PathID:            r.PathID,
			Name:              r.Name,
			Category:          r.Category,
			TotalModules:      r.TotalModules,
			CompletedModules:  r.CompletedModules,
			InProgressModules: r.InProgressModules,
			CompletionRate:    completionRate(r.CompletedModules, r.TotalModules),
		})
	}
	return summaries, nil
}

type moduleSummaryRow struct {
	ModuleID             uint
	Title                string
	SequenceOrder        int
	TotalActivities      int
	CompletedActivities  int
	InProgressActivities int
	TimeSpent            int64
}

// ModuleSummaries returns activity-level rollups for every module under a
// path, including summed time spent.
func (q *QueryService) ModuleSummaries(userID, pathID uint) ([]models.ModuleSummary, error) {
	var path models.LearningPath
	if err := q.DB.First(&path, pathID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("path %d: %w", pathID, ErrNotFound)
		}
		return nil, fmt.Errorf("load path: %w", err)
	}

	var rows []moduleSummaryRow
	err := q.DB.Table("learning_modules AS m").
		Select(`m.id AS module_id, m.title, m.sequence_order,
			COUNT(DISTINCT a.id) AS total_activities,
			COUNT(DISTINCT CASE WHEN ap.status = ? THEN a.id END) AS completed_activities,
			COUNT(DISTINCT CASE WHEN ap.status = ? THEN a.id END) AS in_progress_activities,
			COALESCE(SUM(ap.time_spent), 0) AS time_spent`,
			models.StatusCompleted, models.StatusInProgress).
		Joins("LEFT JOIN activities a ON a.module_id = m.id AND a.deleted_at IS NULL").
		Joins("LEFT JOIN activity_progresses ap ON ap.activity_id = a.id AND ap.user_id = ? AND ap.deleted_at IS NULL", userID).
		Where("m.path_id = ? AND m.deleted_at IS NULL", pathID).
		Group("m.id, m.title, m.sequence_order").
		Order("m.sequence_order, m.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("module summaries: %w", err)
	}

	summaries := make([]models.ModuleSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, models.ModuleSummary{
			ModuleID:             r.ModuleID,
			Title:                r.Title,
			SequenceOrder:        r.SequenceOrder,
			Status:               DeriveStatus(r.CompletedActivities, r.InProgressActivities, r.TotalActivities),
			TotalActivities:      r.TotalActivities,
			CompletedActivities:  r.CompletedActivities,
			InProgressActivities: r.InProgressActivities,
			TimeSpent:            r.TimeSpent,
			CompletionRate:       completionRate(r.CompletedActivities, r.TotalActivities),
		})
	}
	return summaries, nil
}

// ActivityItems returns the per-activity rows under a module. Activities the
// learner never touched come back as zeroed not_started rows.
func (q *QueryService) ActivityItems(userID, moduleID uint) ([]models.ActivityItem, error) {
	var module models.LearningModule
	if err := q.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("module %d: %w", moduleID, ErrNotFound)
		}
		return nil, fmt.Errorf("load module: %w", err)
	}

	var items []models.ActivityItem
	err := q.DB.Table("activities AS a").
		Select(`a.id AS activity_id, a.title, a.kind, a.sequence_order,
			COALESCE(ap.status, ?) AS status,
			ap.score,
			COALESCE(ap.time_spent, 0) AS time_spent,
			COALESCE(ap.attempts, 0) AS attempts`, models.StatusNotStarted).
		Joins("LEFT JOIN activity_progresses ap ON ap.activity_id = a.id AND ap.user_id = ? AND ap.deleted_at IS NULL", userID).
		Where("a.module_id = ? AND a.deleted_at IS NULL", moduleID).
		Order("a.sequence_order, a.id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("activity items: %w", err)
	}
	return items, nil
}

// ModuleRollup returns the single-module aggregate the cascade derives the
// module status from.
func (q *QueryService) ModuleRollup(userID, moduleID uint) (*models.ModuleRollup, error) {
	var rollup models.ModuleRollup
	err := q.DB.Table("activities AS a").
		Select(`? AS module_id,
			COUNT(DISTINCT a.id) AS total_activities,
			COUNT(DISTINCT CASE WHEN ap.status = ? THEN a.id END) AS completed_activities,
			COUNT(DISTINCT CASE WHEN ap.status = ? THEN a.id END) AS in_progress_activities,
			COALESCE(SUM(ap.time_spent), 0) AS time_spent`,
			moduleID, models.StatusCompleted, models.StatusInProgress).
		Joins("LEFT JOIN activity_progresses ap ON ap.activity_id = a.id AND ap.user_id = ? AND ap.deleted_at IS NULL", userID).
		Where("a.module_id = ? AND a.deleted_at IS NULL", moduleID).
		Scan(&rollup).Error
	if err != nil {
		return nil, fmt.Errorf("module rollup: %w", err)
	}
	return &rollup, nil
}

// PathRollup counts completed modules against the total under a path. The
// achievement trigger fires when the two are equal and non-zero.
func (q *QueryService) PathRollup(userID, pathID uint) (*models.PathRollup, error) {
	var rollup models.PathRollup
	err := q.DB.Table("learning_modules AS m").
		Select(`? AS path_id,
			COUNT(DISTINCT m.id) AS total_modules,
			COUNT(DISTINCT CASE WHEN mp.status = ? THEN m.id END) AS completed_modules`,
			pathID, models.StatusCompleted).
		Joins("LEFT JOIN module_progresses mp ON mp.module_id = m.id AND mp.user_id = ? AND mp.deleted_at IS NULL", userID).
		Where("m.path_id = ? AND m.deleted_at IS NULL", pathID).
		Scan(&rollup).Error
	if err != nil {
		return nil, fmt.Errorf("path rollup: %w", err)
	}
	return &rollup, nil
}

// completionRate is division-safe: zero total yields 0, not NaN.
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
