package services

import (
	"fmt"
	"log"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/models"

	"gorm.io/gorm"
)

// ProgressService is the public face of the progress subsystem: cached reads
// over the query/stats layers and the write path that records, cascades and
// invalidates. Every cache key for a learner starts with "user:<id>:" so one
// prefix delete clears all of them.
type ProgressService struct {
	Cache    *cache.Store
	Queries  *QueryService
	Recorder *Recorder
	Cascade  *Cascade
	Awarder  *Awarder
	Stats    *Stats
}

func NewProgressService(db *gorm.DB, store *cache.Store, cfg *config.Config, logger *log.Logger) *ProgressService {
	queries := NewQueryService(db)
	awarder := NewAwarder(db, cfg.AchievementPoints)
	return &ProgressService{
		Cache:    store,
		Queries:  queries,
		Recorder: NewRecorder(db),
		Cascade:  NewCascade(db, queries, awarder, logger),
		Awarder:  awarder,
		Stats:    NewStats(db, cfg.WeeklyStatsDays),
	}
}

func userPrefix(userID uint) string {
	return fmt.Sprintf("user:%d:", userID)
}

// GetUserProgress returns the per-path overview for a learner.
func (s *ProgressService) GetUserProgress(userID uint) (*models.UserProgressOverview, error) {
	key := userPrefix(userID) + "progress"
	if v, ok := s.Cache.Get(key); ok {
		if overview, ok := v.(*models.UserProgressOverview); ok {
			return overview, nil
		}
	}

	paths, err := s.Queries.PathSummaries(userID)
	if err != nil {
		return nil, err
	}
	overview := &models.UserProgressOverview{
		Paths:      paths,
		TotalPaths: len(paths),
	}
	for _, p := range paths {
		if p.TotalModules > 0 && p.CompletedModules == p.TotalModules {
			overview.CompletedPaths++
		}
	}

	s.Cache.Set(key, overview)
	return overview, nil
}

// GetPathProgress returns the per-module rollups under one path.
func (s *ProgressService) GetPathProgress(userID, pathID uint) ([]models.ModuleSummary, error) {
	key := fmt.Sprintf("%spath:%d", userPrefix(userID), pathID)
	if v, ok := s.Cache.Get(key); ok {
		if modules, ok := v.([]models.ModuleSummary); ok {
			return modules, nil
		}
	}

	modules, err := s.Queries.ModuleSummaries(userID, pathID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(key, modules)
	return modules, nil
}

// GetModuleProgress returns the per-activity rows under one module.
func (s *ProgressService) GetModuleProgress(userID, moduleID uint) ([]models.ActivityItem, error) {
	key := fmt.Sprintf("%smodule:%d", userPrefix(userID), moduleID)
	if v, ok := s.Cache.Get(key); ok {
		if items, ok := v.([]models.ActivityItem); ok {
			return items, nil
		}
	}

	items, err := s.Queries.ActivityItems(userID, moduleID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(key, items)
	return items, nil
}

// GetRecentActivities returns the learner's latest updates.
func (s *ProgressService) GetRecentActivities(userID uint) ([]models.RecentActivity, error) {
	key := userPrefix(userID) + "recent"
	if v, ok := s.Cache.Get(key); ok {
		if recent, ok := v.([]models.RecentActivity); ok {
			return recent, nil
		}
	}

	recent, err := s.Stats.Recent(userID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(key, recent)
	return recent, nil
}

// GetWeeklyStats returns the learner's weekly stats view.
func (s *ProgressService) GetWeeklyStats(userID uint) (*models.WeeklyStats, error) {
	key := userPrefix(userID) + "stats:weekly"
	if v, ok := s.Cache.Get(key); ok {
		if stats, ok := v.(*models.WeeklyStats); ok {
			return stats, nil
		}
	}

	stats, err := s.Stats.Weekly(userID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(key, stats)
	return stats, nil
}

// GetAchievements returns the learner's achievements.
func (s *ProgressService) GetAchievements(userID uint) ([]models.Achievement, error) {
	key := userPrefix(userID) + "achievements"
	if v, ok := s.Cache.Get(key); ok {
		if achievements, ok := v.([]models.Achievement); ok {
			return achievements, nil
		}
	}

	achievements, err := s.Awarder.List(userID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(key, achievements)
	return achievements, nil
}

// RecordActivityProgress is the write path: record, cascade, invalidate.
// Invalidation is unconditional once the record commits, because time spent
// always changes even when no status did. A recorder failure aborts before
// any cascade side effect or invalidation.
func (s *ProgressService) RecordActivityProgress(userID, activityID uint, upd ProgressUpdate) (*models.ActivityProgress, error) {
	row, err := s.Recorder.Record(userID, activityID, upd)
	if err != nil {
		return nil, err
	}

	// The progress write is committed; every learner-scoped entry is stale
	// from here on, even if the cascade fails partway.
	defer s.Cache.DeleteByPrefix(userPrefix(userID))

	if err := s.Cascade.FromActivity(userID, activityID); err != nil {
		return nil, err
	}
	return row, nil
}
