package services

import (
	"fmt"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Awarder creates achievement rows. The unique (user, type, title) index plus
// the DO NOTHING conflict clause make re-triggered awards no-ops.
type Awarder struct {
	DB     *gorm.DB
	Points int
}

func NewAwarder(db *gorm.DB, points int) *Awarder {
	return &Awarder{DB: db, Points: points}
}

// AwardPathCompletion records the path-completion achievement for a learner.
// Calling it again for the same path does nothing.
func (a *Awarder) AwardPathCompletion(userID uint, path *models.LearningPath) error {
	if userID == 0 || path == nil {
		return fmt.Errorf("missing identifier: %w", ErrInvalidInput)
	}
	if a.Points < 0 {
		return fmt.Errorf("negative points: %w", ErrInvalidInput)
	}

	achievement := models.Achievement{
		UserID:    userID,
		Type:      models.AchievementPathCompletion,
		Title:     "Completed " + path.Name,
		Points:    a.Points,
		Metadata:  fmt.Sprintf(`{"path_id":%d}`, path.ID),
		AwardedAt: time.Now(),
	}
	err := a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "title"}},
		DoNothing: true,
	}).Create(&achievement).Error
	if err != nil {
		return fmt.Errorf("award achievement: %w", err)
	}
	return nil
}

// List returns a learner's achievements, newest first. No achievements yet is
// an empty list, not an error.
func (a *Awarder) List(userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := a.DB.Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}
