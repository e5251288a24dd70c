package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/models"
	"project/backend/routes"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	jwtToken string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          "testsecret",
		CacheTTL:           5 * time.Minute,
		CacheSweepInterval: 10 * time.Minute,
		WeeklyStatsDays:    7,
		AchievementPoints:  100,
		ActiveLearnerDays:  7,
	}

	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	logger := log.New(io.Discard, "", 0)
	store := cache.New(cfg.CacheTTL, cfg.CacheSweepInterval)
	t.Cleanup(store.Stop)

	service := services.NewProgressService(db, store, cfg, logger)
	analytics := services.NewAnalytics(db, service.Queries, cfg.ActiveLearnerDays, logger)

	app := fiber.New()
	routes.SetupRoutes(app, db, service, analytics, cfg)

	user := models.User{Username: "testuser", Email: "test@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateJWTToken(user.ID, cfg)
	require.NoError(t, err)

	return &fixture{app: app, db: db, cfg: cfg, jwtToken: token}
}

func (f *fixture) request(t *testing.T, method, target string, body interface{}) (map[string]interface{}, int) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", f.jwtToken)

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode
}

func TestGetUserProgressRequiresAuth(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("GET", "/api/progress/", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRecordAndReadProgress(t *testing.T) {
	f := newFixture(t)
	path := models.LearningPath{Name: "Desk Stretches", Category: "mobility", Active: true}
	require.NoError(t, f.db.Create(&path).Error)
	module := models.LearningModule{PathID: path.ID, Title: "Basics", SequenceOrder: 1}
	require.NoError(t, f.db.Create(&module).Error)
	activity := models.Activity{ModuleID: module.ID, Title: "Neck roll", SequenceOrder: 1, Kind: "exercise"}
	require.NoError(t, f.db.Create(&activity).Error)

	result, status := f.request(t, "POST", fmt.Sprintf("/api/activities/%d/progress", activity.ID), map[string]interface{}{
		"status":           "completed",
		"time_spent_delta": 120,
		"attempted":        true,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, result["success"])

	result, status = f.request(t, "GET", "/api/progress/", nil)
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	paths := data["paths"].([]interface{})
	require.Len(t, paths, 1)
	assert.Equal(t, float64(1), paths[0].(map[string]interface{})["completed_modules"])
	assert.Equal(t, float64(1), data["completed_paths"])

	result, status = f.request(t, "GET", "/api/achievements", nil)
	require.Equal(t, fiber.StatusOK, status)
	achievements := result["data"].([]interface{})
	require.Len(t, achievements, 1)
}

func TestRecordProgressUnknownActivity(t *testing.T) {
	f := newFixture(t)

	_, status := f.request(t, "POST", "/api/activities/9999/progress", map[string]interface{}{
		"status": "in_progress",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRecordProgressInvalidStatus(t *testing.T) {
	f := newFixture(t)
	path := models.LearningPath{Name: "P", Active: true}
	require.NoError(t, f.db.Create(&path).Error)
	module := models.LearningModule{PathID: path.ID}
	require.NoError(t, f.db.Create(&module).Error)
	activity := models.Activity{ModuleID: module.ID, Kind: "quiz"}
	require.NoError(t, f.db.Create(&activity).Error)

	_, status := f.request(t, "POST", fmt.Sprintf("/api/activities/%d/progress", activity.ID), map[string]interface{}{
		"status": "finished",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWeeklyStatsEmpty(t *testing.T) {
	f := newFixture(t)

	result, status := f.request(t, "GET", "/api/progress/stats/weekly", nil)
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	days := data["days"].([]interface{})
	require.Len(t, days, 7)
	for _, d := range days {
		assert.Equal(t, float64(0), d.(map[string]interface{})["count"])
	}
	assert.Equal(t, float64(0), data["total_hours_spent"])
}

func TestAdminAnalyticsForbiddenForUser(t *testing.T) {
	f := newFixture(t)

	_, status := f.request(t, "GET", "/api/admin/analytics/", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}
