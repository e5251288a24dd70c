package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"
	"project/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, service *services.ProgressService, analytics *services.Analytics, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Progress routes
	progressController := controllers.NewProgressController(service, cfg)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Get("/", progressController.GetUserProgress)
	progress.Get("/recent", progressController.GetRecentActivities)
	progress.Get("/stats/weekly", progressController.GetWeeklyStats)
	progress.Get("/paths/:id", progressController.GetPathProgress)
	progress.Get("/modules/:id", progressController.GetModuleProgress)

	app.Get("/api/achievements", authMiddleware, progressController.GetAchievements)
	app.Post("/api/activities/:id/progress", authMiddleware, progressController.RecordActivityProgress)

	// Admin analytics routes
	analyticsController := controllers.NewAnalyticsController(analytics, cfg)
	adminAnalytics := app.Group("/api/admin/analytics", authMiddleware, adminMiddleware)
	adminAnalytics.Get("/", analyticsController.GetPlatformAnalytics)
	adminAnalytics.Post("/run", analyticsController.RunSnapshot)
}
