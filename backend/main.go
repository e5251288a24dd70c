package main

import (
	"log"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/routes"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Cache store with its sweeper
	store := cache.New(cfg.CacheTTL, cfg.CacheSweepInterval)
	defer store.Stop()

	// Progress subsystem and analytics scheduler
	service := services.NewProgressService(db, store, cfg, logger)
	analytics := services.NewAnalytics(db, service.Queries, cfg.ActiveLearnerDays, logger)
	scheduler := services.StartAnalyticsScheduler(analytics)
	defer scheduler.Stop()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, service, analytics, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
