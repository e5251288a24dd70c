package controllers

import (
	"project/backend/config"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsController struct {
	Analytics *services.Analytics
	Cfg       *config.Config
}

func NewAnalyticsController(analytics *services.Analytics, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics, Cfg: cfg}
}

// GetPlatformAnalytics returns the latest daily platform snapshot. Before the
// first scheduler run this is a zero snapshot, not an error.
func (ac *AnalyticsController) GetPlatformAnalytics(c *fiber.Ctx) error {
	snapshot, err := ac.Analytics.Latest()
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, snapshot)
}

// RunSnapshot recomputes today's snapshot on demand.
func (ac *AnalyticsController) RunSnapshot(c *fiber.Ctx) error {
	if err := ac.Analytics.Snapshot(); err != nil {
		return utils.ServiceError(c, err)
	}
	snapshot, err := ac.Analytics.Latest()
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, snapshot)
}
