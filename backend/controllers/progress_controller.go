package controllers

import (
	"strconv"

	"project/backend/config"
	"project/backend/services"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Service *services.ProgressService
	Cfg     *config.Config
}

func NewProgressController(service *services.ProgressService, cfg *config.Config) *ProgressController {
	return &ProgressController{Service: service, Cfg: cfg}
}

// GetUserProgress godoc
// @Summary Get user progress
// @Description Returns per-path completion rollups for the authenticated learner
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetUserProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	overview, err := pc.Service.GetUserProgress(userID)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, overview)
}

// GetPathProgress godoc
// @Summary Get path progress
// @Description Returns per-module rollups under one learning path
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/paths/{id} [get]
func (pc *ProgressController) GetPathProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	pathID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid path ID")
	}

	modules, err := pc.Service.GetPathProgress(userID, uint(pathID))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, modules)
}

// GetModuleProgress godoc
// @Summary Get module progress
// @Description Returns per-activity progress rows under one module
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/modules/{id} [get]
func (pc *ProgressController) GetModuleProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	items, err := pc.Service.GetModuleProgress(userID, uint(moduleID))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, items)
}

// GetRecentActivities godoc
// @Summary Get recent activities
// @Description Returns the learner's latest recorded activity updates
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /progress/recent [get]
func (pc *ProgressController) GetRecentActivities(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	recent, err := pc.Service.GetRecentActivities(userID)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, recent)
}

// GetWeeklyStats godoc
// @Summary Get weekly stats
// @Description Returns day histograms, per-kind counts and session averages
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /progress/stats/weekly [get]
func (pc *ProgressController) GetWeeklyStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	stats, err := pc.Service.GetWeeklyStats(userID)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// GetAchievements godoc
// @Summary Get achievements
// @Description Returns the learner's achievements, newest first
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /achievements [get]
func (pc *ProgressController) GetAchievements(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	achievements, err := pc.Service.GetAchievements(userID)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, achievements)
}

// RecordActivityProgress godoc
// @Summary Record activity progress
// @Description Records one activity update, cascades module/path status and invalidates the learner's cached views
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /activities/{id}/progress [post]
func (pc *ProgressController) RecordActivityProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	activityID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid activity ID")
	}

	var input services.ProgressUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	row, err := pc.Service.RecordActivityProgress(userID, uint(activityID), input)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, row)
}
