package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/jobmate-ml-api/internal/dto"
	"github.com/fadilmartias/jobmate-ml-api/internal/util"
)

var apiEndpoints = []string{
	"POST /recommend",
	"POST /recommend/upload",
	"POST /predict-category",
	"GET /categories",
	"GET /jobs/{id}",
}

func (h *JobHandler) Root(c *fiber.Ctx) error {
	return util.SuccessResponse(c, fiber.StatusOK, dto.StatusResponse{
		Message:   "JobMate ML API is running",
		Docs:      "Not available.",
		Health:    "/healthcheck",
		Endpoints: apiEndpoints,
	})
}

func (h *JobHandler) Healthcheck(c *fiber.Ctx) error {
	return util.SuccessResponse(c, fiber.StatusOK, dto.HealthResponse{Status: "ok"})
}
