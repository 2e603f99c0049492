package handlers

import (
	"strconv"
	"time"

	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/core/services"
	"eventpass/internal/pkg/pagination"
	"eventpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Occupancy returns live per-hall headcounts
// @Summary Live hall occupancy
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/occupancy [get]
func (h *ReportHandler) Occupancy(c *fiber.Ctx) error {
	rows, err := h.reportService.Occupancy(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute occupancy")
	}

	return response.Success(c, "Occupancy retrieved successfully", rows)
}

// TodaySummary returns the current event day's aggregates
// @Summary Today's summary
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/summary [get]
func (h *ReportHandler) TodaySummary(c *fiber.Ctx) error {
	summary, err := h.reportService.TodaySummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute summary")
	}

	return response.Success(c, "Summary retrieved successfully", summary)
}

// AuditLog lists audit records
// @Summary List audit records
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param action query string false "Filter by action"
// @Param actor_id query int false "Filter by acting staff ID"
// @Param resource query string false "Filter by resource"
// @Param since query string false "Only records after this RFC3339 time"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /reports/audit [get]
func (h *ReportHandler) AuditLog(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.AuditFilter{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
	}
	if actorID, err := strconv.ParseUint(c.Query("actor_id", "0"), 10, 32); err == nil {
		filter.ActorID = uint(actorID)
	}
	if since := c.Query("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return response.BadRequest(c, "since must be RFC3339")
		}
		filter.Since = parsed
	}

	records, total, err := h.reportService.AuditLog(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list audit records")
	}

	return response.Success(c, "Audit records retrieved successfully", pagination.NewResponse(records, params, total))
}
