package handlers

import (
	"errors"

	"eventpass/internal/core/services"
	"eventpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScanHandler handles hall and food scan endpoints
type ScanHandler struct {
	scanService *services.ScanService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService *services.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// HallScanRequest represents a hall scan request body
type HallScanRequest struct {
	EventID  string `json:"event_id"`
	HallCode string `json:"hall_code"`
}

// FoodScanRequest represents a food scan request body
type FoodScanRequest struct {
	EventID string `json:"event_id"`
}

// ScanHall handles a hall check-in/check-out scan
// @Summary Process hall scan
// @Description Resolve a credential scan at a hall into an entry, exit or movement
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body HallScanRequest true "Scan data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /scan/hall [post]
func (h *ScanHandler) ScanHall(c *fiber.Ctx) error {
	var req HallScanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.EventID == "" {
		return response.BadRequest(c, "Event ID is required")
	}
	if req.HallCode == "" {
		return response.BadRequest(c, "Hall code is required")
	}

	result, err := h.scanService.ScanHall(c.Context(), actorFromContext(c), req.EventID, req.HallCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEventID):
			return response.BadRequest(c, "Malformed event ID")
		case errors.Is(err, services.ErrDuplicateScan):
			return response.Error(c, fiber.StatusConflict, "Duplicate scan, already processed")
		case errors.Is(err, services.ErrStudentNotFound):
			return response.NotFound(c, "No student for this event ID")
		case errors.Is(err, services.ErrHallNotFound):
			return response.NotFound(c, "Hall not found")
		case errors.Is(err, services.ErrHallInactive):
			return response.Error(c, fiber.StatusUnprocessableEntity, "Hall is not active")
		default:
			return response.InternalServerError(c, "Failed to process scan")
		}
	}

	return response.Success(c, result.Message, result)
}

// ScanFood handles a food counter scan
// @Summary Process food counter scan
// @Description Approve the first food claim of the event day, deny repeats
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FoodScanRequest true "Scan data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /scan/food [post]
func (h *ScanHandler) ScanFood(c *fiber.Ctx) error {
	var req FoodScanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.EventID == "" {
		return response.BadRequest(c, "Event ID is required")
	}

	result, err := h.scanService.ScanFood(c.Context(), actorFromContext(c), req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEventID):
			return response.BadRequest(c, "Malformed event ID")
		case errors.Is(err, services.ErrDuplicateScan):
			return response.Error(c, fiber.StatusConflict, "Duplicate scan, already processed")
		case errors.Is(err, services.ErrStudentNotFound):
			return response.NotFound(c, "No student for this event ID")
		default:
			return response.InternalServerError(c, "Failed to process scan")
		}
	}

	// A denied claim is still a successful scan; the decision is in the
	// payload so the counter UI can show it.
	return response.Success(c, result.Message, result)
}

// actorFromContext builds the acting staff identity from auth middleware
// locals.
func actorFromContext(c *fiber.Ctx) services.Actor {
	actor := services.Actor{IP: c.IP()}
	if id, ok := c.Locals("staffID").(uint); ok {
		actor.ID = id
	}
	if name, ok := c.Locals("username").(string); ok {
		actor.Name = name
	}
	if role, ok := c.Locals("role").(string); ok {
		actor.Role = role
	}
	return actor
}
