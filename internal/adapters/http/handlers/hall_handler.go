package handlers

import (
	"errors"
	"strconv"

	"eventpass/internal/core/domain"
	"eventpass/internal/core/services"
	"eventpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HallHandler handles hall management endpoints
type HallHandler struct {
	hallService *services.HallService
}

// NewHallHandler creates a new hall handler
func NewHallHandler(hallService *services.HallService) *HallHandler {
	return &HallHandler{hallService: hallService}
}

// Create handles hall creation
// @Summary Create hall
// @Tags Halls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.HallInput true "Hall data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /halls [post]
func (h *HallHandler) Create(c *fiber.Ctx) error {
	var input services.HallInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	hall, err := h.hallService.CreateHall(c.Context(), input)
	if err != nil {
		return h.hallError(c, err)
	}

	return response.Created(c, "Hall created", hall)
}

// List handles hall listing
// @Summary List halls
// @Tags Halls
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include deactivated halls"
// @Success 200 {object} response.Response
// @Router /halls [get]
func (h *HallHandler) List(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)

	halls, err := h.hallService.ListHalls(c.Context(), includeInactive)
	if err != nil {
		return response.InternalServerError(c, "Failed to list halls")
	}

	return response.Success(c, "Halls retrieved successfully", halls)
}

// Get handles fetching one hall
// @Summary Get hall
// @Tags Halls
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hall ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /halls/{id} [get]
func (h *HallHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid hall ID")
	}

	hall, err := h.hallService.GetHall(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrHallNotFound) {
			return response.NotFound(c, "Hall not found")
		}
		return response.InternalServerError(c, "Failed to get hall")
	}

	return response.Success(c, "Hall retrieved successfully", hall)
}

// Update handles hall updates
// @Summary Update hall
// @Tags Halls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hall ID"
// @Param body body services.HallInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /halls/{id} [patch]
func (h *HallHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid hall ID")
	}

	var input services.HallInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	hall, err := h.hallService.UpdateHall(c.Context(), uint(id), input)
	if err != nil {
		return h.hallError(c, err)
	}

	return response.Success(c, "Hall updated successfully", hall)
}

// Delete handles hall deletion
// @Summary Delete hall
// @Tags Halls
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hall ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /halls/{id} [delete]
func (h *HallHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid hall ID")
	}

	if err := h.hallService.DeleteHall(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrHallNotFound) {
			return response.NotFound(c, "Hall not found")
		}
		return response.InternalServerError(c, "Failed to delete hall")
	}

	return response.Success(c, "Hall deleted successfully", nil)
}

func (h *HallHandler) hallError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.AsValidationError(err); ok {
		return response.FieldError(c, fiber.StatusBadRequest, ve.Field, ve.Message)
	}
	switch {
	case errors.Is(err, services.ErrHallNotFound):
		return response.NotFound(c, "Hall not found")
	case errors.Is(err, services.ErrHallCodeTaken):
		return response.FieldError(c, fiber.StatusConflict, "code", "Hall code already in use")
	default:
		return response.InternalServerError(c, "Failed to save hall")
	}
}
