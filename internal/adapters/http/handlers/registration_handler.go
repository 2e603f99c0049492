package handlers

import (
	"errors"

	"eventpass/internal/core/domain"
	"eventpass/internal/core/services"
	"eventpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler handles public self-registration
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register handles student self-registration
// @Summary Register student
// @Description Register a student whose phone is on the pre-vetted roster and issue an event credential
// @Tags Registration
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /register [post]
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.registrationService.Register(c.Context(), input)
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			return response.FieldError(c, fiber.StatusBadRequest, ve.Field, ve.Message)
		}
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			return response.Forbidden(c, "This phone number is not authorized to register")
		case errors.Is(err, services.ErrPhoneAlreadyRegistered):
			return response.FieldError(c, fiber.StatusConflict, "phone", "Phone number already registered")
		case errors.Is(err, services.ErrEmailAlreadyRegistered):
			return response.FieldError(c, fiber.StatusConflict, "email", "Email already registered")
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	return response.Created(c, "Registration successful", result)
}
