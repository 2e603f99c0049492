package handlers

import (
	"errors"
	"strconv"

	"eventpass/internal/core/domain"
	"eventpass/internal/core/services"
	"eventpass/internal/pkg/pagination"
	"eventpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StudentHandler handles student management endpoints
type StudentHandler struct {
	studentService *services.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// Create handles admin student creation
// @Summary Create student
// @Description Create a student record directly, bypassing the registration roster
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StudentInput true "Student data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /students [post]
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var input services.StudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.studentService.CreateStudent(c.Context(), input)
	if err != nil {
		return h.studentError(c, err)
	}

	return response.Created(c, "Student created", result)
}

// List handles student listing with search
// @Summary List students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name, email, phone or event ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /students [get]
func (h *StudentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("search")

	students, total, err := h.studentService.ListStudents(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list students")
	}

	return response.Success(c, "Students retrieved successfully", pagination.NewResponse(students, params, total))
}

// Get handles fetching one student
// @Summary Get student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	student, err := h.studentService.GetStudent(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to get student")
	}

	return response.Success(c, "Student retrieved successfully", student)
}

// Lookup resolves an event credential to a student
// @Summary Lookup student by event ID
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event credential"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /students/lookup/{eventId} [get]
func (h *StudentHandler) Lookup(c *fiber.Ctx) error {
	student, err := h.studentService.GetStudentByEventID(c.Context(), c.Params("eventId"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEventID):
			return response.BadRequest(c, "Malformed event ID")
		case errors.Is(err, services.ErrStudentNotFound):
			return response.NotFound(c, "No student for this event ID")
		default:
			return response.InternalServerError(c, "Failed to lookup student")
		}
	}

	return response.Success(c, "Student retrieved successfully", student)
}

// Update handles partial student updates
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param body body services.UpdateStudentInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	var input services.UpdateStudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	student, err := h.studentService.UpdateStudent(c.Context(), uint(id), input)
	if err != nil {
		return h.studentError(c, err)
	}

	return response.Success(c, "Student updated successfully", student)
}

// Delete handles student deletion
// @Summary Delete student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	if err := h.studentService.DeleteStudent(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to delete student")
	}

	return response.Success(c, "Student deleted successfully", nil)
}

// Import handles bulk student import from a spreadsheet
// @Summary Import students from XLSX
// @Description Bulk create students from an uploaded spreadsheet (Name, Email, Phone, Program, Year, Gender, Section)
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "XLSX file"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /students/import [post]
func (h *StudentHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File upload is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Could not read uploaded file")
	}
	defer file.Close()

	result, err := h.studentService.ImportXLSX(c.Context(), actorFromContext(c), file)
	if err != nil {
		if errors.Is(err, services.ErrEmptyImportFile) {
			return response.BadRequest(c, "Import file has no data rows")
		}
		return response.BadRequest(c, "Could not parse spreadsheet")
	}

	return response.Success(c, "Import completed", result)
}

// studentError maps student service errors to HTTP responses.
func (h *StudentHandler) studentError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.AsValidationError(err); ok {
		return response.FieldError(c, fiber.StatusBadRequest, ve.Field, ve.Message)
	}
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		return response.NotFound(c, "Student not found")
	case errors.Is(err, services.ErrPhoneAlreadyRegistered):
		return response.FieldError(c, fiber.StatusConflict, "phone", "Phone number already registered")
	case errors.Is(err, services.ErrEmailAlreadyRegistered):
		return response.FieldError(c, fiber.StatusConflict, "email", "Email already registered")
	default:
		return response.InternalServerError(c, "Failed to save student")
	}
}
