package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/credential"
	"eventpass/internal/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Registration service errors
var (
	ErrNotAuthorized          = errors.New("phone number not authorized for registration")
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	Program string `json:"program" validate:"required"`
	Year    int    `json:"year" validate:"required,min=1,max=6"`
	Gender  string `json:"gender" validate:"required"`
	Section string `json:"section" validate:"required"`
}

// RegisterResult carries the issued credential alongside the created record.
type RegisterResult struct {
	Student *models.StudentResponse `json:"student"`
	EventID string                  `json:"event_id"`
}

// RegistrationService gates self-registration on the pre-vetted phone roster
// and issues event credentials.
type RegistrationService struct {
	studentRepo   repositories.StudentRepository
	allowlistRepo repositories.AllowlistRepository
	audit         AuditSink
	validate      *validator.Validate
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	studentRepo repositories.StudentRepository,
	allowlistRepo repositories.AllowlistRepository,
	audit AuditSink,
) *RegistrationService {
	return &RegistrationService{
		studentRepo:   studentRepo,
		allowlistRepo: allowlistRepo,
		audit:         audit,
		validate:      validator.New(),
	}
}

// Register creates a student for an allowlisted phone number and returns the
// generated event credential. Field validation errors come back as
// *domain.ValidationError so the handler can name the offending field.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Program = strings.ToUpper(strings.TrimSpace(input.Program))
	input.Gender = strings.ToUpper(strings.TrimSpace(input.Gender))
	input.Section = strings.ToUpper(strings.TrimSpace(input.Section))
	input.Phone = domain.NormalizePhone(input.Phone)

	if err := s.validateInput(input); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	allowed, err := s.allowlistRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeDenied).Inc()
		return nil, ErrNotAuthorized
	}

	if exists, err := s.studentRepo.ExistsByPhone(ctx, input.Phone); err != nil {
		return nil, err
	} else if exists {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrPhoneAlreadyRegistered
	}
	if exists, err := s.studentRepo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if exists {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrEmailAlreadyRegistered
	}

	eventID, err := credential.New()
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Program: input.Program,
		Year:    input.Year,
		Gender:  input.Gender,
		Section: input.Section,
		EventID: eventID,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		// The unique indexes are the final arbiter; a concurrent duplicate
		// slips past the existence checks and lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, ErrPhoneAlreadyRegistered
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeAllowed).Inc()
	s.audit.Record(AuditEntry{
		Action:     domain.AuditRegister,
		Resource:   "student",
		ResourceID: eventID,
		Details:    fmt.Sprintf("Self-registration by %s (%s)", student.Name, student.Phone),
	})

	return &RegisterResult{
		Student: student.ToResponse(),
		EventID: eventID,
	}, nil
}

// validateInput layers the domain enumerations on top of the tag checks.
func (s *RegistrationService) validateInput(input RegisterInput) error {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.NewValidationError(strings.ToLower(fe.Field()), validationMessage(fe))
		}
		return err
	}

	if !domain.ValidProgram(input.Program) {
		return domain.NewValidationError("program", "unknown program code")
	}
	if !domain.ValidYear(input.Program, input.Year) {
		return domain.NewValidationError("year", fmt.Sprintf("year %d is not valid for %s", input.Year, input.Program))
	}
	if !domain.Genders[input.Gender] {
		return domain.NewValidationError("gender", "must be one of MALE, FEMALE, OTHER")
	}
	if !domain.Sections[input.Section] {
		return domain.NewValidationError("section", "must be one of A, B, C, D")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
