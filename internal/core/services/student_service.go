package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"eventpass/internal/adapters/persistence/models"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/core/domain"
	"eventpass/internal/pkg/credential"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Student service errors
var (
	ErrEmptyImportFile = errors.New("import file has no data rows")
)

// StudentInput is the admin-side create payload. Admin creation skips the
// allowlist gate but not the uniqueness constraints.
type StudentInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	Program string `json:"program" validate:"required"`
	Year    int    `json:"year" validate:"required,min=1,max=6"`
	Gender  string `json:"gender" validate:"required"`
	Section string `json:"section" validate:"required"`
}

// UpdateStudentInput carries optional field updates.
type UpdateStudentInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Program *string `json:"program"`
	Year    *int    `json:"year"`
	Gender  *string `json:"gender"`
	Section *string `json:"section"`
}

// ImportRowError reports one rejected spreadsheet row.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// StudentService handles student management
type StudentService struct {
	studentRepo repositories.StudentRepository
	audit       AuditSink
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo repositories.StudentRepository, audit AuditSink) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		audit:       audit,
	}
}

// CreateStudent creates a student record and issues an event credential.
func (s *StudentService) CreateStudent(ctx context.Context, input StudentInput) (*RegisterResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Program = strings.ToUpper(strings.TrimSpace(input.Program))
	input.Gender = strings.ToUpper(strings.TrimSpace(input.Gender))
	input.Section = strings.ToUpper(strings.TrimSpace(input.Section))
	input.Phone = domain.NormalizePhone(input.Phone)

	if err := validateStudentFields(input); err != nil {
		return nil, err
	}

	if exists, err := s.studentRepo.ExistsByPhone(ctx, input.Phone); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrPhoneAlreadyRegistered
	}
	if exists, err := s.studentRepo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if exists {
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
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneAlreadyRegistered
		}
		return nil, err
	}

	return &RegisterResult{
		Student: student.ToResponse(),
		EventID: eventID,
	}, nil
}

// GetStudent gets a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id uint) (*models.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student.ToResponse(), nil
}

// GetStudentByEventID looks a student up by scanned credential.
func (s *StudentService) GetStudentByEventID(ctx context.Context, eventID string) (*models.StudentResponse, error) {
	eventID = credential.Normalize(eventID)
	if !credential.Valid(eventID) {
		return nil, ErrInvalidEventID
	}
	student, err := s.studentRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student.ToResponse(), nil
}

// ListStudents lists students with optional search over name, email, phone
// and credential.
func (s *StudentService) ListStudents(ctx context.Context, search string, offset, limit int) ([]*models.StudentResponse, int64, error) {
	students, total, err := s.studentRepo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*models.StudentResponse, 0, len(students))
	for _, st := range students {
		responses = append(responses, st.ToResponse())
	}
	return responses, total, nil
}

// UpdateStudent applies a partial update to a student record.
func (s *StudentService) UpdateStudent(ctx context.Context, id uint, input UpdateStudentInput) (*models.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		student.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		student.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		student.Phone = domain.NormalizePhone(*input.Phone)
	}
	if input.Program != nil {
		student.Program = strings.ToUpper(strings.TrimSpace(*input.Program))
	}
	if input.Year != nil {
		student.Year = *input.Year
	}
	if input.Gender != nil {
		student.Gender = strings.ToUpper(strings.TrimSpace(*input.Gender))
	}
	if input.Section != nil {
		student.Section = strings.ToUpper(strings.TrimSpace(*input.Section))
	}

	if err := validateStudentFields(StudentInput{
		Name:    student.Name,
		Email:   student.Email,
		Phone:   student.Phone,
		Program: student.Program,
		Year:    student.Year,
		Gender:  student.Gender,
		Section: student.Section,
	}); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneAlreadyRegistered
		}
		return nil, err
	}
	return student.ToResponse(), nil
}

// DeleteStudent soft deletes a student
func (s *StudentService) DeleteStudent(ctx context.Context, id uint) error {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	return s.studentRepo.Delete(ctx, id)
}

// ImportXLSX bulk creates students from a spreadsheet. Expected columns:
// Name, Email, Phone, Program, Year, Gender, Section; first row is a header.
// Bad rows are skipped and reported, good rows are committed individually so
// one typo does not sink the whole file.
func (s *StudentService) ImportXLSX(ctx context.Context, actor Actor, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyImportFile
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		if isBlankRow(row) {
			continue
		}
		if len(row) < 7 {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: "expected 7 columns"})
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: "year is not a number"})
			continue
		}

		input := StudentInput{
			Name:    row[0],
			Email:   row[1],
			Phone:   row[2],
			Program: row[3],
			Year:    year,
			Gender:  row[5],
			Section: row[6],
		}

		if _, err := s.CreateStudent(ctx, input); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		result.Created++
	}

	log.Printf("✅ Bulk import by %s: %d created, %d skipped", actor.Name, result.Created, result.Skipped)
	s.audit.Record(AuditEntry{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Action:    domain.AuditBulkImport,
		Resource:  "student",
		Details:   fmt.Sprintf("Imported %d students, skipped %d rows", result.Created, result.Skipped),
		IPAddress: actor.IP,
	})

	return result, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// validateStudentFields checks the domain enumerations shared by admin
// creation, bulk import and updates.
func validateStudentFields(input StudentInput) error {
	if len(input.Name) < 2 {
		return domain.NewValidationError("name", "is required")
	}
	if !strings.Contains(input.Email, "@") {
		return domain.NewValidationError("email", "must be a valid email address")
	}
	if len(input.Phone) < 10 || len(input.Phone) > 15 {
		return domain.NewValidationError("phone", "must be 10 to 15 digits")
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
