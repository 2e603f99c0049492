package repositories

import (
	"context"
	"time"

	"eventpass/internal/adapters/persistence/models"
)

// StudentRepository defines student storage operations.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByEventID(ctx context.Context, eventID string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.Student, int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AllowlistRepository defines access to the pre-vetted phone roster.
type AllowlistRepository interface {
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Upsert(ctx context.Context, entry *models.AllowlistEntry) error
	Count(ctx context.Context) (int64, error)
}

// HallRepository defines hall storage operations.
type HallRepository interface {
	Create(ctx context.Context, hall *models.Hall) error
	GetByID(ctx context.Context, id uint) (*models.Hall, error)
	GetByCode(ctx context.Context, code string) (*models.Hall, error)
	Update(ctx context.Context, hall *models.Hall) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, includeInactive bool) ([]models.Hall, error)
}

// HallOccupancy is one row of the live occupancy report.
type HallOccupancy struct {
	HallID   uint   `json:"hall_id"`
	HallName string `json:"hall_name"`
	HallCode string `json:"hall_code"`
	Capacity int    `json:"capacity"`
	Inside   int64  `json:"inside"`
}

// SessionRepository defines hall session storage operations. Scan
// transitions run inside Transaction with LockStudent held, which is what
// keeps "at most one open session per student" true under concurrent scans.
type SessionRepository interface {
	Transaction(ctx context.Context, fn func(tx SessionRepository) error) error
	LockStudent(ctx context.Context, studentID uint) error
	GetOpenByStudent(ctx context.Context, studentID uint) (*models.HallSession, error)
	Create(ctx context.Context, session *models.HallSession) error
	Close(ctx context.Context, sessionID uint, exitTime time.Time) error
	CountOpenByStudent(ctx context.Context, studentID uint) (int64, error)
	OccupancyByHall(ctx context.Context) ([]HallOccupancy, error)
	CountByDate(ctx context.Context, date string) (int64, error)
	CountClosedByDate(ctx context.Context, date string) (int64, error)
}

// FoodRepository defines food claim storage operations. Create surfaces
// gorm.ErrDuplicatedKey when the (student, date) uniqueness constraint
// fires; callers convert that to a denial.
type FoodRepository interface {
	GetByStudentAndDate(ctx context.Context, studentID uint, date string) (*models.FoodClaim, error)
	Create(ctx context.Context, claim *models.FoodClaim) error
	CountByDate(ctx context.Context, date string) (int64, error)
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	Action   string
	ActorID  uint
	Resource string
	Since    time.Time
}

// AuditRepository defines audit trail storage operations.
type AuditRepository interface {
	Create(ctx context.Context, record *models.AuditRecord) error
	List(ctx context.Context, filter AuditFilter, offset, limit int) ([]models.AuditRecord, int64, error)
}

// StaffRepository defines staff user storage operations.
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffUser) error
	GetByID(ctx context.Context, id uint) (*models.StaffUser, error)
	GetByUsername(ctx context.Context, username string) (*models.StaffUser, error)
	Update(ctx context.Context, staff *models.StaffUser) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.StaffUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token storage operations.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByStaffID(ctx context.Context, staffID uint) error
	DeleteExpired(ctx context.Context) error
}
