package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Students & Registration
// ============================================================

// Student represents the students table. Phone, email and event_id carry
// unique indexes; those constraints are the final arbiter of registration
// uniqueness, the application-level existence checks only produce nicer
// error messages.
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     string         `gorm:"uniqueIndex;size:15;not null" json:"phone"`
	Program   string         `gorm:"size:20;not null" json:"program"`
	Year      int            `gorm:"not null" json:"year"`
	Gender    string         `gorm:"size:10;not null" json:"gender"`
	Section   string         `gorm:"size:5;not null" json:"section"`
	EventID   string         `gorm:"uniqueIndex;size:16;not null" json:"event_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

// StudentResponse DTO
type StudentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Program   string    `json:"program"`
	Year      int       `json:"year"`
	Gender    string    `json:"gender"`
	Section   string    `json:"section"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Student) ToResponse() *StudentResponse {
	return &StudentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Program:   s.Program,
		Year:      s.Year,
		Gender:    s.Gender,
		Section:   s.Section,
		EventID:   s.EventID,
		CreatedAt: s.CreatedAt,
	}
}

// AllowlistEntry represents the pre-vetted phone roster. Only phones in
// this table may self-register.
type AllowlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Phone     string    `gorm:"uniqueIndex;size:15;not null" json:"phone"`
	Name      string    `gorm:"size:100" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AllowlistEntry) TableName() string {
	return "allowlist_entries"
}

// ============================================================
// Halls & Sessions
// ============================================================

// Hall represents the halls table.
type Hall struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Code          string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Capacity      int            `gorm:"default:0" json:"capacity"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	IsFoodCounter bool           `gorm:"default:false" json:"is_food_counter"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Hall) TableName() string {
	return "halls"
}

// HallSession represents one contiguous presence of a student in a hall.
// At most one session per student may have exit_time NULL; scans for a
// student run under a row lock on that student to keep this true.
type HallSession struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StudentID uint       `gorm:"not null;index:idx_student_open" json:"student_id"`
	HallID    uint       `gorm:"not null;index" json:"hall_id"`
	EntryTime time.Time  `gorm:"not null" json:"entry_time"`
	ExitTime  *time.Time `gorm:"index:idx_student_open" json:"exit_time"`
	Date      string     `gorm:"size:10;not null;index" json:"date"`
	DayIndex  int        `gorm:"not null;index" json:"day_index"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Hall    *Hall    `gorm:"foreignKey:HallID;constraint:OnDelete:CASCADE" json:"hall,omitempty"`
}

func (HallSession) TableName() string {
	return "hall_sessions"
}

// IsOpen reports whether the student is still inside the hall.
func (s *HallSession) IsOpen() bool {
	return s.ExitTime == nil
}

// ============================================================
// Food Claims
// ============================================================

// FoodClaim represents the food_claims table. The composite unique index on
// (student_id, date) is the business rule itself — one claim per student per
// day — not a performance index. A duplicate-key error on insert means
// someone else already claimed.
type FoodClaim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_food_student_date" json:"student_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_food_student_date" json:"date"`
	Time      time.Time `gorm:"not null" json:"time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (FoodClaim) TableName() string {
	return "food_claims"
}

// ============================================================
// Audit Trail
// ============================================================

// AuditRecord represents the audit_records table. Append-only; written
// asynchronously and never rolled back with the primary operation.
type AuditRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActorID    uint      `gorm:"index" json:"actor_id"`
	ActorName  string    `gorm:"size:100" json:"actor_name"`
	ActorRole  string    `gorm:"size:20" json:"actor_role"`
	Action     string    `gorm:"size:30;not null;index" json:"action"`
	Resource   string    `gorm:"size:30;not null" json:"resource"`
	ResourceID string    `gorm:"size:50;index" json:"resource_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:50" json:"ip_address"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}

// ============================================================
// Staff & Auth
// ============================================================

// StaffUser represents the staff_users table (admins and volunteers).
type StaffUser struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'VOLUNTEER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}

// StaffResponse DTO
type StaffResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *StaffUser) ToResponse() *StaffResponse {
	return &StaffResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StaffID   uint       `gorm:"index;not null" json:"staff_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Staff     StaffUser  `gorm:"foreignKey:StaffID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Student{},
		&AllowlistEntry{},
		&Hall{},
		&HallSession{},
		&FoodClaim{},
		&AuditRecord{},
		&StaffUser{},
		&RefreshToken{},
	)
}
