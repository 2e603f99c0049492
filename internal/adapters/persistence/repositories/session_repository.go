package repositories

import (
	"context"
	"time"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements SessionRepository
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new hall session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Transaction runs fn against a repository bound to one database
// transaction. The scan engine does its read-decide-write cycle here.
func (r *sessionRepository) Transaction(ctx context.Context, fn func(tx SessionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&sessionRepository{db: tx})
	})
}

// LockStudent takes a FOR UPDATE lock on the student row, serializing
// concurrent scans for the same student for the rest of the transaction.
// MySQL has no partial unique indexes, so this lock is what enforces the
// single-open-session invariant.
func (r *sessionRepository) LockStudent(ctx context.Context, studentID uint) error {
	var student models.Student
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&student, studentID).Error
}

// GetOpenByStudent returns the student's open session with its hall
// preloaded, or nil when the student is outside.
func (r *sessionRepository) GetOpenByStudent(ctx context.Context, studentID uint) (*models.HallSession, error) {
	var session models.HallSession
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Where("student_id = ? AND exit_time IS NULL", studentID).
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create opens a new session
func (r *sessionRepository) Create(ctx context.Context, session *models.HallSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// Close stamps the exit time on a session
func (r *sessionRepository) Close(ctx context.Context, sessionID uint, exitTime time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.HallSession{}).
		Where("id = ?", sessionID).
		Update("exit_time", exitTime).Error
}

// CountOpenByStudent counts open sessions for a student
func (r *sessionRepository) CountOpenByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HallSession{}).
		Where("student_id = ? AND exit_time IS NULL", studentID).
		Count(&count).Error
	return count, err
}

// OccupancyByHall returns, for every hall, how many students are inside
func (r *sessionRepository) OccupancyByHall(ctx context.Context) ([]HallOccupancy, error) {
	var rows []HallOccupancy
	err := r.db.WithContext(ctx).
		Model(&models.Hall{}).
		Select("halls.id AS hall_id, halls.name AS hall_name, halls.code AS hall_code, halls.capacity AS capacity, COUNT(hall_sessions.id) AS inside").
		Joins("LEFT JOIN hall_sessions ON hall_sessions.hall_id = halls.id AND hall_sessions.exit_time IS NULL").
		Group("halls.id, halls.name, halls.code, halls.capacity").
		Order("halls.code ASC").
		Find(&rows).Error
	return rows, err
}

// CountByDate counts sessions opened on a given event day
func (r *sessionRepository) CountByDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HallSession{}).
		Where("date = ?", date).
		Count(&count).Error
	return count, err
}

// CountClosedByDate counts sessions opened and already exited on a given day
func (r *sessionRepository) CountClosedByDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HallSession{}).
		Where("date = ? AND exit_time IS NOT NULL", date).
		Count(&count).Error
	return count, err
}
