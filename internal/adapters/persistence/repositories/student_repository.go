package repositories

import (
	"context"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// studentRepository implements StudentRepository
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// Create creates a new student
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// GetByID gets a student by ID
func (r *studentRepository) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByEventID gets a student by event credential
func (r *studentRepository) GetByEventID(ctx context.Context, eventID string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Update updates a student
func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete soft deletes a student
func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Student{}, id).Error
}

// List lists students with optional search and pagination
func (r *studentRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Student, int64, error) {
	var students []*models.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Student{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ? OR event_id LIKE ?", like, like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// ExistsByPhone checks if a phone number is already registered
func (r *studentRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if an email is already registered
func (r *studentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
