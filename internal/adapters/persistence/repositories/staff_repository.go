package repositories

import (
	"context"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// staffRepository implements StaffRepository
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create creates a new staff user
func (r *staffRepository) Create(ctx context.Context, staff *models.StaffUser) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetByID gets a staff user by ID
func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByUsername gets a staff user by username
func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// Update updates a staff user
func (r *staffRepository) Update(ctx context.Context, staff *models.StaffUser) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

// Delete soft deletes a staff user
func (r *staffRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.StaffUser{}, id).Error
}

// List lists all staff users
func (r *staffRepository) List(ctx context.Context) ([]*models.StaffUser, error) {
	var staff []*models.StaffUser
	err := r.db.WithContext(ctx).Order("id ASC").Find(&staff).Error
	return staff, err
}

// ExistsByUsername checks if a username exists
func (r *staffRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StaffUser{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if an email exists
func (r *staffRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StaffUser{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CountByRole counts staff users holding a role
func (r *staffRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StaffUser{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
