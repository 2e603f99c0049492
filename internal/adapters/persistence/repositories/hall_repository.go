package repositories

import (
	"context"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// hallRepository implements HallRepository
type hallRepository struct {
	db *gorm.DB
}

// NewHallRepository creates a new hall repository
func NewHallRepository(db *gorm.DB) HallRepository {
	return &hallRepository{db: db}
}

// Create creates a new hall
func (r *hallRepository) Create(ctx context.Context, hall *models.Hall) error {
	return r.db.WithContext(ctx).Create(hall).Error
}

// GetByID gets a hall by ID
func (r *hallRepository) GetByID(ctx context.Context, id uint) (*models.Hall, error) {
	var hall models.Hall
	err := r.db.WithContext(ctx).First(&hall, id).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

// GetByCode gets a hall by its scan code, active or not. Callers decide
// what an inactive hall means for them.
func (r *hallRepository) GetByCode(ctx context.Context, code string) (*models.Hall, error) {
	var hall models.Hall
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&hall).Error
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

// Update updates a hall
func (r *hallRepository) Update(ctx context.Context, hall *models.Hall) error {
	return r.db.WithContext(ctx).Save(hall).Error
}

// Delete soft deletes a hall
func (r *hallRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Hall{}, id).Error
}

// List lists halls, optionally including inactive ones
func (r *hallRepository) List(ctx context.Context, includeInactive bool) ([]models.Hall, error) {
	var halls []models.Hall
	query := r.db.WithContext(ctx)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("code ASC").Find(&halls).Error
	return halls, err
}
