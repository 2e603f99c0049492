package repositories

import (
	"context"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// foodRepository implements FoodRepository
type foodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new food claim repository
func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

// GetByStudentAndDate returns the student's claim for a day, or nil
func (r *foodRepository) GetByStudentAndDate(ctx context.Context, studentID uint, date string) (*models.FoodClaim, error) {
	var claim models.FoodClaim
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		First(&claim).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// Create inserts a claim. When two scans race, the (student_id, date)
// unique index lets exactly one through; the loser gets
// gorm.ErrDuplicatedKey and must treat it as "already claimed".
func (r *foodRepository) Create(ctx context.Context, claim *models.FoodClaim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

// CountByDate counts claims for a day
func (r *foodRepository) CountByDate(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FoodClaim{}).
		Where("date = ?", date).
		Count(&count).Error
	return count, err
}
