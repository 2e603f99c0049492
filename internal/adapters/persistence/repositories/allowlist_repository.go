package repositories

import (
	"context"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allowlistRepository implements AllowlistRepository
type allowlistRepository struct {
	db *gorm.DB
}

// NewAllowlistRepository creates a new allowlist repository
func NewAllowlistRepository(db *gorm.DB) AllowlistRepository {
	return &allowlistRepository{db: db}
}

// ExistsByPhone checks whether a normalized phone is on the roster
func (r *allowlistRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AllowlistEntry{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

// Upsert inserts a roster entry, updating the name on conflict so the
// roster can be re-seeded from a fresh CSV without duplicates.
func (r *allowlistRepository) Upsert(ctx context.Context, entry *models.AllowlistEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(entry).Error
}

// Count returns the roster size
func (r *allowlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AllowlistEntry{}).Count(&count).Error
	return count, err
}
