package repositories

import (
	"context"

	"eventpass/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// auditRepository implements AuditRepository
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Create appends an audit record
func (r *auditRepository) Create(ctx context.Context, record *models.AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// List returns audit records newest-first with optional filters
func (r *auditRepository) List(ctx context.Context, filter AuditFilter, offset, limit int) ([]models.AuditRecord, int64, error) {
	var records []models.AuditRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditRecord{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ActorID != 0 {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
