package database

import (
	"appgate/internal/types"
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (a auditRepository) Save(ctx context.Context, record *types.AuditRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return a.db.WithContext(ctx).Create(record).Error
}

func (a auditRepository) FindRecent(ctx context.Context, limit int) ([]*types.AuditRecord, error) {
	var values []*types.AuditRecord
	query := a.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
