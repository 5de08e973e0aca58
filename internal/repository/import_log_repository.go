package repository

import (
	"context"

	"gorm.io/gorm"

	"tms/internal/model"
)

// ImportLogRepository stores CSV import outcomes.
type ImportLogRepository interface {
	Create(ctx context.Context, log *model.ImportLog) error
	ListRecent(ctx context.Context, limit int) ([]model.ImportLog, error)
}

type importLogRepository struct {
	db *gorm.DB
}

func (r *importLogRepository) Create(ctx context.Context, log *model.ImportLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *importLogRepository) ListRecent(ctx context.Context, limit int) ([]model.ImportLog, error) {
	var logs []model.ImportLog
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
