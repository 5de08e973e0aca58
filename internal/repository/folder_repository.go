package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tms/internal/model"
)

// FolderRepository defines folder persistence operations.
type FolderRepository interface {
	Create(ctx context.Context, folder *model.Folder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Folder, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// ListAll returns every folder ordered by name.
	ListAll(ctx context.Context) ([]model.Folder, error)
}

type folderRepository struct {
	db *gorm.DB
}

func (r *folderRepository) Create(ctx context.Context, folder *model.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *folderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Folder, error) {
	var folder model.Folder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Folder{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *folderRepository) ListAll(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}
