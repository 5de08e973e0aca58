package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tms/internal/model"
)

const insertBatchSize = 100

// TestCaseRepository defines test case persistence operations.
type TestCaseRepository interface {
	Create(ctx context.Context, tc *model.TestCase) error
	CreateBatch(ctx context.Context, tcs []model.TestCase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TestCase, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TestCase, error)
	// List returns test cases in the given folders, or every test case when folderIDs is nil,
	// ordered by sequence.
	List(ctx context.Context, folderIDs []uuid.UUID) ([]model.TestCase, error)
	// ListScope returns the test cases of one sequence scope ordered by (sequence, case number).
	ListScope(ctx context.Context, folderID *uuid.UUID) ([]model.TestCase, error)
	// MaxSequence returns the highest sequence in a scope, ignoring excludeIDs. 0 for an empty scope.
	MaxSequence(ctx context.Context, folderID *uuid.UUID, excludeIDs []uuid.UUID) (int, error)
	MaxCaseNumber(ctx context.Context) (int64, error)
	UpdateSequence(ctx context.Context, id uuid.UUID, sequence int) error
	UpdatePlacement(ctx context.Context, id uuid.UUID, folderID *uuid.UUID, sequence int) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	BulkUpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type testCaseRepository struct {
	db *gorm.DB
}

func (r *testCaseRepository) Create(ctx context.Context, tc *model.TestCase) error {
	return r.db.WithContext(ctx).Create(tc).Error
}

func (r *testCaseRepository) CreateBatch(ctx context.Context, tcs []model.TestCase) error {
	if len(tcs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(tcs, insertBatchSize).Error
}

func (r *testCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TestCase, error) {
	var tc model.TestCase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tc).Error; err != nil {
		return nil, err
	}
	return &tc, nil
}

func (r *testCaseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.TestCase, error) {
	var tcs []model.TestCase
	if len(ids) == 0 {
		return tcs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tcs).Error; err != nil {
		return nil, err
	}
	return tcs, nil
}

func (r *testCaseRepository) List(ctx context.Context, folderIDs []uuid.UUID) ([]model.TestCase, error) {
	var tcs []model.TestCase
	q := r.db.WithContext(ctx)
	if folderIDs != nil {
		if len(folderIDs) == 0 {
			return tcs, nil
		}
		q = q.Where("folder_id IN ?", folderIDs)
	}
	if err := q.Order("sequence ASC").Order("case_number ASC").Find(&tcs).Error; err != nil {
		return nil, err
	}
	return tcs, nil
}

func (r *testCaseRepository) ListScope(ctx context.Context, folderID *uuid.UUID) ([]model.TestCase, error) {
	var tcs []model.TestCase
	err := r.db.WithContext(ctx).
		Where(folderScope(folderID)).
		Order("sequence ASC").
		Order("case_number ASC").
		Find(&tcs).Error
	if err != nil {
		return nil, err
	}
	return tcs, nil
}

func (r *testCaseRepository) MaxSequence(ctx context.Context, folderID *uuid.UUID, excludeIDs []uuid.UUID) (int, error) {
	var maxSeq int
	q := r.db.WithContext(ctx).Model(&model.TestCase{}).Where(folderScope(folderID))
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	if err := q.Select("COALESCE(MAX(sequence), 0)").Scan(&maxSeq).Error; err != nil {
		return 0, err
	}
	return maxSeq, nil
}

func (r *testCaseRepository) MaxCaseNumber(ctx context.Context) (int64, error) {
	var maxNumber int64
	err := r.db.WithContext(ctx).Model(&model.TestCase{}).
		Select("COALESCE(MAX(case_number), 0)").
		Scan(&maxNumber).Error
	return maxNumber, err
}

func (r *testCaseRepository) UpdateSequence(ctx context.Context, id uuid.UUID, sequence int) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"sequence": sequence})
}

func (r *testCaseRepository) UpdatePlacement(ctx context.Context, id uuid.UUID, folderID *uuid.UUID, sequence int) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"folder_id": folderValue(folderID),
		"sequence":  sequence,
	})
}

// UpdateFields updates the given columns of one test case.
// It returns gorm.ErrRecordNotFound when the id does not resolve.
func (r *testCaseRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.TestCase{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&model.TestCase{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *testCaseRepository) BulkUpdateFields(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(fields) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.TestCase{}).Where("id IN ?", ids).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *testCaseRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.TestCase{})
	return res.RowsAffected, res.Error
}
