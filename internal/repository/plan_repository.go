package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tms/internal/model"
)

// PlanRepository defines plan and plan item persistence operations.
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	CreateItems(ctx context.Context, items []model.PlanItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	// List returns plans ordered by creation time, newest first. A nil status lists all plans.
	List(ctx context.Context, status *model.PlanStatus) ([]model.Plan, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, planID uuid.UUID) ([]model.PlanItem, error)
	// ListItemsWithTestCases returns the plan's items with their test cases, ordered by the
	// test case's sequence then case number.
	ListItemsWithTestCases(ctx context.Context, planID uuid.UUID) ([]model.PlanItem, error)
	FindItem(ctx context.Context, planID, itemID uuid.UUID) (*model.PlanItem, error)
	UpdateItem(ctx context.Context, planID, itemID uuid.UUID, fields map[string]interface{}) error
	BulkUpdateItems(ctx context.Context, planID uuid.UUID, itemIDs []uuid.UUID, fields map[string]interface{}) (int64, error)
	DeleteItemsByTestCases(ctx context.Context, testCaseIDs []uuid.UUID) (int64, error)
	RenameAssignee(ctx context.Context, from, to string) (int64, error)

	ListAssigned(ctx context.Context, assignee string, results []model.Result, limit int) ([]model.PlanItem, error)
	ListRecentlyExecuted(ctx context.Context, limit int) ([]model.PlanItem, error)
}

type planRepository struct {
	db *gorm.DB
}

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Omit("Items").Create(plan).Error
}

func (r *planRepository) CreateItems(ctx context.Context, items []model.PlanItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("TestCase", "Plan").CreateInBatches(items, insertBatchSize).Error
}

func (r *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) List(ctx context.Context, status *model.PlanStatus) ([]model.Plan, error) {
	var plans []model.Plan
	q := r.db.WithContext(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("created_at DESC").Order("id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Plan{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a plan and its items. Items are deleted explicitly so the result does not
// depend on the database enforcing ON DELETE CASCADE.
func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("plan_id = ?", id).Delete(&model.PlanItem{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Plan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *planRepository) ListItems(ctx context.Context, planID uuid.UUID) ([]model.PlanItem, error) {
	var items []model.PlanItem
	if err := r.db.WithContext(ctx).Where("plan_id = ?", planID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *planRepository) ListItemsWithTestCases(ctx context.Context, planID uuid.UUID) ([]model.PlanItem, error) {
	var items []model.PlanItem
	err := r.db.WithContext(ctx).
		Select("plan_items.*").
		Joins("JOIN test_cases ON test_cases.id = plan_items.test_case_id").
		Where("plan_items.plan_id = ?", planID).
		Order("test_cases.sequence ASC").
		Order("test_cases.case_number ASC").
		Preload("TestCase").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *planRepository) FindItem(ctx context.Context, planID, itemID uuid.UUID) (*model.PlanItem, error) {
	var item model.PlanItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND plan_id = ?", itemID, planID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *planRepository) UpdateItem(ctx context.Context, planID, itemID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.PlanItem{}).
		Where("id = ? AND plan_id = ?", itemID, planID).
		Updates(fields).Error
}

func (r *planRepository) BulkUpdateItems(ctx context.Context, planID uuid.UUID, itemIDs []uuid.UUID, fields map[string]interface{}) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.PlanItem{}).
		Where("plan_id = ? AND id IN ?", planID, itemIDs).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *planRepository) DeleteItemsByTestCases(ctx context.Context, testCaseIDs []uuid.UUID) (int64, error) {
	if len(testCaseIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("test_case_id IN ?", testCaseIDs).Delete(&model.PlanItem{})
	return res.RowsAffected, res.Error
}

func (r *planRepository) RenameAssignee(ctx context.Context, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.PlanItem{}).
		Where("assignee = ?", from).
		Update("assignee", to)
	return res.RowsAffected, res.Error
}

func (r *planRepository) ListAssigned(ctx context.Context, assignee string, results []model.Result, limit int) ([]model.PlanItem, error) {
	var items []model.PlanItem
	err := r.db.WithContext(ctx).
		Where("assignee = ? AND result IN ?", assignee, results).
		Preload("TestCase", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "case_number", "title", "priority")
		}).
		Preload("Plan", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("updated_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *planRepository) ListRecentlyExecuted(ctx context.Context, limit int) ([]model.PlanItem, error) {
	var items []model.PlanItem
	err := r.db.WithContext(ctx).
		Where("executed_at IS NOT NULL").
		Preload("TestCase", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "case_number", "title")
		}).
		Preload("Plan", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("executed_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
