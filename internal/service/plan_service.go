package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

const unknownCreator = "Unknown"

// CreatePlanInput carries the fields of a new plan.
type CreatePlanInput struct {
	Name        string
	Description *string
	TestCaseIDs []uuid.UUID
	Assignee    *string
	CreatedBy   string
}

// UpdatePlanInput is a patch of plan metadata.
type UpdatePlanInput struct {
	Name        *string
	Description model.Optional[string]
	Status      *model.PlanStatus
}

// UpdateItemInput is a patch of one plan item.
type UpdateItemInput struct {
	Result  *model.Result
	Comment model.Optional[string]
}

// PlanService handles plans and their items.
type PlanService interface {
	Create(ctx context.Context, in CreatePlanInput) (*model.Plan, error)
	List(ctx context.Context, status string) ([]model.Plan, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	Update(ctx context.Context, id uuid.UUID, in UpdatePlanInput) (*model.Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Rerun(ctx context.Context, id uuid.UUID, createdBy string) (*model.Plan, error)
	UpdateItem(ctx context.Context, planID, itemID uuid.UUID, in UpdateItemInput) (*model.PlanItem, error)
	BulkUpdateItems(ctx context.Context, planID uuid.UUID, itemIDs []uuid.UUID, result model.Result, comment model.Optional[string]) (int, error)
}

type planService struct {
	store repository.Store
	now   func() time.Time
}

// NewPlanService creates a new plan service.
func NewPlanService(store repository.Store) PlanService {
	return &planService{store: store, now: time.Now}
}

// Create stores the plan and one NOT_RUN item per distinct test case in one transaction.
func (s *planService) Create(ctx context.Context, in CreatePlanInput) (*model.Plan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("plan name is required")
	}
	ids := uniqueIDs(in.TestCaseIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("testCaseIds must not be empty")
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = unknownCreator
	}

	plan := &model.Plan{
		Name:        name,
		Description: in.Description,
		Status:      model.PlanStatusActive,
		CreatedBy:   createdBy,
	}
	assignee := emptyToNil(in.Assignee)

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := findAll(ctx, tx, ids); err != nil {
			return err
		}
		if err := tx.Plans().Create(ctx, plan); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}

		items := make([]model.PlanItem, len(ids))
		for i, id := range ids {
			items[i] = model.PlanItem{
				PlanID:     plan.ID,
				TestCaseID: id,
				Assignee:   assignee,
				Result:     model.ResultNotRun,
			}
		}
		if err := tx.Plans().CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create plan items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// List returns plans newest first, each with aggregated item stats. An empty status lists all.
func (s *planService) List(ctx context.Context, status string) ([]model.Plan, error) {
	var filter *model.PlanStatus
	if status != "" {
		st := model.PlanStatus(strings.ToUpper(status))
		if !st.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q", status))
		}
		filter = &st
	}

	plans, err := s.store.Plans().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	ids := make([]uuid.UUID, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	counts, err := s.store.Stats().ResultCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	for i := range plans {
		stats := ComputePlanStats(counts[plans[i].ID])
		plans[i].Stats = &stats
	}
	return plans, nil
}

// Get returns the plan with its items ordered by test case sequence.
func (s *planService) Get(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	plan, err := s.store.Plans().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPlanNotFound)
	}
	items, err := s.store.Plans().ListItemsWithTestCases(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list plan items: %w", err)
	}
	plan.Items = items
	stats := ComputePlanStats(countResults(items))
	plan.Stats = &stats
	return plan, nil
}

func (s *planService) Update(ctx context.Context, id uuid.UUID, in UpdatePlanInput) (*model.Plan, error) {
	fields := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("plan name must not be empty")
		}
		fields["name"] = name
	}
	if in.Description.Set {
		fields["description"] = nullable(in.Description.Value)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q", *in.Status))
		}
		fields["status"] = *in.Status
	}
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	if err := s.store.Plans().Update(ctx, id, fields); err != nil {
		return nil, notFound(err, apperrors.ErrPlanNotFound)
	}
	plan, err := s.store.Plans().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPlanNotFound)
	}
	return plan, nil
}

// Delete removes a plan and its items.
func (s *planService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Plans().Delete(ctx, id); err != nil {
			return notFound(err, apperrors.ErrPlanNotFound)
		}
		return nil
	})
}

// Rerun copies a plan into a new ACTIVE plan with the same test cases and assignees and
// every result reset to NOT_RUN.
func (s *planService) Rerun(ctx context.Context, id uuid.UUID, createdBy string) (*model.Plan, error) {
	if createdBy == "" {
		createdBy = unknownCreator
	}

	var plan *model.Plan
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		source, err := tx.Plans().FindByID(ctx, id)
		if err != nil {
			return notFound(err, apperrors.ErrPlanNotFound)
		}
		items, err := tx.Plans().ListItems(ctx, id)
		if err != nil {
			return fmt.Errorf("list plan items: %w", err)
		}

		plan = &model.Plan{
			Name:        source.Name + " (rerun)",
			Description: source.Description,
			Status:      model.PlanStatusActive,
			CreatedBy:   createdBy,
		}
		if err := tx.Plans().Create(ctx, plan); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}

		copies := make([]model.PlanItem, len(items))
		for i, item := range items {
			copies[i] = model.PlanItem{
				PlanID:     plan.ID,
				TestCaseID: item.TestCaseID,
				Assignee:   item.Assignee,
				Result:     model.ResultNotRun,
			}
		}
		if err := tx.Plans().CreateItems(ctx, copies); err != nil {
			return fmt.Errorf("create plan items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdateItem changes one item's result and/or comment. A result other than NOT_RUN stamps
// executedAt; going back to NOT_RUN keeps the previous timestamp.
func (s *planService) UpdateItem(ctx context.Context, planID, itemID uuid.UUID, in UpdateItemInput) (*model.PlanItem, error) {
	if in.Result != nil && !in.Result.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid result %q", *in.Result))
	}

	if _, err := s.store.Plans().FindItem(ctx, planID, itemID); err != nil {
		return nil, notFound(err, apperrors.ErrPlanItemNotFound)
	}

	fields := make(map[string]interface{})
	if in.Result != nil {
		s.applyResult(fields, *in.Result)
	}
	if in.Comment.Set {
		fields["comment"] = nullable(in.Comment.Value)
	}
	if err := s.store.Plans().UpdateItem(ctx, planID, itemID, fields); err != nil {
		return nil, fmt.Errorf("update plan item: %w", err)
	}

	item, err := s.store.Plans().FindItem(ctx, planID, itemID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPlanItemNotFound)
	}
	return item, nil
}

// BulkUpdateItems sets result (and comment when given) on the listed items that belong to
// planID. It returns the number of items modified.
func (s *planService) BulkUpdateItems(ctx context.Context, planID uuid.UUID, itemIDs []uuid.UUID, result model.Result, comment model.Optional[string]) (int, error) {
	itemIDs = uniqueIDs(itemIDs)
	if len(itemIDs) == 0 {
		return 0, apperrors.NewValidationError("items must not be empty")
	}
	if result == "" {
		return 0, apperrors.NewValidationError("result is required")
	}
	if !result.Valid() {
		return 0, apperrors.NewValidationError(fmt.Sprintf("invalid result %q", result))
	}

	fields := make(map[string]interface{})
	s.applyResult(fields, result)
	if comment.Set {
		fields["comment"] = nullable(comment.Value)
	}

	n, err := s.store.Plans().BulkUpdateItems(ctx, planID, itemIDs, fields)
	if err != nil {
		return 0, fmt.Errorf("bulk update plan items: %w", err)
	}
	return int(n), nil
}

func (s *planService) applyResult(fields map[string]interface{}, result model.Result) {
	fields["result"] = result
	if result != model.ResultNotRun {
		fields["executed_at"] = s.now()
	}
}
