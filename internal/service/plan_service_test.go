package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

func setupPlan(t *testing.T, n int) (repository.Store, PlanService, *model.Plan, []*model.TestCase) {
	t.Helper()
	store := newTestStore(t)
	svc := newCaseService(store)
	cases := make([]*model.TestCase, n)
	ids := make([]uuid.UUID, n)
	for i := range cases {
		cases[i] = mustCase(t, svc, string(rune('a'+i)), nil)
		ids[i] = cases[i].ID
	}
	plans := NewPlanService(store)
	plan, err := plans.Create(context.Background(), CreatePlanInput{
		Name:        "Sprint 1",
		TestCaseIDs: ids,
		Assignee:    ptr("alice"),
		CreatedBy:   "bob",
	})
	require.NoError(t, err)
	return store, plans, plan, cases
}

func TestPlanService_Create(t *testing.T) {
	store, plans, plan, cases := setupPlan(t, 3)
	ctx := context.Background()

	assert.Equal(t, model.PlanStatusActive, plan.Status)
	assert.Equal(t, "bob", plan.CreatedBy)

	items, err := store.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, model.ResultNotRun, item.Result)
		require.NotNil(t, item.Assignee)
		assert.Equal(t, "alice", *item.Assignee)
	}

	dup, err := plans.Create(ctx, CreatePlanInput{Name: "dup", TestCaseIDs: []uuid.UUID{cases[0].ID, cases[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, unknownCreator, dup.CreatedBy)
	items, err = store.Plans().ListItems(ctx, dup.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "duplicate ids collapse")

	_, err = plans.Create(ctx, CreatePlanInput{Name: "bad", TestCaseIDs: []uuid.UUID{cases[1].ID, uuid.New()}})
	assert.ErrorIs(t, err, apperrors.ErrTestCaseNotFound)

	_, err = plans.Create(ctx, CreatePlanInput{Name: "  ", TestCaseIDs: []uuid.UUID{cases[1].ID}})
	assert.True(t, apperrors.IsValidation(err))

	_, err = plans.Create(ctx, CreatePlanInput{Name: "empty"})
	assert.True(t, apperrors.IsValidation(err))

	all, err := store.Plans().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "failed creations leave nothing behind")
}

func TestPlanService_CreateRollsBackOnItemFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	rows := sqlmock.NewRows([]string{"id", "case_number", "title", "sequence", "priority", "automation_type"})
	for i, id := range ids {
		rows.AddRow(id.String(), i+1, "case", i+1, "MEDIUM", "MANUAL")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `test_cases`").WillReturnRows(rows)
	mock.ExpectExec("INSERT INTO `plans`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `plan_items`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	plans := NewPlanService(repository.NewStore(gormDB))
	plan, err := plans.Create(context.Background(), CreatePlanInput{Name: "p", TestCaseIDs: ids})

	require.Error(t, err)
	assert.Nil(t, plan)
	assert.Contains(t, err.Error(), "create plan items")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanService_ListAndGet(t *testing.T) {
	store, plans, plan, cases := setupPlan(t, 4)
	ctx := context.Background()

	items, err := store.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	byCase := map[uuid.UUID]uuid.UUID{}
	for _, item := range items {
		byCase[item.TestCaseID] = item.ID
	}

	results := []model.Result{model.ResultPass, model.ResultPass, model.ResultFail}
	for i, r := range results {
		_, err := plans.UpdateItem(ctx, plan.ID, byCase[cases[i].ID], UpdateItemInput{Result: ptr(r)})
		require.NoError(t, err)
	}

	list, err := plans.List(ctx, "active")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Stats)
	assert.Equal(t, model.PlanStats{Total: 4, Pass: 2, Fail: 1, NotRun: 1, Progress: 75}, *list[0].Stats)

	archived, err := plans.List(ctx, "ARCHIVED")
	require.NoError(t, err)
	assert.Empty(t, archived)

	_, err = plans.List(ctx, "DONE")
	assert.True(t, apperrors.IsValidation(err))

	detail, err := plans.Get(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 4)
	for i, item := range detail.Items {
		require.NotNil(t, item.TestCase)
		assert.Equal(t, cases[i].ID, item.TestCase.ID, "items follow test case sequence")
	}
	assert.Equal(t, 75, detail.Stats.Progress)

	_, err = plans.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrPlanNotFound)
}

func TestPlanService_UpdateItem(t *testing.T) {
	store, plans, plan, _ := setupPlan(t, 1)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	plans.(*planService).now = func() time.Time { return fixed }

	items, err := store.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	itemID := items[0].ID

	item, err := plans.UpdateItem(ctx, plan.ID, itemID, UpdateItemInput{
		Result:  ptr(model.ResultFail),
		Comment: model.Some("button missing"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ResultFail, item.Result)
	require.NotNil(t, item.ExecutedAt)
	assert.True(t, fixed.Equal(*item.ExecutedAt))
	require.NotNil(t, item.Comment)
	assert.Equal(t, "button missing", *item.Comment)

	item, err = plans.UpdateItem(ctx, plan.ID, itemID, UpdateItemInput{Result: ptr(model.ResultNotRun)})
	require.NoError(t, err)
	assert.Equal(t, model.ResultNotRun, item.Result)
	assert.NotNil(t, item.ExecutedAt, "executedAt is kept when going back to NOT_RUN")

	_, err = plans.UpdateItem(ctx, uuid.New(), itemID, UpdateItemInput{Result: ptr(model.ResultPass)})
	assert.ErrorIs(t, err, apperrors.ErrPlanItemNotFound, "items are scoped to their plan")

	_, err = plans.UpdateItem(ctx, plan.ID, itemID, UpdateItemInput{Result: ptr(model.Result("SKIPPED"))})
	assert.True(t, apperrors.IsValidation(err))
}

func TestPlanService_BulkUpdateItemsIsScopedToPlan(t *testing.T) {
	store, plans, plan, _ := setupPlan(t, 3)
	ctx := context.Background()

	items, err := store.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	ids := []uuid.UUID{items[0].ID, items[1].ID}

	n, err := plans.BulkUpdateItems(ctx, uuid.New(), ids, model.ResultPass, model.Optional[string]{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = plans.BulkUpdateItems(ctx, plan.ID, ids, model.ResultBlock, model.Some("env down"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	detail, err := plans.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Stats.Block)

	_, err = plans.BulkUpdateItems(ctx, plan.ID, nil, model.ResultPass, model.Optional[string]{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestPlanService_UpdateDeleteRerun(t *testing.T) {
	store, plans, plan, _ := setupPlan(t, 2)
	ctx := context.Background()

	updated, err := plans.Update(ctx, plan.ID, UpdatePlanInput{
		Name:   ptr("Sprint 1 final"),
		Status: ptr(model.PlanStatusArchived),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1 final", updated.Name)
	assert.Equal(t, model.PlanStatusArchived, updated.Status)

	_, err = plans.Update(ctx, plan.ID, UpdatePlanInput{})
	assert.True(t, apperrors.IsValidation(err))

	items, err := store.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	_, err = plans.BulkUpdateItems(ctx, plan.ID, []uuid.UUID{items[0].ID}, model.ResultPass, model.Optional[string]{})
	require.NoError(t, err)

	rerun, err := plans.Rerun(ctx, plan.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1 final (rerun)", rerun.Name)
	assert.Equal(t, model.PlanStatusActive, rerun.Status)
	assert.Equal(t, "carol", rerun.CreatedBy)

	copies, err := store.Plans().ListItems(ctx, rerun.ID)
	require.NoError(t, err)
	require.Len(t, copies, 2)
	for _, item := range copies {
		assert.Equal(t, model.ResultNotRun, item.Result)
		assert.Nil(t, item.ExecutedAt)
		require.NotNil(t, item.Assignee)
		assert.Equal(t, "alice", *item.Assignee)
	}

	require.NoError(t, plans.Delete(ctx, plan.ID))
	assert.ErrorIs(t, plans.Delete(ctx, plan.ID), apperrors.ErrPlanNotFound)

	left, err := store.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = plans.Rerun(ctx, plan.ID, "carol")
	assert.ErrorIs(t, err, apperrors.ErrPlanNotFound)
}
