package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/internal/db/dbtest"
	"tms/internal/model"
)

func newStore(t *testing.T) Store {
	return NewStore(dbtest.New(t))
}

func createCase(t *testing.T, s Store, folderID *uuid.UUID, seq int, number int64) model.TestCase {
	t.Helper()
	tc := model.TestCase{
		Title:          "case",
		CaseNumber:     number,
		FolderID:       folderID,
		Sequence:       seq,
		Priority:       model.PriorityMedium,
		AutomationType: model.AutomationManual,
	}
	require.NoError(t, s.TestCases().Create(context.Background(), &tc))
	return tc
}

func TestTestCaseRepository_Scopes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	folder := model.Folder{Name: "API"}
	require.NoError(t, s.Folders().Create(ctx, &folder))

	r1 := createCase(t, s, nil, 1, 1)
	createCase(t, s, nil, 2, 2)
	f1 := createCase(t, s, &folder.ID, 5, 3)

	maxRoot, err := s.TestCases().MaxSequence(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, maxRoot)

	maxFolder, err := s.TestCases().MaxSequence(ctx, &folder.ID, []uuid.UUID{f1.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, maxFolder, "excluded ids are ignored")

	root, err := s.TestCases().ListScope(ctx, nil)
	require.NoError(t, err)
	require.Len(t, root, 2)
	assert.Equal(t, r1.ID, root[0].ID)

	require.NoError(t, s.TestCases().UpdatePlacement(ctx, r1.ID, &folder.ID, 6))
	moved, err := s.TestCases().FindByID(ctx, r1.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.FolderID)
	assert.Equal(t, folder.ID, *moved.FolderID)

	require.NoError(t, s.TestCases().UpdatePlacement(ctx, r1.ID, nil, 3))
	moved, err = s.TestCases().FindByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Nil(t, moved.FolderID)

	maxNumber, err := s.TestCases().MaxCaseNumber(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, maxNumber)

	err = s.TestCases().UpdateSequence(ctx, uuid.New(), 1)
	assert.Error(t, err)
}

func TestCounterRepository_LockAndValue(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	err := s.WithTransaction(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Counters().Lock(ctx, "scope:b", "scope:a", "scope:a"); err != nil {
			return err
		}
		v, err := tx.Counters().LockValue(ctx, model.CaseNumberCounter)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 0, v)
		return tx.Counters().SetValue(ctx, model.CaseNumberCounter, 42)
	})
	require.NoError(t, err)

	v, err := s.Counters().Value(ctx, model.CaseNumberCounter)
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)

	missing, err := s.Counters().Value(ctx, "scope:none")
	require.NoError(t, err)
	assert.EqualValues(t, 0, missing)
}

func TestPlanRepository_ItemsOrderedBySequence(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	late := createCase(t, s, nil, 2, 1)
	early := createCase(t, s, nil, 1, 2)

	plan := model.Plan{Name: "Smoke", Status: model.PlanStatusActive, CreatedBy: "qa@example.com"}
	require.NoError(t, s.Plans().Create(ctx, &plan))
	require.NoError(t, s.Plans().CreateItems(ctx, []model.PlanItem{
		{PlanID: plan.ID, TestCaseID: late.ID, Result: model.ResultNotRun},
		{PlanID: plan.ID, TestCaseID: early.ID, Result: model.ResultNotRun},
	}))

	items, err := s.Plans().ListItemsWithTestCases(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, early.ID, items[0].TestCaseID)
	require.NotNil(t, items[0].TestCase)
	assert.Equal(t, early.ID, items[0].TestCase.ID)

	_, err = s.Plans().FindItem(ctx, uuid.New(), items[0].ID)
	assert.Error(t, err, "items resolve only within their plan")

	require.NoError(t, s.Plans().Delete(ctx, plan.ID))
	remaining, err := s.Plans().ListItems(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestStatsRepository(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := createCase(t, s, nil, 1, 1)
	b := createCase(t, s, nil, 2, 2)
	c := createCase(t, s, nil, 3, 3)

	alice := "Alice"
	plan := model.Plan{Name: "Regression", Status: model.PlanStatusActive, CreatedBy: "qa@example.com"}
	archived := model.Plan{Name: "Old", Status: model.PlanStatusArchived, CreatedBy: "qa@example.com"}
	require.NoError(t, s.Plans().Create(ctx, &plan))
	require.NoError(t, s.Plans().Create(ctx, &archived))

	now := time.Now()
	require.NoError(t, s.Plans().CreateItems(ctx, []model.PlanItem{
		{PlanID: plan.ID, TestCaseID: a.ID, Result: model.ResultPass, ExecutedAt: &now, Assignee: &alice},
		{PlanID: plan.ID, TestCaseID: b.ID, Result: model.ResultNotRun, Assignee: &alice},
		{PlanID: plan.ID, TestCaseID: c.ID, Result: model.ResultBlock, Assignee: &alice},
		{PlanID: archived.ID, TestCaseID: a.ID, Result: model.ResultFail},
	}))

	counts, err := s.Stats().ResultCounts(ctx, []uuid.UUID{plan.ID, archived.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, counts[plan.ID][model.ResultPass])
	assert.Equal(t, 1, counts[plan.ID][model.ResultNotRun])
	assert.Equal(t, 1, counts[plan.ID][model.ResultBlock])
	assert.Equal(t, 1, counts[archived.ID][model.ResultFail])

	dash, err := s.Stats().Dashboard(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dash.TotalTestCases)
	assert.EqualValues(t, 1, dash.ActivePlans)
	assert.EqualValues(t, 4, dash.TotalPlanItems)
	assert.EqualValues(t, 2, dash.MyAssignedCount)

	assigned, err := s.Plans().ListAssigned(ctx, alice, model.OpenResults, 10)
	require.NoError(t, err)
	require.Len(t, assigned, 2)
	require.NotNil(t, assigned[0].Plan)
	assert.Equal(t, "Regression", assigned[0].Plan.Name)

	recent, err := s.Plans().ListRecentlyExecuted(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, a.ID, recent[0].TestCaseID)
}

func TestResultCountsQuery(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	query, args, err := resultCountsQuery(ids)
	require.NoError(t, err)
	assert.Equal(t, "SELECT plan_id, result, COUNT(*) AS cnt FROM plan_items WHERE plan_id IN (?,?) GROUP BY plan_id, result", query)
	assert.Equal(t, []interface{}{ids[0].String(), ids[1].String()}, args)
}

func TestDashboardQuery(t *testing.T) {
	query, args, err := dashboardQuery("Alice")
	require.NoError(t, err)
	assert.Contains(t, query, "(SELECT COUNT(*) FROM plans WHERE status = ?) AS active_plans")
	assert.Contains(t, query, "AS my_assigned_count")
	assert.Equal(t, []interface{}{"ACTIVE", "Alice", "NOT_RUN", "IN_PROGRESS", "BLOCK"}, args)
}

func TestUserRepository(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := model.User{Email: "a@example.com", PasswordHash: "x", Name: "A", Role: model.RoleUser, Status: model.UserStatusPending}
	require.NoError(t, s.Users().Create(ctx, &u))

	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	pending, err := s.Users().ListByStatus(ctx, model.UserStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, s.Users().UpdateFields(ctx, u.ID, map[string]interface{}{"status": model.UserStatusActive}))
	found, err := s.Users().FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, found.Status)

	assert.Error(t, s.Users().UpdateFields(ctx, uuid.New(), map[string]interface{}{"name": "B"}))
}
