package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tms/internal/model"
)

// ResultCounts holds the number of plan items per result for each plan.
type ResultCounts map[uuid.UUID]map[model.Result]int

// DashboardCounts are the headline numbers shown on the dashboard.
type DashboardCounts struct {
	TotalTestCases  int64 `json:"totalTestCases"`
	ActivePlans     int64 `json:"activePlans"`
	TotalPlanItems  int64 `json:"totalPlanItems"`
	MyAssignedCount int64 `json:"myAssignedCount"`
}

// StatsRepository runs aggregate queries.
type StatsRepository interface {
	ResultCounts(ctx context.Context, planIDs []uuid.UUID) (ResultCounts, error)
	Dashboard(ctx context.Context, assignee string) (*DashboardCounts, error)
}

type statsRepository struct {
	db *gorm.DB
}

// Queries are built with squirrel's default "?" placeholders; gorm rebinds them for the
// active dialect.

func resultCountsQuery(planIDs []uuid.UUID) (string, []interface{}, error) {
	return squirrel.Select("plan_id", "result", "COUNT(*) AS cnt").
		From("plan_items").
		Where(squirrel.Eq{"plan_id": uuidStrings(planIDs)}).
		GroupBy("plan_id", "result").
		ToSql()
}

func (r *statsRepository) ResultCounts(ctx context.Context, planIDs []uuid.UUID) (ResultCounts, error) {
	counts := make(ResultCounts, len(planIDs))
	if len(planIDs) == 0 {
		return counts, nil
	}

	query, args, err := resultCountsQuery(planIDs)
	if err != nil {
		return nil, fmt.Errorf("build result counts query: %w", err)
	}

	var rows []struct {
		PlanID string
		Result string
		Cnt    int
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		id, err := uuid.Parse(row.PlanID)
		if err != nil {
			return nil, fmt.Errorf("parse plan id %q: %w", row.PlanID, err)
		}
		if counts[id] == nil {
			counts[id] = make(map[model.Result]int)
		}
		counts[id][model.Result(row.Result)] += row.Cnt
	}
	return counts, nil
}

func dashboardQuery(assignee string) (string, []interface{}, error) {
	open := make([]string, len(model.OpenResults))
	for i, r := range model.OpenResults {
		open[i] = string(r)
	}

	count := func(table string) squirrel.SelectBuilder {
		return squirrel.Select("COUNT(*)").From(table)
	}

	return squirrel.Select().
		Column(squirrel.Alias(count("test_cases"), "total_test_cases")).
		Column(squirrel.Alias(count("plans").Where(squirrel.Eq{"status": string(model.PlanStatusActive)}), "active_plans")).
		Column(squirrel.Alias(count("plan_items"), "total_plan_items")).
		Column(squirrel.Alias(count("plan_items").Where(squirrel.Eq{"assignee": assignee, "result": open}), "my_assigned_count")).
		ToSql()
}

func (r *statsRepository) Dashboard(ctx context.Context, assignee string) (*DashboardCounts, error) {
	query, args, err := dashboardQuery(assignee)
	if err != nil {
		return nil, fmt.Errorf("build dashboard query: %w", err)
	}

	var counts DashboardCounts
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&counts).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}
