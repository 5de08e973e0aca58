package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tms/internal/model"
	"tms/internal/repository"
)

const dashboardListLimit = 10

// ActivityTestCase is the test case summary shown on dashboard lists.
type ActivityTestCase struct {
	ID         uuid.UUID      `json:"id"`
	CaseNumber int64          `json:"caseNumber"`
	Title      string         `json:"title"`
	Priority   model.Priority `json:"priority,omitempty"`
}

// ActivityPlan is the plan summary shown on dashboard lists.
type ActivityPlan struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ActivityItem is a plan item as shown on the dashboard.
type ActivityItem struct {
	ID         uuid.UUID         `json:"id"`
	Result     model.Result      `json:"result"`
	Assignee   *string           `json:"assignee"`
	Comment    *string           `json:"comment"`
	ExecutedAt *time.Time        `json:"executedAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	TestCase   *ActivityTestCase `json:"testCase,omitempty"`
	Plan       *ActivityPlan     `json:"plan,omitempty"`
}

// DashboardService provides the dashboard views.
type DashboardService interface {
	Stats(ctx context.Context, userName string) (*repository.DashboardCounts, error)
	MyAssignments(ctx context.Context, userName string) ([]ActivityItem, error)
	RecentActivity(ctx context.Context) ([]ActivityItem, error)
}

type dashboardService struct {
	store repository.Store
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{store: store}
}

// Stats counts test cases, active plans, plan items and the caller's open assignments.
func (s *dashboardService) Stats(ctx context.Context, userName string) (*repository.DashboardCounts, error) {
	counts, err := s.store.Stats().Dashboard(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return counts, nil
}

// MyAssignments returns the caller's latest open items.
func (s *dashboardService) MyAssignments(ctx context.Context, userName string) ([]ActivityItem, error) {
	items, err := s.store.Plans().ListAssigned(ctx, userName, model.OpenResults, dashboardListLimit)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return toActivity(items), nil
}

// RecentActivity returns the most recently executed items.
func (s *dashboardService) RecentActivity(ctx context.Context) ([]ActivityItem, error) {
	items, err := s.store.Plans().ListRecentlyExecuted(ctx, dashboardListLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}
	return toActivity(items), nil
}

func toActivity(items []model.PlanItem) []ActivityItem {
	out := make([]ActivityItem, len(items))
	for i, item := range items {
		a := ActivityItem{
			ID:         item.ID,
			Result:     item.Result,
			Assignee:   item.Assignee,
			Comment:    item.Comment,
			ExecutedAt: item.ExecutedAt,
			UpdatedAt:  item.UpdatedAt,
		}
		if item.TestCase != nil {
			a.TestCase = &ActivityTestCase{
				ID:         item.TestCase.ID,
				CaseNumber: item.TestCase.CaseNumber,
				Title:      item.TestCase.Title,
				Priority:   item.TestCase.Priority,
			}
		}
		if item.Plan != nil {
			a.Plan = &ActivityPlan{ID: item.Plan.ID, Name: item.Plan.Name}
		}
		out[i] = a
	}
	return out
}
