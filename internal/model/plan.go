package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanStatus represents the lifecycle state of a plan.
type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "ACTIVE"
	PlanStatusArchived PlanStatus = "ARCHIVED"
)

// Valid reports whether s is a known plan status.
func (s PlanStatus) Valid() bool {
	return s == PlanStatusActive || s == PlanStatusArchived
}

// Result is the execution outcome of a plan item.
type Result string

const (
	ResultNotRun     Result = "NOT_RUN"
	ResultInProgress Result = "IN_PROGRESS"
	ResultPass       Result = "PASS"
	ResultFail       Result = "FAIL"
	ResultBlock      Result = "BLOCK"
)

// Valid reports whether r is a known result.
func (r Result) Valid() bool {
	switch r {
	case ResultNotRun, ResultInProgress, ResultPass, ResultFail, ResultBlock:
		return true
	}
	return false
}

// OpenResults are the results that still need attention from an assignee.
var OpenResults = []Result{ResultNotRun, ResultInProgress, ResultBlock}

// Plan is a named snapshot of test cases executed together.
// Membership is fixed when the plan is created.
type Plan struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	Status      PlanStatus `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CreatedBy   string     `json:"createdBy" gorm:"size:255;not null"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Items []PlanItem `json:"items,omitempty" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	Stats *PlanStats `json:"stats,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlanItem is the execution record of one test case inside one plan.
type PlanItem struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	PlanID     uuid.UUID  `json:"planId" gorm:"type:char(36);not null;uniqueIndex:idx_plan_items_plan_case,priority:1"`
	TestCaseID uuid.UUID  `json:"testCaseId" gorm:"type:char(36);not null;index;uniqueIndex:idx_plan_items_plan_case,priority:2"`
	Assignee   *string    `json:"assignee" gorm:"size:255;index"`
	Result     Result     `json:"result" gorm:"type:varchar(20);not null;default:'NOT_RUN';index"`
	Comment    *string    `json:"comment" gorm:"type:text"`
	ExecutedAt *time.Time `json:"executedAt" gorm:"index"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// Relations
	TestCase *TestCase `json:"testCase,omitempty" gorm:"foreignKey:TestCaseID"`
	Plan     *Plan     `json:"plan,omitempty" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (i *PlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PlanStats aggregates the results of a plan's items.
type PlanStats struct {
	Total    int `json:"total"`
	Pass     int `json:"pass"`
	Fail     int `json:"fail"`
	Block    int `json:"block"`
	NotRun   int `json:"notRun"`
	Progress int `json:"progress"`
}
