package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority of a test case.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AutomationType tells whether a test case is executed by hand or by a script.
type AutomationType string

const (
	AutomationManual    AutomationType = "MANUAL"
	AutomationAutomated AutomationType = "AUTOMATED"
)

// Valid reports whether a is a known automation type.
func (a AutomationType) Valid() bool {
	return a == AutomationManual || a == AutomationAutomated
}

// TestCase is a reusable description of a single check.
// Sequence orders test cases inside one folder scope (FolderID, nil being the root scope);
// CaseNumber is global and never reused.
type TestCase struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	CaseNumber     int64          `json:"caseNumber" gorm:"uniqueIndex;not null"`
	Title          string         `json:"title" gorm:"size:500;not null"`
	Description    *string        `json:"description" gorm:"type:text"`
	Precondition   *string        `json:"precondition" gorm:"type:text"`
	Steps          *string        `json:"steps" gorm:"type:text"`
	ExpectedResult *string        `json:"expectedResult" gorm:"type:text"`
	Priority       Priority       `json:"priority" gorm:"type:varchar(20);not null;default:'MEDIUM';index"`
	AutomationType AutomationType `json:"automationType" gorm:"type:varchar(20);not null;default:'MANUAL'"`
	Category       *string        `json:"category" gorm:"size:255;index"`
	FolderID       *uuid.UUID     `json:"folderId" gorm:"type:char(36);index:idx_test_cases_scope,priority:1"`
	Sequence       int            `json:"sequence" gorm:"not null;index:idx_test_cases_scope,priority:2"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Populated on list responses only.
	FolderPath []PathSegment `json:"folderPath,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (t *TestCase) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ScopeKey identifies the sequence scope of a folder id.
func ScopeKey(folderID *uuid.UUID) string {
	if folderID == nil {
		return "scope:root"
	}
	return "scope:" + folderID.String()
}
