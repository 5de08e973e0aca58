package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

// CreateTestCaseInput carries the fields of a new test case.
type CreateTestCaseInput struct {
	Title          string
	Description    *string
	Precondition   *string
	Steps          *string
	ExpectedResult *string
	Priority       model.Priority
	AutomationType model.AutomationType
	Category       *string
	FolderID       *uuid.UUID
}

// UpdateTestCaseInput is a field-level patch. Nil pointers leave a field unchanged;
// Optional fields distinguish "absent" from "set to null".
type UpdateTestCaseInput struct {
	Title          *string
	Description    model.Optional[string]
	Precondition   model.Optional[string]
	Steps          model.Optional[string]
	ExpectedResult model.Optional[string]
	Priority       *model.Priority
	AutomationType *model.AutomationType
	Category       model.Optional[string]
}

// BulkUpdateInput lists the fields applied to every selected test case.
// A FolderID whose Value is nil moves the test cases to the root scope.
type BulkUpdateInput struct {
	Priority       *model.Priority
	AutomationType *model.AutomationType
	Category       model.Optional[string]
	FolderID       model.Optional[uuid.UUID]
}

func (in BulkUpdateInput) empty() bool {
	return in.Priority == nil && in.AutomationType == nil && !in.Category.Set && !in.FolderID.Set
}

// TestCaseService handles test case operations.
type TestCaseService interface {
	List(ctx context.Context, folderID *uuid.UUID) ([]model.TestCase, error)
	Create(ctx context.Context, in CreateTestCaseInput) (*model.TestCase, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateTestCaseInput) (*model.TestCase, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, orderedIDs []uuid.UUID, folderID *uuid.UUID) ([]model.TestCase, error)
	Move(ctx context.Context, ids []uuid.UUID, target *uuid.UUID) (int, error)
	BulkUpdate(ctx context.Context, ids []uuid.UUID, in BulkUpdateInput) (int, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type testCaseService struct {
	store     repository.Store
	sequencer *Sequencer
}

// NewTestCaseService creates a new test case service.
func NewTestCaseService(store repository.Store, sequencer *Sequencer) TestCaseService {
	return &testCaseService{store: store, sequencer: sequencer}
}

// List returns the test cases of folderID and all its subfolders, or every test case when
// folderID is nil. Each test case carries its folder path.
func (s *testCaseService) List(ctx context.Context, folderID *uuid.UUID) ([]model.TestCase, error) {
	return listWithPaths(ctx, s.store, folderID)
}

func listWithPaths(ctx context.Context, store repository.Store, folderID *uuid.UUID) ([]model.TestCase, error) {
	folders, err := store.Folders().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	var scope []uuid.UUID
	if folderID != nil {
		scope = DescendantIDs(folders, *folderID)
	}
	cases, err := store.TestCases().List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}

	index := indexFolders(folders)
	for i := range cases {
		cases[i].FolderPath = PathTo(index, cases[i].FolderID)
	}
	return cases, nil
}

func validateEnums(priority *model.Priority, automation *model.AutomationType) error {
	if priority != nil && !priority.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid priority %q", *priority))
	}
	if automation != nil && !automation.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid automationType %q", *automation))
	}
	return nil
}

// Create stores a new test case at the end of its folder scope with the next case number.
func (s *testCaseService) Create(ctx context.Context, in CreateTestCaseInput) (*model.TestCase, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if in.AutomationType == "" {
		in.AutomationType = model.AutomationManual
	}
	if err := validateEnums(&in.Priority, &in.AutomationType); err != nil {
		return nil, err
	}

	tc := &model.TestCase{
		Title:          title,
		Description:    in.Description,
		Precondition:   in.Precondition,
		Steps:          in.Steps,
		ExpectedResult: in.ExpectedResult,
		Priority:       in.Priority,
		AutomationType: in.AutomationType,
		Category:       emptyToNil(in.Category),
		FolderID:       in.FolderID,
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := ensureFolder(ctx, tx, in.FolderID); err != nil {
			return err
		}
		seq, number, err := reserve(ctx, tx, in.FolderID, 1)
		if err != nil {
			return err
		}
		tc.Sequence = seq
		tc.CaseNumber = number
		if err := tx.TestCases().Create(ctx, tc); err != nil {
			return fmt.Errorf("create test case: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tc, nil
}

// Update applies a field-level patch.
func (s *testCaseService) Update(ctx context.Context, id uuid.UUID, in UpdateTestCaseInput) (*model.TestCase, error) {
	if err := validateEnums(in.Priority, in.AutomationType); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty")
		}
		fields["title"] = title
	}
	setOptional(fields, "description", in.Description)
	setOptional(fields, "precondition", in.Precondition)
	setOptional(fields, "steps", in.Steps)
	setOptional(fields, "expected_result", in.ExpectedResult)
	if in.Category.Set {
		fields["category"] = nullable(emptyToNil(in.Category.Value))
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.AutomationType != nil {
		fields["automation_type"] = *in.AutomationType
	}

	if len(fields) > 0 {
		if err := s.store.TestCases().UpdateFields(ctx, id, fields); err != nil {
			return nil, notFound(err, apperrors.ErrTestCaseNotFound)
		}
	}

	tc, err := s.store.TestCases().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrTestCaseNotFound)
	}
	return tc, nil
}

// Delete removes a test case together with the plan items that reference it.
func (s *testCaseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		cases, err := findAll(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		_, err = deleteCases(ctx, tx, cases)
		return err
	})
}

// BulkDelete removes every listed test case that exists, with their plan items.
func (s *testCaseService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids must not be empty")
	}

	var deleted int64
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		cases, err := tx.TestCases().FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("find test cases: %w", err)
		}
		deleted, err = deleteCases(ctx, tx, cases)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// deleteCases removes plan items, then test cases, then compacts the scopes left behind.
func deleteCases(ctx context.Context, tx repository.Store, cases []model.TestCase) (int64, error) {
	if len(cases) == 0 {
		return 0, nil
	}
	ids := make([]uuid.UUID, len(cases))
	for i, tc := range cases {
		ids[i] = tc.ID
	}

	scopes := scopesOf(cases)
	if err := lockScopes(ctx, tx, scopes...); err != nil {
		return 0, err
	}
	if _, err := tx.Plans().DeleteItemsByTestCases(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete plan items: %w", err)
	}
	deleted, err := tx.TestCases().DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete test cases: %w", err)
	}
	if err := compactScopes(ctx, tx, scopes...); err != nil {
		return 0, err
	}
	return deleted, nil
}

// Reorder applies the ordering and returns folderID's list, or every test case when
// folderID is nil.
func (s *testCaseService) Reorder(ctx context.Context, orderedIDs []uuid.UUID, folderID *uuid.UUID) ([]model.TestCase, error) {
	if err := s.sequencer.Reorder(ctx, orderedIDs); err != nil {
		return nil, err
	}
	if folderID != nil {
		cases, err := s.store.TestCases().ListScope(ctx, folderID)
		if err != nil {
			return nil, fmt.Errorf("list scope: %w", err)
		}
		return cases, nil
	}
	cases, err := s.store.TestCases().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	return cases, nil
}

func (s *testCaseService) Move(ctx context.Context, ids []uuid.UUID, target *uuid.UUID) (int, error) {
	return s.sequencer.MoveToFolder(ctx, ids, target)
}

// BulkUpdate applies the provided fields to every listed test case that exists and returns
// how many matched. A folder change appends the test cases to the target scope.
func (s *testCaseService) BulkUpdate(ctx context.Context, ids []uuid.UUID, in BulkUpdateInput) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids must not be empty")
	}
	if in.empty() {
		return 0, apperrors.NewValidationError("no fields to update")
	}
	if err := validateEnums(in.Priority, in.AutomationType); err != nil {
		return 0, err
	}

	fields := make(map[string]interface{})
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.AutomationType != nil {
		fields["automation_type"] = *in.AutomationType
	}
	if in.Category.Set {
		fields["category"] = nullable(emptyToNil(in.Category.Value))
	}

	var matched int
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var target *uuid.UUID
		if in.FolderID.Set {
			target = in.FolderID.Value
			if err := ensureFolder(ctx, tx, target); err != nil {
				return err
			}
		}

		cases, err := tx.TestCases().FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("find test cases: %w", err)
		}
		matched = len(cases)
		if matched == 0 {
			return nil
		}
		found := make([]uuid.UUID, len(cases))
		for i, tc := range cases {
			found[i] = tc.ID
		}

		if _, err := tx.TestCases().BulkUpdateFields(ctx, found, fields); err != nil {
			return fmt.Errorf("bulk update: %w", err)
		}
		if in.FolderID.Set {
			return moveCases(ctx, tx, orderLike(cases, ids), target)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}

func setOptional(fields map[string]interface{}, column string, v model.Optional[string]) {
	if !v.Set {
		return
	}
	if v.Value == nil {
		fields[column] = nil
		return
	}
	fields[column] = *v.Value
}

// nullable converts a nil pointer into an untyped nil column value.
func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// emptyToNil maps a blank string to nil.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
