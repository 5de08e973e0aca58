package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

// Sequencer assigns per-folder sequence numbers and global case numbers and keeps each
// folder scope numbered 1..N.
//
// Concurrent writers are serialized with row locks on the counters table: one anchor row
// per folder scope and the case_number row. Scope rows are always locked before the
// case_number row, in sorted order.
type Sequencer struct {
	store repository.Store
}

// NewSequencer creates a sequencer over store.
func NewSequencer(store repository.Store) *Sequencer {
	return &Sequencer{store: store}
}

// NextSequence returns the sequence the next test case created in folderID would get.
func (s *Sequencer) NextSequence(ctx context.Context, folderID *uuid.UUID) (int, error) {
	maxSeq, err := s.store.TestCases().MaxSequence(ctx, folderID, nil)
	if err != nil {
		return 0, fmt.Errorf("max sequence: %w", err)
	}
	return maxSeq + 1, nil
}

// NextCaseNumber returns the case number the next created test case would get.
// Numbers of deleted test cases are never handed out again.
func (s *Sequencer) NextCaseNumber(ctx context.Context) (int64, error) {
	counter, err := s.store.Counters().Value(ctx, model.CaseNumberCounter)
	if err != nil {
		return 0, fmt.Errorf("read case number counter: %w", err)
	}
	maxNumber, err := s.store.TestCases().MaxCaseNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("max case number: %w", err)
	}
	return max(counter, maxNumber) + 1, nil
}

// Reorder assigns sequence = position+1 to each id, then compacts the affected scopes.
// It fails with a validation error on an empty or duplicated list and rolls back when any
// id does not resolve.
func (s *Sequencer) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return apperrors.NewValidationError("orderedIds must not be empty")
	}
	if len(uniqueIDs(orderedIDs)) != len(orderedIDs) {
		return apperrors.NewValidationError("orderedIds must not contain duplicates")
	}

	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		cases, err := findAll(ctx, tx, orderedIDs)
		if err != nil {
			return err
		}

		scopes := scopesOf(cases)
		if err := lockScopes(ctx, tx, scopes...); err != nil {
			return err
		}
		for i, id := range orderedIDs {
			if err := tx.TestCases().UpdateSequence(ctx, id, i+1); err != nil {
				return fmt.Errorf("update sequence: %w", err)
			}
		}
		return compactScopes(ctx, tx, scopes...)
	})
}

// MoveToFolder appends ids, in request order, to the end of the target scope (nil is the
// root scope) and compacts every scope they left. It returns the number of moved test cases.
func (s *Sequencer) MoveToFolder(ctx context.Context, ids []uuid.UUID, target *uuid.UUID) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids must not be empty")
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := ensureFolder(ctx, tx, target); err != nil {
			return err
		}
		cases, err := findAll(ctx, tx, ids)
		if err != nil {
			return err
		}
		return moveCases(ctx, tx, orderLike(cases, ids), target)
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// moveCases places cases at the end of target in the given order. Must run inside a transaction.
func moveCases(ctx context.Context, tx repository.Store, cases []model.TestCase, target *uuid.UUID) error {
	if len(cases) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(cases))
	for i, tc := range cases {
		ids[i] = tc.ID
	}

	scopes := append(scopesOf(cases), target)
	if err := lockScopes(ctx, tx, scopes...); err != nil {
		return err
	}

	base, err := tx.TestCases().MaxSequence(ctx, target, ids)
	if err != nil {
		return fmt.Errorf("max sequence: %w", err)
	}
	for i, id := range ids {
		if err := tx.TestCases().UpdatePlacement(ctx, id, target, base+i+1); err != nil {
			return fmt.Errorf("update placement: %w", err)
		}
	}
	return compactScopes(ctx, tx, scopes...)
}

// reserve locks folderID's scope and the case number counter and reserves n consecutive
// positions. It returns the first sequence and first case number. Must run inside a
// transaction.
func reserve(ctx context.Context, tx repository.Store, folderID *uuid.UUID, n int) (int, int64, error) {
	if err := lockScopes(ctx, tx, folderID); err != nil {
		return 0, 0, err
	}
	maxSeq, err := tx.TestCases().MaxSequence(ctx, folderID, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("max sequence: %w", err)
	}

	counter, err := tx.Counters().LockValue(ctx, model.CaseNumberCounter)
	if err != nil {
		return 0, 0, fmt.Errorf("lock case number counter: %w", err)
	}
	maxNumber, err := tx.TestCases().MaxCaseNumber(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("max case number: %w", err)
	}
	last := max(counter, maxNumber)
	if err := tx.Counters().SetValue(ctx, model.CaseNumberCounter, last+int64(n)); err != nil {
		return 0, 0, fmt.Errorf("advance case number counter: %w", err)
	}
	return maxSeq + 1, last + 1, nil
}

func lockScopes(ctx context.Context, tx repository.Store, folderIDs ...*uuid.UUID) error {
	names := make([]string, len(folderIDs))
	for i, id := range folderIDs {
		names[i] = model.ScopeKey(id)
	}
	if err := tx.Counters().Lock(ctx, names...); err != nil {
		return fmt.Errorf("lock scopes: %w", err)
	}
	return nil
}

// compactScopes renumbers each scope to 1..N keeping the (sequence, case number) order.
func compactScopes(ctx context.Context, tx repository.Store, folderIDs ...*uuid.UUID) error {
	done := make(map[string]bool)
	for _, folderID := range folderIDs {
		key := model.ScopeKey(folderID)
		if done[key] {
			continue
		}
		done[key] = true

		cases, err := tx.TestCases().ListScope(ctx, folderID)
		if err != nil {
			return fmt.Errorf("list scope: %w", err)
		}
		for i, tc := range cases {
			if tc.Sequence == i+1 {
				continue
			}
			if err := tx.TestCases().UpdateSequence(ctx, tc.ID, i+1); err != nil {
				return fmt.Errorf("compact scope: %w", err)
			}
		}
	}
	return nil
}

// ensureFolder fails with ErrFolderNotFound when folderID is set and does not resolve.
func ensureFolder(ctx context.Context, store repository.Store, folderID *uuid.UUID) error {
	if folderID == nil {
		return nil
	}
	ok, err := store.Folders().Exists(ctx, *folderID)
	if err != nil {
		return fmt.Errorf("check folder: %w", err)
	}
	if !ok {
		return apperrors.ErrFolderNotFound
	}
	return nil
}

// findAll loads every id or fails with ErrTestCaseNotFound.
func findAll(ctx context.Context, store repository.Store, ids []uuid.UUID) ([]model.TestCase, error) {
	unique := uniqueIDs(ids)
	cases, err := store.TestCases().FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("find test cases: %w", err)
	}
	if len(cases) != len(unique) {
		return nil, apperrors.ErrTestCaseNotFound
	}
	return cases, nil
}

func scopesOf(cases []model.TestCase) []*uuid.UUID {
	scopes := make([]*uuid.UUID, 0, len(cases))
	seen := make(map[string]bool)
	for _, tc := range cases {
		key := model.ScopeKey(tc.FolderID)
		if seen[key] {
			continue
		}
		seen[key] = true
		scopes = append(scopes, tc.FolderID)
	}
	return scopes
}

// orderLike returns cases sorted to follow ids. Ids without a matching case are skipped.
func orderLike(cases []model.TestCase, ids []uuid.UUID) []model.TestCase {
	byID := make(map[uuid.UUID]model.TestCase, len(cases))
	for _, tc := range cases {
		byID[tc.ID] = tc
	}
	out := make([]model.TestCase, 0, len(cases))
	for _, id := range ids {
		if tc, ok := byID[id]; ok {
			out = append(out, tc)
		}
	}
	return out
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// notFound translates gorm.ErrRecordNotFound into the given domain error.
func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
