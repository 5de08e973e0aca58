package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tms/internal/db/dbtest"
	"tms/internal/model"
	"tms/internal/repository"
)

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	return repository.NewStore(dbtest.New(t))
}

func mustFolder(t *testing.T, store repository.Store, name string, parent *uuid.UUID) *model.Folder {
	t.Helper()
	f, err := NewFolderService(store).Create(context.Background(), name, parent)
	require.NoError(t, err)
	return f
}

func mustCase(t *testing.T, svc TestCaseService, title string, folderID *uuid.UUID) *model.TestCase {
	t.Helper()
	tc, err := svc.Create(context.Background(), CreateTestCaseInput{Title: title, FolderID: folderID})
	require.NoError(t, err)
	return tc
}

func newCaseService(store repository.Store) TestCaseService {
	return NewTestCaseService(store, NewSequencer(store))
}

// sequences returns the sequence of every test case in a scope keyed by title.
func sequences(t *testing.T, store repository.Store, folderID *uuid.UUID) map[string]int {
	t.Helper()
	cases, err := store.TestCases().ListScope(context.Background(), folderID)
	require.NoError(t, err)
	out := make(map[string]int, len(cases))
	for _, tc := range cases {
		out[tc.Title] = tc.Sequence
	}
	return out
}

// titles returns the titles of a scope in sequence order.
func titles(t *testing.T, store repository.Store, folderID *uuid.UUID) []string {
	t.Helper()
	cases, err := store.TestCases().ListScope(context.Background(), folderID)
	require.NoError(t, err)
	out := make([]string, len(cases))
	for i, tc := range cases {
		out[i] = tc.Title
	}
	return out
}

func ptr[T any](v T) *T { return &v }
