package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store bundles the repositories bound to one connection or one transaction.
type Store interface {
	Users() UserRepository
	Folders() FolderRepository
	TestCases() TestCaseRepository
	Plans() PlanRepository
	Counters() CounterRepository
	Imports() ImportLogRepository
	Stats() StatsRepository

	// WithTransaction executes fn within a database transaction. fn must only use tx;
	// the transaction is rolled back when fn returns an error.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository         { return &userRepository{db: s.db} }
func (s *gormStore) Folders() FolderRepository     { return &folderRepository{db: s.db} }
func (s *gormStore) TestCases() TestCaseRepository { return &testCaseRepository{db: s.db} }
func (s *gormStore) Plans() PlanRepository         { return &planRepository{db: s.db} }
func (s *gormStore) Counters() CounterRepository   { return &counterRepository{db: s.db} }
func (s *gormStore) Imports() ImportLogRepository  { return &importLogRepository{db: s.db} }
func (s *gormStore) Stats() StatsRepository        { return &statsRepository{db: s.db} }

// WithTransaction executes a function within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}

// folderScope returns the where condition selecting one sequence scope.
// A nil folder id is the root scope.
func folderScope(folderID *uuid.UUID) map[string]interface{} {
	if folderID == nil {
		return map[string]interface{}{"folder_id": nil}
	}
	return map[string]interface{}{"folder_id": *folderID}
}

// folderValue converts a nullable folder id into a column value.
func folderValue(folderID *uuid.UUID) interface{} {
	if folderID == nil {
		return nil
	}
	return *folderID
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
