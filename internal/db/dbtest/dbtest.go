// Package dbtest provides a migrated in-memory SQLite database for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"tms/internal/db"
)

// New opens a fresh in-memory database with foreign keys enforced and the full schema
// migrated. The database is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}
