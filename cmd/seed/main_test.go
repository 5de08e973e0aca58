package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tms/internal/db/dbtest"
	"tms/internal/model"
	"tms/internal/repository"
)

func TestLoadFixture_Default(t *testing.T) {
	f, err := loadFixture("")
	require.NoError(t, err)

	require.NotEmpty(t, f.Users)
	assert.Equal(t, model.RoleAdmin, f.Users[0].Role)
	require.NotEmpty(t, f.Folders)
	assert.NotEmpty(t, f.Folders[0].Folders, "bundled fixture has nested folders")
}

func TestLoadFixture_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: ["), 0o644))

	_, err := loadFixture(path)
	assert.Error(t, err)

	_, err = loadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(dbtest.New(t))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &Fixture{
		Users: []SeedUser{
			{Email: "admin@tms.com", Password: "admin123!", Name: "Admin", Role: model.RoleAdmin, Status: model.UserStatusActive},
		},
		Folders: []SeedFolder{
			{
				Name:      "Root",
				TestCases: []SeedTestCase{{Title: "a"}, {Title: "b", Priority: model.PriorityHigh}},
				Folders:   []SeedFolder{{Name: "Child", TestCases: []SeedTestCase{{Title: "c"}}}},
			},
		},
	}
	require.NoError(t, seed(ctx, store, f, log))

	folders, err := store.Folders().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 2)

	var root model.Folder
	for _, folder := range folders {
		if folder.Name == "Root" {
			root = folder
		}
	}
	rootCases, err := store.TestCases().ListScope(ctx, &root.ID)
	require.NoError(t, err)
	require.Len(t, rootCases, 2)
	assert.Equal(t, "a", rootCases[0].Title)
	assert.Equal(t, 1, rootCases[0].Sequence)
	assert.Equal(t, model.PriorityHigh, rootCases[1].Priority)

	all, err := store.TestCases().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// a second run resets users and leaves test data alone
	f.Users[0].Password = "changed123"
	require.NoError(t, seed(ctx, store, f, log))

	folders, err = store.Folders().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 2)

	admin, err := store.Users().FindByEmail(ctx, "admin@tms.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changed123")))
	count, err := store.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeedUsers_InvalidRole(t *testing.T) {
	store := repository.NewStore(dbtest.New(t))
	_, _, err := seedUsers(context.Background(), store, []SeedUser{
		{Email: "x@tms.com", Password: "secret1", Name: "X", Role: "ROOT", Status: model.UserStatusActive},
	})
	assert.Error(t, err)
}
