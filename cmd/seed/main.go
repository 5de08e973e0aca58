package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"tms/internal/config"
	"tms/internal/db"
	"tms/internal/logger"
	"tms/internal/model"
	"tms/internal/repository"
	"tms/internal/service"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture is the seed file layout.
type Fixture struct {
	Users   []SeedUser   `yaml:"users"`
	Folders []SeedFolder `yaml:"folders"`
}

// SeedUser is an account created or reset by the seeder.
type SeedUser struct {
	Email    string           `yaml:"email"`
	Password string           `yaml:"password"`
	Name     string           `yaml:"name"`
	Role     model.Role       `yaml:"role"`
	Status   model.UserStatus `yaml:"status"`
}

// SeedFolder is a folder with its test cases and subfolders.
type SeedFolder struct {
	Name      string         `yaml:"name"`
	TestCases []SeedTestCase `yaml:"testCases"`
	Folders   []SeedFolder   `yaml:"folders"`
}

// SeedTestCase is a test case inside a seeded folder.
type SeedTestCase struct {
	Title          string               `yaml:"title"`
	Description    *string              `yaml:"description"`
	Precondition   *string              `yaml:"precondition"`
	Steps          *string              `yaml:"steps"`
	ExpectedResult *string              `yaml:"expectedResult"`
	Priority       model.Priority       `yaml:"priority"`
	AutomationType model.AutomationType `yaml:"automationType"`
	Category       *string              `yaml:"category"`
}

var (
	configFile  string
	fixtureFile string
)

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Load demo users, folders and test cases",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

		fixture, err := loadFixture(fixtureFile)
		if err != nil {
			return err
		}

		gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("database init: %w", err)
		}
		log.Info("connected to database", "driver", cfg.DBDriver)

		// Run migrations to ensure schema is up to date
		if err := db.Migrate(gormDB); err != nil {
			return err
		}

		return seed(cmd.Context(), repository.NewStore(gormDB), fixture, log)
	},
}

func main() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&fixtureFile, "fixture", "", "seed file (defaults to the bundled fixture)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadFixture(path string) (*Fixture, error) {
	raw := defaultFixture
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func seed(ctx context.Context, store repository.Store, f *Fixture, log *slog.Logger) error {
	created, updated, err := seedUsers(ctx, store, f.Users)
	if err != nil {
		return err
	}
	log.Info("users seeded", "created", created, "updated", updated)

	existing, err := store.Folders().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}
	if len(existing) > 0 {
		log.Info("folders already present, skipping test data", "folders", len(existing))
		return nil
	}

	folders := service.NewFolderService(store)
	cases := service.NewTestCaseService(store, service.NewSequencer(store))
	var folderCount, caseCount int
	var walk func(nodes []SeedFolder, parent *uuid.UUID) error
	walk = func(nodes []SeedFolder, parent *uuid.UUID) error {
		for _, node := range nodes {
			folder, err := folders.Create(ctx, node.Name, parent)
			if err != nil {
				return fmt.Errorf("create folder %q: %w", node.Name, err)
			}
			folderCount++
			for _, tc := range node.TestCases {
				if _, err := cases.Create(ctx, service.CreateTestCaseInput{
					Title:          tc.Title,
					Description:    tc.Description,
					Precondition:   tc.Precondition,
					Steps:          tc.Steps,
					ExpectedResult: tc.ExpectedResult,
					Priority:       tc.Priority,
					AutomationType: tc.AutomationType,
					Category:       tc.Category,
					FolderID:       &folder.ID,
				}); err != nil {
					return fmt.Errorf("create test case %q: %w", tc.Title, err)
				}
				caseCount++
			}
			if err := walk(node.Folders, &folder.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(f.Folders, nil); err != nil {
		return err
	}
	log.Info("test data seeded", "folders", folderCount, "testCases", caseCount)
	return nil
}

// seedUsers creates missing users and resets the password, name, role and status of existing ones.
func seedUsers(ctx context.Context, store repository.Store, users []SeedUser) (created int, updated int, err error) {
	for _, u := range users {
		if !u.Role.Valid() || !u.Status.Valid() {
			return created, updated, fmt.Errorf("user %s: invalid role %q or status %q", u.Email, u.Role, u.Status)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, updated, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}

		existing, err := store.Users().FindByEmail(ctx, u.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("error checking user %s: %w", u.Email, err)
		}

		if existing != nil {
			if err := store.Users().UpdateFields(ctx, existing.ID, map[string]interface{}{
				"password_hash": string(hash),
				"name":          u.Name,
				"role":          u.Role,
				"status":        u.Status,
			}); err != nil {
				return created, updated, fmt.Errorf("error updating user %s: %w", u.Email, err)
			}
			updated++
			continue
		}

		if err := store.Users().Create(ctx, &model.User{
			Email:        u.Email,
			PasswordHash: string(hash),
			Name:         u.Name,
			Role:         u.Role,
			Status:       u.Status,
		}); err != nil {
			return created, updated, fmt.Errorf("error creating user %s: %w", u.Email, err)
		}
		created++
	}
	return created, updated, nil
}
