package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"finance-analytics/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies versioned SQL migrations and optional seed files.
// Flags and paths come from config, not from the environment directly.
type MigrationRunner struct {
	db  *sql.DB
	cfg config.MigrationConfig
}

// NewMigrationRunner creates a migration runner for the given settings
func NewMigrationRunner(db *sql.DB, cfg config.MigrationConfig) *MigrationRunner {
	return &MigrationRunner{
		db:  db,
		cfg: cfg,
	}
}

// WaitForDatabase pings the database until it answers or the retry budget
// is exhausted
func (mr *MigrationRunner) WaitForDatabase() error {
	log.Println("Waiting for database to be ready...")

	for i := 0; i < maxRetries; i++ {
		if err := mr.db.Ping(); err == nil {
			log.Println("Database is ready")
			return nil
		} else {
			log.Printf("Database not ready (attempt %d/%d): %v", i+1, maxRetries, err)
		}
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

// newMigration builds a migrate instance over the configured migrations
// directory
func (mr *MigrationRunner) newMigration() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.cfg.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations. A missing migrations
// directory is not an error: the AutoMigrate fallback covers that setup.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.cfg.MigrationsPath); os.IsNotExist(err) {
		log.Printf("Migrations directory %s not found, skipping", mr.cfg.MigrationsPath)
		return nil
	}

	m, err := mr.newMigration()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		log.Printf("Database dirty at version %d, forcing version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No new migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	log.Printf("Applied migrations, now at version %d", newVersion)
	return nil
}

// LoadSeeds executes the *.sql seed files when seeding is enabled. A failing
// seed file is logged and skipped so one bad file does not block the rest.
func (mr *MigrationRunner) LoadSeeds() error {
	if !mr.cfg.SeedDatabase {
		log.Println("Seed data loading disabled")
		return nil
	}

	if _, err := os.Stat(mr.cfg.SeedsPath); os.IsNotExist(err) {
		log.Printf("Seeds directory %s not found, skipping", mr.cfg.SeedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.cfg.SeedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}
	if len(files) == 0 {
		log.Println("No seed files found")
		return nil
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			log.Printf("Warning: seed file %s failed: %v", filepath.Base(file), err)
			continue
		}
		log.Printf("Executed seed file: %s", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus returns the current schema version and dirty flag
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	if _, err := os.Stat(mr.cfg.MigrationsPath); os.IsNotExist(err) {
		return 0, false, fmt.Errorf("migrations directory not found")
	}

	m, err := mr.newMigration()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// RunMigrationsIfEnabled waits for the database, applies migrations and
// seeds when auto-migration is configured. Disabled setups fall through to
// gorm AutoMigrate in Initialize.
func RunMigrationsIfEnabled(db *sql.DB, cfg config.MigrationConfig) error {
	if !cfg.AutoMigrate {
		log.Println("Auto-migration disabled")
		return nil
	}

	runner := NewMigrationRunner(db, cfg)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}
	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}
	if err := runner.LoadSeeds(); err != nil {
		log.Printf("Warning: seed data loading failed: %v", err)
	}

	if version, dirty, err := runner.GetMigrationStatus(); err != nil {
		log.Printf("Warning: failed to get migration status: %v", err)
	} else {
		log.Printf("Migration status - Version: %d, Dirty: %v", version, dirty)
	}

	return nil
}
