package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsPath = "db/migrations"

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// MigrationRunner applies versioned SQL migrations to the transactions store.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
}

// NewMigrationRunner creates a runner over the default migrations directory.
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db, migrationsPath: migrationsPath}
}

// WaitForDatabase blocks until the database answers a ping or retries run out.
// Containerized postgres routinely starts after the service does.
func (mr *MigrationRunner) WaitForDatabase() error {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := mr.db.Ping()
		if err == nil {
			log.Println("database is ready")
			return nil
		}
		log.Printf("database not ready (attempt %d/%d): %v", attempt, maxRetries, err)
		time.Sleep(retryInterval)
	}
	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

// newMigrate builds a migrate instance over the runner's directory.
func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
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
// directory is not an error; the caller falls back to AutoMigrate.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		log.Printf("no migrations directory at %s, skipping", mr.migrationsPath)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		// A crashed migration leaves the dirty flag set; force back to the
		// recorded version so Up can retry.
		log.Printf("database dirty at version %d, forcing version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	switch err := m.Up(); err {
	case nil:
		newVersion, _, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("failed to read migration version: %w", verr)
		}
		log.Printf("migrations applied, now at version %d", newVersion)
	case migrate.ErrNoChange:
		log.Println("no new migrations to apply")
	default:
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// GetMigrationStatus reports the current migration version and dirty flag.
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return 0, false, fmt.Errorf("migrations directory not found")
	}

	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// RunMigrationsIfEnabled runs migrations when AUTO_MIGRATE=true. Sample
// transaction history is seeded through the development endpoints, not
// through SQL seed files, so there is no seed step here.
func RunMigrationsIfEnabled(db *sql.DB) error {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		log.Println("auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}
	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if version, dirty, err := runner.GetMigrationStatus(); err != nil {
		log.Printf("warning: failed to read migration status: %v", err)
	} else {
		log.Printf("migration status: version=%d dirty=%v", version, dirty)
	}

	return nil
}
