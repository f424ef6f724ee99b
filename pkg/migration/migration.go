package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Config holds migration configuration
type Config struct {
	MigrationsPath string
	DatabaseURL    string
	Logger         *slog.Logger
}

// Status describes where the schema currently stands
type Status struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Runner applies the SQL files under MigrationsPath to the configured database
type Runner struct {
	config *Config
	logger *slog.Logger
}

// NewRunner creates a new migration runner
func NewRunner(config *Config) *Runner {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	return &Runner{
		config: config,
		logger: logger.With("component", "migration"),
	}
}

// Up applies every pending migration
func (r *Runner) Up() error {
	r.logger.Info("applying migrations", "path", r.config.MigrationsPath)

	return r.withMigrate(func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				r.logger.Info("schema already up to date")
				return nil
			}
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.logger.Info("migrations applied")
		return nil
	})
}

// Steps applies n migrations forward, or rolls back when n is negative
func (r *Runner) Steps(n int) error {
	r.logger.Info("stepping migrations", "steps", n)

	return r.withMigrate(func(m *migrate.Migrate) error {
		if err := m.Steps(n); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				return nil
			}
			return fmt.Errorf("failed to step migrations: %w", err)
		}
		return nil
	})
}

// Down rolls back the last migration
func (r *Runner) Down() error {
	return r.Steps(-1)
}

// Force sets the recorded version without running anything. Used to clear a
// dirty state after a failed migration has been repaired by hand.
func (r *Runner) Force(version int) error {
	r.logger.Warn("forcing migration version", "version", version)

	return r.withMigrate(func(m *migrate.Migrate) error {
		if err := m.Force(version); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
		return nil
	})
}

// Version returns the current schema status. An empty database reports version 0.
func (r *Runner) Version() (Status, error) {
	var st Status
	err := r.withMigrate(func(m *migrate.Migrate) error {
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				return nil
			}
			return fmt.Errorf("failed to get version: %w", err)
		}
		st = Status{Version: version, Dirty: dirty}
		return nil
	})
	return st, err
}

func (r *Runner) withMigrate(fn func(m *migrate.Migrate) error) error {
	m, err := r.open()
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer m.Close()
	return fn(m)
}

func (r *Runner) open() (*migrate.Migrate, error) {
	if _, err := os.Stat(r.config.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrations path %q: %w", r.config.MigrationsPath, err)
	}

	db, err := sql.Open("postgres", r.config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+r.config.MigrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// AutoMigrate brings the schema up to date at startup. It refuses to run
// against a dirty database.
func AutoMigrate(dbURL, migrationsPath string, logger *slog.Logger) error {
	runner := NewRunner(&Config{
		MigrationsPath: migrationsPath,
		DatabaseURL:    dbURL,
		Logger:         logger,
	})

	before, err := runner.Version()
	if err != nil {
		runner.logger.Error("failed to read migration version", "error", err)
		return err
	}
	if before.Dirty {
		runner.logger.Warn("database is dirty, run `migrate force <version>` after repairing it", "version", before.Version)
		return fmt.Errorf("database in dirty state at version %d", before.Version)
	}

	if err := runner.Up(); err != nil {
		return err
	}

	after, err := runner.Version()
	if err != nil {
		return err
	}

	runner.logger.Info("schema migrated", "from_version", before.Version, "to_version", after.Version)
	return nil
}
