package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration source
	_ "github.com/lib/pq"                                // database/sql driver used by the migrate postgres driver
	"github.com/rs/zerolog"
)

// Migrator manages database migrations
type Migrator struct {
	dsn    string
	dir    string
	logger zerolog.Logger
}

// NewMigrator creates a new migrator for the numbered up/down SQL files in dir
func NewMigrator(dsn, dir string, logger zerolog.Logger) *Migrator {
	return &Migrator{dsn: dsn, dir: dir, logger: logger}
}

// migrateLogger adapts zerolog to migrate.Logger
type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	db, err := sql.Open("postgres", m.dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	dir, err := filepath.Abs(m.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	mg, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(dir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations from %s: %w", m.dir, err)
	}
	mg.Log = migrateLogger{logger: m.logger}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error occurred during SQL migration execution: %w", err)
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database schema version %d is dirty", version)
	}

	m.logger.Info().Uint("version", version).Msg("Database schema is up to date")
	return nil
}
