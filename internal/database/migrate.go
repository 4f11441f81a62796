package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations for one dialect.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens a dedicated connection for migrations. golang-migrate
// closes the handle it is given, so it never shares the application pool.
func NewMigrator(cfg Config) (*Migrator, error) {
	driverName, dsn, err := driverDSN(cfg.Dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate: open: %w", err)
	}

	var instance migratedb.Driver
	switch cfg.Dialect {
	case Postgres:
		instance, err = postgres.WithInstance(sqldb, &postgres.Config{})
	case SQLite:
		instance, err = sqlite.WithInstance(sqldb, &sqlite.Config{})
	}
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("migrate: driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+string(cfg.Dialect))
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("migrate: source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(cfg.Dialect), instance)
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("migrate: init: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m.Log = &migrateLogger{logger: logger}

	return &Migrator{m: m}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (mg *Migrator) Down(steps int) error {
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version reports the current schema version.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Force sets the schema version without running migrations.
func (mg *Migrator) Force(version int) error {
	return mg.m.Force(version)
}

// Close releases the migration source and connection.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Migrate applies all pending migrations for cfg.
func Migrate(cfg Config) error {
	mg, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }
