// Package database owns the connection to the ledger store and the unit of
// work every mutation runs in.
//
// Repositories accept a Querier so the same code runs against the pool or an
// open transaction. Queries are written with `?` placeholders and rebound to
// `$N` when the dialect is postgres.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// Dialect identifies the SQL flavour of the store.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Config describes how to open the store.
type Config struct {
	Dialect         Dialect
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *slog.Logger
}

// Querier is the surface shared by *DB and the transaction handed to WithTx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *Row
}

// DB wraps *sql.DB with the dialect it speaks.
type DB struct {
	sqldb   *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)

// Open connects to the store described by cfg and verifies the connection.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database: empty DSN")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	driverName, dsn, err := driverDSN(cfg.Dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if cfg.Dialect == SQLite {
		// One writer at a time; a second pooled connection would only ever see SQLITE_BUSY.
		sqldb.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("database: ping: %w", mapError(err))
	}

	return &DB{sqldb: sqldb, dialect: cfg.Dialect, logger: logger}, nil
}

// driverDSN returns the database/sql driver name and the DSN to hand it.
func driverDSN(dialect Dialect, dsn string) (string, string, error) {
	switch dialect {
	case Postgres:
		return "postgres", dsn, nil
	case SQLite:
		if !strings.Contains(dsn, "_pragma=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
		}
		return "sqlite", dsn, nil
	}
	return "", "", fmt.Errorf("database: unsupported dialect %q", dialect)
}

// Dialect reports the SQL flavour of the store.
func (d *DB) Dialect() Dialect { return d.dialect }

// Ping verifies the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return mapError(d.sqldb.PingContext(ctx))
}

// Close releases the connection pool.
func (d *DB) Close() error { return d.sqldb.Close() }

// ExecContext executes a statement that returns no rows.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := d.sqldb.ExecContext(ctx, rebind(d.dialect, query), args...)
	return res, mapError(err)
}

// QueryContext executes a query returning rows. The caller must close them.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := d.sqldb.QueryContext(ctx, rebind(d.dialect, query), args...)
	return rows, mapError(err)
}

// QueryRowContext executes a query expected to return at most one row.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *Row {
	return &Row{raw: d.sqldb.QueryRowContext(ctx, rebind(d.dialect, query), args...)}
}

// Row is *sql.Row with driver errors mapped on Scan.
type Row struct {
	raw *sql.Row
}

// Scan copies the row into dest. A missing row reports ErrNotFound.
func (r *Row) Scan(dest ...any) error {
	return mapError(r.raw.Scan(dest...))
}

// Tx is an open transaction. It is only valid inside the WithTx callback.
type Tx struct {
	sqltx   *sql.Tx
	dialect Dialect
}

// ExecContext executes a statement inside the transaction.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := t.sqltx.ExecContext(ctx, rebind(t.dialect, query), args...)
	return res, mapError(err)
}

// QueryContext executes a query inside the transaction.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := t.sqltx.QueryContext(ctx, rebind(t.dialect, query), args...)
	return rows, mapError(err)
}

// QueryRowContext executes a single-row query inside the transaction.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *Row {
	return &Row{raw: t.sqltx.QueryRowContext(ctx, rebind(t.dialect, query), args...)}
}

// WithTx runs fn as one unit of work. The transaction commits when fn returns
// nil and rolls back when fn returns an error or panics; fn's error is
// returned unchanged so callers can still match it.
//
//	err := db.WithTx(ctx, func(q database.Querier) error {
//	    exp, err := expense.NewRepository(q).CreateExpense(ctx, ...)
//	    ...
//	})
func (d *DB) WithTx(ctx context.Context, fn func(q Querier) error) (err error) {
	sqltx, err := d.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin: %w", mapError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil {
				d.logger.Error("Transaction rollback failed", "error", rbErr, "cause", err)
			}
		}
	}()

	if err = fn(&Tx{sqltx: sqltx, dialect: d.dialect}); err != nil {
		return err
	}

	if err = sqltx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", mapError(err))
	}
	return nil
}

// rebind turns `?` placeholders into `$1..$N` for postgres.
func rebind(dialect Dialect, query string) string {
	if dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
