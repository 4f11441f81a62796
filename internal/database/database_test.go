package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/database/dbtest"
)

func countUsers(t *testing.T, q database.Querier) int {
	t.Helper()
	var n int
	if err := q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

func insertUser(ctx context.Context, q database.Querier, name, email string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`INSERT INTO users (name, email, created_at) VALUES (?, ?, ?) RETURNING id`,
		name, email, database.Now(),
	).Scan(&id)
	return id, err
}

func TestWithTxCommits(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(q database.Querier) error {
		if _, err := insertUser(ctx, q, "Ann", "ann@example.com"); err != nil {
			return err
		}
		_, err := insertUser(ctx, q, "Bob", "bob@example.com")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	if got := countUsers(t, db); got != 2 {
		t.Errorf("users = %d, want 2", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(q database.Querier) error {
		if _, err := insertUser(ctx, q, "Ann", "ann@example.com"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want %v", err, boom)
	}

	if got := countUsers(t, db); got != 0 {
		t.Errorf("users = %d after rollback, want 0", got)
	}
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate")
			}
		}()
		_ = db.WithTx(ctx, func(q database.Querier) error {
			if _, err := insertUser(ctx, q, "Ann", "ann@example.com"); err != nil {
				return err
			}
			panic("split engine exploded")
		})
	}()

	if got := countUsers(t, db); got != 0 {
		t.Errorf("users = %d after panic, want 0", got)
	}
}

func TestConstraintErrorsAreMapped(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	if _, err := insertUser(ctx, db, "Ann", "ann@example.com"); err != nil {
		t.Fatal(err)
	}
	_, err := insertUser(ctx, db, "Ann Again", "ann@example.com")
	if !database.IsDuplicateKey(err) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateKey", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO groups (name, created_by, created_at) VALUES (?, ?, ?)`,
		"Trip", 999, database.Now(),
	)
	if !database.IsForeignKeyViolation(err) {
		t.Errorf("missing creator: got %v, want ErrForeignKeyViolation", err)
	}

	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, 42).Scan(&name)
	if !database.IsNotFound(err) {
		t.Errorf("missing row: got %v, want ErrNotFound", err)
	}
}

func TestMigratorVersion(t *testing.T) {
	cfg := dbtest.Config(t)

	mg, err := database.NewMigrator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer mg.Close()

	if v, _, err := mg.Version(); err != nil || v != 0 {
		t.Fatalf("fresh store version = %d, %v", v, err)
	}
	if err := mg.Up(); err != nil {
		t.Fatal(err)
	}
	if err := mg.Up(); err != nil {
		t.Fatalf("second Up should be a no-op: %v", err)
	}

	v, dirty, err := mg.Version()
	if err != nil || dirty || v != 1 {
		t.Errorf("Version() = %d, %v, %v; want 1, false, nil", v, dirty, err)
	}

	if err := mg.Down(1); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := mg.Version(); v != 0 {
		t.Errorf("after Down(1) version = %d, want 0", v)
	}
}
