package user

import (
	"context"
	"fmt"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
)

const userColumns = `id, name, email, created_at`

// Repository handles user persistence over a pool or an open transaction
type Repository struct {
	q database.Querier
}

// NewRepository creates a user repository bound to q
func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, database.ScanTime(&u.CreatedAt)); err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user
func (r *Repository) Create(ctx context.Context, name, email string) (*User, error) {
	query := `
		INSERT INTO users (name, email, created_at)
		VALUES (?, ?, ?)
		RETURNING ` + userColumns

	u, err := scanUser(r.q.QueryRowContext(ctx, query, name, email, database.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID returns nil, nil when no user has the id
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	u, err := scanUser(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns nil, nil when no user has the email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	u, err := scanUser(r.q.QueryRowContext(ctx, query, email))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// Require is GetByID that reports a missing user as UserNotFoundError.
func (r *Repository) Require(ctx context.Context, id int64) (*User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("find user", err)
	}
	if u == nil {
		return nil, &apperr.UserNotFoundError{UserID: id}
	}
	return u, nil
}

// List returns every user ordered by id
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
