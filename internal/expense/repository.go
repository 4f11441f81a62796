package expense

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/database"
)

const expenseSelect = `
	SELECT e.id, e.description, e.amount, e.created_by, e.group_id, e.created_at, u.name
	FROM expenses e
	JOIN users u ON e.created_by = u.id`

// Repository handles expense and split persistence
type Repository struct {
	q database.Querier
}

// NewRepository creates an expense repository bound to q
func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.Description,
		&e.Amount,
		&e.CreatedBy,
		&e.GroupID,
		database.ScanTime(&e.CreatedAt),
		&e.CreatorName,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateExpense inserts a new expense. Amounts are stored with two decimals.
func (r *Repository) CreateExpense(ctx context.Context, description string, amount decimal.Decimal, createdBy int64, groupID *int64) (*Expense, error) {
	query := `
		INSERT INTO expenses (description, amount, created_by, group_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at
	`

	e := &Expense{
		Description: description,
		Amount:      amount,
		CreatedBy:   createdBy,
		GroupID:     groupID,
	}
	err := r.q.QueryRowContext(ctx, query,
		description,
		amount.StringFixed(2),
		createdBy,
		groupID,
		database.Now(),
	).Scan(&e.ID, database.ScanTime(&e.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return e, nil
}

// CreateSplit inserts one participant's share of an expense
func (r *Repository) CreateSplit(ctx context.Context, expenseID, userID int64, amount decimal.Decimal) (*Split, error) {
	query := `
		INSERT INTO splits (expense_id, user_id, amount, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at
	`

	s := &Split{ExpenseID: expenseID, UserID: userID, Amount: amount}
	err := r.q.QueryRowContext(ctx, query, expenseID, userID, amount.StringFixed(2), database.Now()).
		Scan(&s.ID, database.ScanTime(&s.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create split: %w", err)
	}

	return s, nil
}

// GetExpenseByID returns nil, nil when the expense does not exist
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	e, err := scanExpense(r.q.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, id))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense in insertion order
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.created_at, u.name
		FROM splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = ?
		ORDER BY s.id
	`

	rows, err := r.q.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		s := &Split{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.Amount, database.ScanTime(&s.CreatedAt), &s.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, s)
	}

	return splits, rows.Err()
}

// ListByCreator retrieves the expenses a user created, newest first
func (r *Repository) ListByCreator(ctx context.Context, userID int64) ([]*Expense, error) {
	return r.list(ctx, expenseSelect+` WHERE e.created_by = ? ORDER BY e.id DESC`, userID)
}

// ListByParticipant retrieves the expenses a user has a split in, newest first
func (r *Repository) ListByParticipant(ctx context.Context, userID int64) ([]*Expense, error) {
	query := expenseSelect + `
		WHERE EXISTS (SELECT 1 FROM splits s WHERE s.expense_id = e.id AND s.user_id = ?)
		ORDER BY e.id DESC`
	return r.list(ctx, query, userID)
}

// ListByGroup retrieves a group's expenses, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	return r.list(ctx, expenseSelect+` WHERE e.group_id = ? ORDER BY e.id DESC`, groupID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Expense, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// Count returns the number of expense and split rows.
func (r *Repository) Count(ctx context.Context) (expenses, splits int, err error) {
	err = r.q.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM expenses), (SELECT COUNT(*) FROM splits)`,
	).Scan(&expenses, &splits)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return expenses, splits, nil
}
