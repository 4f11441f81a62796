package balance

import (
	"context"
	"fmt"

	"github.com/fkhayef/splitledger/internal/database"
)

// Repository reads the rows balances are computed from
type Repository struct {
	q database.Querier
}

// NewRepository creates a balance repository bound to q
func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

// Entries returns every split the user holds and every split on an expense the user created
func (r *Repository) Entries(ctx context.Context, userID int64) ([]Entry, error) {
	query := `
		SELECT s.expense_id, s.user_id, su.name, e.created_by, cu.name,
		       COALESCE(e.group_id, 0), COALESCE(g.name, ''), s.amount
		FROM splits s
		JOIN expenses e ON e.id = s.expense_id
		JOIN users su ON su.id = s.user_id
		JOIN users cu ON cu.id = e.created_by
		LEFT JOIN groups g ON g.id = e.group_id
		WHERE s.user_id = ? OR e.created_by = ?
		ORDER BY s.id
	`

	rows, err := r.q.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.ExpenseID,
			&e.ParticipantID,
			&e.ParticipantName,
			&e.CreatorID,
			&e.CreatorName,
			&e.GroupID,
			&e.GroupName,
			&e.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Memberships returns the user's group memberships with group names
func (r *Repository) Memberships(ctx context.Context, userID int64) ([]Membership, error) {
	query := `
		SELECT gm.group_id, g.name, gm.user_id
		FROM group_members gm
		JOIN groups g ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY gm.id
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	defer rows.Close()

	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.GroupID, &m.GroupName, &m.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}
