package group

import (
	"context"
	"fmt"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
)

// Repository handles group and membership persistence
type Repository struct {
	q database.Querier
}

// NewRepository creates a group repository bound to q
func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*Group, error) {
	g := &Group{}
	if err := row.Scan(&g.ID, &g.Name, &g.CreatedBy, database.ScanTime(&g.CreatedAt)); err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new group
func (r *Repository) Create(ctx context.Context, name string, createdBy int64) (*Group, error) {
	query := `
		INSERT INTO groups (name, created_by, created_at)
		VALUES (?, ?, ?)
		RETURNING id, name, created_by, created_at
	`

	g, err := scanGroup(r.q.QueryRowContext(ctx, query, name, createdBy, database.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return g, nil
}

// GetByID returns nil, nil when the group does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `SELECT id, name, created_by, created_at FROM groups WHERE id = ?`

	g, err := scanGroup(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// Require is GetByID that reports a missing group as GroupNotFoundError.
func (r *Repository) Require(ctx context.Context, id int64) (*Group, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("find group", err)
	}
	if g == nil {
		return nil, &apperr.GroupNotFoundError{GroupID: id}
	}
	return g, nil
}

// ListByUserID returns the groups the user currently belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY g.id
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember inserts a membership. A repeated (group, user) pair fails with database.ErrDuplicateKey.
func (r *Repository) AddMember(ctx context.Context, groupID, userID, addedBy int64) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, added_by, added_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, group_id, user_id, added_by, added_at
	`

	m := &GroupMember{}
	err := r.q.QueryRowContext(ctx, query, groupID, userID, addedBy, database.Now()).Scan(
		&m.ID,
		&m.GroupID,
		&m.UserID,
		&m.AddedBy,
		database.ScanTime(&m.AddedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return m, nil
}

// IsMember reports whether the user belongs to the group
func (r *Repository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?`
	if err := r.q.QueryRowContext(ctx, query, groupID, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}

// GetMembers returns the members of a group in the order they joined
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.added_by, gm.added_at, u.name, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = ?
		ORDER BY gm.id
	`

	rows, err := r.q.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []*GroupMember{}
	for rows.Next() {
		m := &GroupMember{}
		if err := rows.Scan(
			&m.ID,
			&m.GroupID,
			&m.UserID,
			&m.AddedBy,
			database.ScanTime(&m.AddedAt),
			&m.Name,
			&m.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CountMembers returns the number of members of a group
func (r *Repository) CountMembers(ctx context.Context, groupID int64) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_members WHERE group_id = ?`, groupID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}
