package friend

import (
	"context"
	"fmt"

	"github.com/fkhayef/splitledger/internal/database"
)

// Repository handles friendship persistence
type Repository struct {
	q database.Querier
}

// NewRepository creates a friendship repository bound to q
func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

// Create inserts the pair. A second insert of the same pair fails with database.ErrDuplicateKey.
func (r *Repository) Create(ctx context.Context, userID, friendID int64) (*Friendship, error) {
	query := `
		INSERT INTO friendships (user_id, friend_user_id, created_at)
		VALUES (?, ?, ?)
		RETURNING user_id, friend_user_id, created_at
	`

	f := &Friendship{}
	err := r.q.QueryRowContext(ctx, query, userID, friendID, database.Now()).Scan(
		&f.UserID,
		&f.FriendUserID,
		database.ScanTime(&f.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}
	return f, nil
}

// Exists reports whether userID lists friendID as a friend
func (r *Repository) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM friendships WHERE user_id = ? AND friend_user_id = ?`
	if err := r.q.QueryRowContext(ctx, query, userID, friendID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return n > 0, nil
}

// ListByUserID returns the user's friends in the order they were added
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Friendship, error) {
	query := `
		SELECT f.user_id, f.friend_user_id, f.created_at, u.name, u.email
		FROM friendships f
		JOIN users u ON u.id = f.friend_user_id
		WHERE f.user_id = ?
		ORDER BY f.created_at, f.friend_user_id
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []*Friendship{}
	for rows.Next() {
		f := &Friendship{}
		if err := rows.Scan(
			&f.UserID,
			&f.FriendUserID,
			database.ScanTime(&f.CreatedAt),
			&f.FriendName,
			&f.FriendEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// FriendIDs returns the set of users userID lists as friends
func (r *Repository) FriendIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT friend_user_id FROM friendships WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
