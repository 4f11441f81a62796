package notification

import (
	"context"
	"fmt"

	"github.com/fkhayef/splitledger/internal/database"
)

const notificationColumns = `id, recipient_id, message, is_read, related_entity_type, related_entity_id, created_at`

// Repository handles notification persistence. Bind it to the mutation's
// transaction so the notification commits or rolls back with it.
type Repository struct {
	q database.Querier
}

// NewRepository creates a notification repository bound to q
func NewRepository(q database.Querier) *Repository {
	return &Repository{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*Notification, error) {
	n := &Notification{}
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Message,
		&n.IsRead,
		&n.RelatedEntityType,
		&n.RelatedEntityID,
		database.ScanTime(&n.CreatedAt),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a notification
func (r *Repository) Create(ctx context.Context, recipientID int64, message, entityType string, entityID int64) (*Notification, error) {
	query := `
		INSERT INTO notifications (recipient_id, message, is_read, related_entity_type, related_entity_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.q.QueryRowContext(ctx, query,
		recipientID, message, false, entityType, entityID, database.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// GetByID returns nil, nil when the notification does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`

	n, err := scanNotification(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// ListByRecipientID returns the user's notifications, newest first
func (r *Repository) ListByRecipientID(ctx context.Context, recipientID int64, unreadOnly bool) ([]*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = ?`
	args := []any{recipientID}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAsRead marks a notification as read
func (r *Repository) MarkAsRead(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE notifications SET is_read = ? WHERE id = ?`, true, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks all of a user's notifications as read and reports how many changed
func (r *Repository) MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE notifications SET is_read = ? WHERE recipient_id = ? AND is_read = ?`,
		true, recipientID, false)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return res.RowsAffected()
}

// GetUnreadCount returns the number of unread notifications for a user
func (r *Repository) GetUnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = ?`
	if err := r.q.QueryRowContext(ctx, query, recipientID, false).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// NotifySplitAssigned tells a participant their share of a new expense
func (r *Repository) NotifySplitAssigned(ctx context.Context, recipientID int64, creatorName, description, amount string, expenseID int64) error {
	message := fmt.Sprintf("%s added %q and your share is %s", creatorName, description, amount)
	_, err := r.Create(ctx, recipientID, message, EntityExpense, expenseID)
	return err
}

// NotifyFriendAdded tells a user someone added them as a friend
func (r *Repository) NotifyFriendAdded(ctx context.Context, recipientID int64, friendName string, friendID int64) error {
	_, err := r.Create(ctx, recipientID, friendName+" added you as a friend", EntityUser, friendID)
	return err
}

// NotifyMemberAdded tells a user they were added to a group
func (r *Repository) NotifyMemberAdded(ctx context.Context, recipientID int64, actorName, groupName string, groupID int64) error {
	message := fmt.Sprintf("%s added you to group %s", actorName, groupName)
	_, err := r.Create(ctx, recipientID, message, EntityGroup, groupID)
	return err
}
