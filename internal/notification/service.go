package notification

import (
	"context"
	"errors"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service serves a user's notification inbox
type Service struct {
	db *database.DB
}

// NewService creates a new notification service
func NewService(db *database.DB) *Service {
	return &Service{db: db}
}

// List returns the user's notifications, newest first
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool) ([]*Notification, error) {
	notifications, err := NewRepository(s.db).ListByRecipientID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, apperr.Persistence("list notifications", err)
	}
	return notifications, nil
}

// MarkAsRead marks one of the user's notifications as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.db.WithTx(ctx, func(q database.Querier) error {
		repo := NewRepository(q)

		n, err := repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Persistence("find notification", err)
		}
		if n == nil {
			return ErrNotificationNotFound
		}
		if n.RecipientID != userID {
			return ErrNotRecipient
		}
		return apperr.Persistence("mark notification read", repo.MarkAsRead(ctx, id))
	})
}

// MarkAllAsRead marks every unread notification of the user as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	n, err := NewRepository(s.db).MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, apperr.Persistence("mark all notifications read", err)
	}
	return n, nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	count, err := NewRepository(s.db).GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, apperr.Persistence("count unread notifications", err)
	}
	return count, nil
}
