package friend

import (
	"context"
	"log/slog"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/user"
)

// Service handles friendship business logic
type Service struct {
	db      *database.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a new friend service. m may be nil.
func NewService(db *database.DB, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{db: db, logger: logger, metrics: m}
}

// Add records that userID lists friendID as a friend. The pair is directed
// and may exist at most once; adding it again fails with DuplicateRelationError.
func (s *Service) Add(ctx context.Context, userID, friendID int64) (*Friendship, error) {
	created, err := s.add(ctx, userID, friendID)
	if err != nil {
		s.metrics.DomainError(err)
		s.logger.Warn("Friendship rejected", "user_id", userID, "friend_id", friendID, "error", err)
		return nil, err
	}

	s.logger.Info("Friendship created", "user_id", userID, "friend_id", friendID)
	return created, nil
}

func (s *Service) add(ctx context.Context, userID, friendID int64) (*Friendship, error) {
	if userID == friendID {
		return nil, apperr.Invalid("friend_id", "cannot befriend yourself")
	}

	var created *Friendship
	err := s.db.WithTx(ctx, func(q database.Querier) error {
		users := user.NewRepository(q)
		repo := NewRepository(q)

		u, err := users.Require(ctx, userID)
		if err != nil {
			return err
		}
		friend, err := users.Require(ctx, friendID)
		if err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, userID, friendID)
		if err != nil {
			return apperr.Persistence("check friendship", err)
		}
		if exists {
			return duplicate(userID, friendID)
		}

		// The unique key closes the window between Exists and Create.
		created, err = repo.Create(ctx, userID, friendID)
		if database.IsDuplicateKey(err) {
			return duplicate(userID, friendID)
		}
		if err != nil {
			return apperr.Persistence("create friendship", err)
		}
		created.FriendName = friend.Name
		created.FriendEmail = friend.Email

		return apperr.Persistence("notify friend",
			notification.NewRepository(q).NotifyFriendAdded(ctx, friendID, u.Name, userID))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns the friends of userID
func (s *Service) List(ctx context.Context, userID int64) ([]*Friendship, error) {
	if _, err := user.NewRepository(s.db).Require(ctx, userID); err != nil {
		return nil, err
	}

	friends, err := NewRepository(s.db).ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list friends", err)
	}
	return friends, nil
}

func duplicate(userID, friendID int64) error {
	return &apperr.DuplicateRelationError{
		Relation: apperr.RelationFriendship,
		UserID:   userID,
		OtherID:  friendID,
	}
}
