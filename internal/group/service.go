package group

import (
	"context"
	"log/slog"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/user"
)

// Service handles group business logic
type Service struct {
	db      *database.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService creates a new group service. m may be nil.
func NewService(db *database.DB, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{db: db, logger: logger, metrics: m}
}

// Create creates a group and adds the creator as its first member in the same transaction
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	if err := req.Validate(); err != nil {
		s.metrics.DomainError(err)
		return nil, err
	}

	var created *Group
	err := s.db.WithTx(ctx, func(q database.Querier) error {
		if _, err := user.NewRepository(q).Require(ctx, creatorID); err != nil {
			return err
		}

		repo := NewRepository(q)
		g, err := repo.Create(ctx, req.Name, creatorID)
		if err != nil {
			return apperr.Persistence("create group", err)
		}
		if _, err := repo.AddMember(ctx, g.ID, creatorID, creatorID); err != nil {
			return apperr.Persistence("add group creator", err)
		}

		created = g
		return nil
	})
	if err != nil {
		s.metrics.DomainError(err)
		s.logger.Warn("Group rejected", "user_id", creatorID, "error", err)
		return nil, err
	}

	s.logger.Info("Group created", "group_id", created.ID, "user_id", creatorID)
	return created, nil
}

// AddMember adds userID to the group on behalf of actorID. The actor must be
// the group's creator or already a member.
func (s *Service) AddMember(ctx context.Context, actorID, groupID, userID int64) (*GroupMember, error) {
	var added *GroupMember
	err := s.db.WithTx(ctx, func(q database.Querier) error {
		repo := NewRepository(q)
		users := user.NewRepository(q)

		g, err := repo.Require(ctx, groupID)
		if err != nil {
			return err
		}
		member, err := users.Require(ctx, userID)
		if err != nil {
			return err
		}

		if actorID != g.CreatedBy {
			ok, err := repo.IsMember(ctx, groupID, actorID)
			if err != nil {
				return apperr.Persistence("check actor membership", err)
			}
			if !ok {
				return &apperr.NotAuthorizedError{ActorID: actorID, GroupID: groupID}
			}
		}

		exists, err := repo.IsMember(ctx, groupID, userID)
		if err != nil {
			return apperr.Persistence("check membership", err)
		}
		if exists {
			return duplicate(groupID, userID)
		}

		added, err = repo.AddMember(ctx, groupID, userID, actorID)
		if database.IsDuplicateKey(err) {
			return duplicate(groupID, userID)
		}
		if err != nil {
			return apperr.Persistence("add member", err)
		}
		added.Name = member.Name
		added.Email = member.Email

		actor, err := users.Require(ctx, actorID)
		if err != nil {
			return err
		}
		return apperr.Persistence("notify member",
			notification.NewRepository(q).NotifyMemberAdded(ctx, userID, actor.Name, g.Name, groupID))
	})
	if err != nil {
		s.metrics.DomainError(err)
		s.logger.Warn("Membership rejected", "group_id", groupID, "user_id", userID, "actor_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Info("Member added", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	return added, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	return NewRepository(s.db).Require(ctx, id)
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := NewRepository(s.db).GetMembers(ctx, id)
	if err != nil {
		return nil, nil, apperr.Persistence("list members", err)
	}
	return g, members, nil
}

// ListMembers returns the group's members in join order
func (s *Service) ListMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	_, members, err := s.GetByIDWithMembers(ctx, groupID)
	return members, err
}

// ListForUser returns the groups the user belongs to
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Group, error) {
	if _, err := user.NewRepository(s.db).Require(ctx, userID); err != nil {
		return nil, err
	}

	groups, err := NewRepository(s.db).ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list groups", err)
	}
	return groups, nil
}

func duplicate(groupID, userID int64) error {
	return &apperr.DuplicateRelationError{
		Relation: apperr.RelationMembership,
		UserID:   groupID,
		OtherID:  userID,
	}
}
