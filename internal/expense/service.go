package expense

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/expense/participant"
	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/user"
)

// ErrExpenseNotFound is returned when a referenced expense does not exist
var ErrExpenseNotFound = errors.New("expense not found")

// Service handles expense business logic
type Service struct {
	db           *database.DB
	logger       *slog.Logger
	metrics      *metrics.Metrics
	splitFactory *split.Factory
}

// NewService creates a new expense service. m may be nil.
func NewService(db *database.DB, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		db:           db,
		logger:       logger,
		metrics:      m,
		splitFactory: split.NewSplitStrategyFactory(),
	}
}

// Create records an expense and one split per participant as a single unit of
// work. Participants other than the creator are notified of their share. On
// any failure nothing is written.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	result, err := s.create(ctx, creatorID, req)
	if err != nil {
		s.metrics.DomainError(err)
		s.logger.Warn("Expense rejected", "user_id", creatorID, "error", err)
		return nil, err
	}

	s.metrics.ExpenseCreated(result.Expense.Kind(), len(result.Splits))
	s.logger.Info("Expense created",
		"expense_id", result.Expense.ID,
		"user_id", creatorID,
		"kind", result.Expense.Kind(),
		"amount", result.Expense.Amount.StringFixed(2),
		"splits", len(result.Splits),
	)
	return result, nil
}

func (s *Service) create(ctx context.Context, creatorID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	strategy, err := s.splitFactory.Create(req.SplitType)
	if err != nil {
		return nil, apperr.Invalid("split_type", err.Error())
	}

	pr := participant.Request{CreatorID: creatorID, GroupID: req.GroupID, UserIDs: req.Participants}
	resolver := participant.For(pr)

	var result *ExpenseWithSplits
	err = s.db.WithTx(ctx, func(q database.Querier) error {
		participants, err := resolver.Resolve(ctx, q, pr)
		if err != nil {
			return err
		}

		shares, err := strategy.Calculate(req.Amount, participants)
		if err != nil {
			return apperr.Invalid("amount", err.Error())
		}

		creator, err := user.NewRepository(q).Require(ctx, creatorID)
		if err != nil {
			return err
		}

		repo := NewRepository(q)
		e, err := repo.CreateExpense(ctx, req.Description, req.Amount, creatorID, req.GroupID)
		if err != nil {
			return apperr.Persistence("create expense", err)
		}
		e.CreatorName = creator.Name

		notifications := notification.NewRepository(q)
		splits := make([]*Split, 0, len(shares))
		for _, share := range shares {
			sp, err := repo.CreateSplit(ctx, e.ID, share.UserID, share.Amount)
			if err != nil {
				return apperr.Persistence("create split", err)
			}
			splits = append(splits, sp)

			if share.UserID == creatorID {
				continue
			}
			err = notifications.NotifySplitAssigned(ctx, share.UserID, creator.Name, e.Description, share.Amount.StringFixed(2), e.ID)
			if err != nil {
				return apperr.Persistence("notify participant", err)
			}
		}

		result = &ExpenseWithSplits{Expense: e, Splits: splits}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves an expense with its splits
func (s *Service) GetByID(ctx context.Context, id int64) (*ExpenseWithSplits, error) {
	repo := NewRepository(s.db)

	e, err := repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get expense", err)
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("get splits", err)
	}

	return &ExpenseWithSplits{Expense: e, Splits: splits}, nil
}

// ListByCreator returns the expenses the user created
func (s *Service) ListByCreator(ctx context.Context, userID int64) ([]*Expense, error) {
	if _, err := user.NewRepository(s.db).Require(ctx, userID); err != nil {
		return nil, err
	}

	expenses, err := NewRepository(s.db).ListByCreator(ctx, userID)
	return expenses, apperr.Persistence("list expenses", err)
}

// ListByParticipant returns the expenses the user has a share in
func (s *Service) ListByParticipant(ctx context.Context, userID int64) ([]*Expense, error) {
	if _, err := user.NewRepository(s.db).Require(ctx, userID); err != nil {
		return nil, err
	}

	expenses, err := NewRepository(s.db).ListByParticipant(ctx, userID)
	return expenses, apperr.Persistence("list expenses", err)
}

// ListByGroup returns the group's expenses
func (s *Service) ListByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	if _, err := group.NewRepository(s.db).Require(ctx, groupID); err != nil {
		return nil, err
	}

	expenses, err := NewRepository(s.db).ListByGroup(ctx, groupID)
	return expenses, apperr.Persistence("list expenses", err)
}
