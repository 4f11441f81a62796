package balance

import (
	"context"
	"log/slog"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/user"
)

// Service computes balances from the store
type Service struct {
	db     *database.DB
	logger *slog.Logger
}

// NewService creates a new balance service
func NewService(db *database.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CounterpartyReport lists what the user owes others and what others owe the user
type CounterpartyReport struct {
	Owes   []Counterparty
	OwedBy []Counterparty
}

// GroupReport lists the user's groups and their share total in each
type GroupReport struct {
	Groups []string
	Owed   []GroupTotal
}

func (s *Service) entries(ctx context.Context, userID int64) ([]Entry, error) {
	if _, err := user.NewRepository(s.db).Require(ctx, userID); err != nil {
		return nil, err
	}

	entries, err := NewRepository(s.db).Entries(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("load balance entries", err)
	}
	s.logger.Debug("Balance entries loaded", "user_id", userID, "entries", len(entries))
	return entries, nil
}

// Net returns the user's net balance
func (s *Service) Net(ctx context.Context, userID int64) (Summary, error) {
	entries, err := s.entries(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return NetBalance(userID, entries), nil
}

// Counterparties returns the per-user breakdown in both directions
func (s *Service) Counterparties(ctx context.Context, userID int64) (*CounterpartyReport, error) {
	entries, err := s.entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CounterpartyReport{
		Owes:   OwedPerCounterparty(userID, entries),
		OwedBy: OwedByCounterparty(userID, entries),
	}, nil
}

// Groups returns the user's groups and per-group share totals
func (s *Service) Groups(ctx context.Context, userID int64) (*GroupReport, error) {
	entries, err := s.entries(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberships, err := NewRepository(s.db).Memberships(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("load memberships", err)
	}

	return &GroupReport{
		Groups: GroupsOf(userID, memberships),
		Owed:   OwedPerGroup(userID, entries),
	}, nil
}
