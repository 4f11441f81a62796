// Package split computes how an expense amount is divided among its participants.
package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType defines the type of split strategy
type SplitType string

// MaxAmount is the largest amount the store holds: NUMERIC(14,2).
var MaxAmount = decimal.RequireFromString("999999999999.99")

// SplitTypeEven is the only supported type: every participant owes the same share.
const SplitTypeEven SplitType = "EVEN"

// Share is one participant's owed amount of an expense
type Share struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes one share per participant, in participant order
	Calculate(total decimal.Decimal, participants []int64) ([]Share, error)

	// Type returns the type identifier for this strategy
	Type() SplitType

	// Validate checks if the inputs are valid for this strategy
	Validate(total decimal.Decimal, participants []int64) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewSplitStrategyFactory creates a new factory instance
func NewSplitStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for splitType. An empty type means EVEN.
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEven, "":
		return &EvenStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSplitType, splitType)
	}
}

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNonPositiveAmount    = errors.New("amount must be greater than zero")
	ErrAmountTooLarge       = errors.New("amount must be at most " + MaxAmount.StringFixed(2))
	ErrDuplicateParticipant = errors.New("participants must be unique")
	ErrUnsupportedSplitType = errors.New("unsupported split type")
)

// RoundAmount rounds to cents with banker's rounding.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Sum adds up the shares.
func Sum(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}

func validateParticipants(participants []int64) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	seen := make(map[int64]bool, len(participants))
	for _, id := range participants {
		if seen[id] {
			return fmt.Errorf("%w: user %d", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}
	return nil
}
