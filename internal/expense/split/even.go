package split

import "github.com/shopspring/decimal"

// =============================================================================
// EVEN SPLIT STRATEGY
// Divides the expense equally among all participants, creator included
// =============================================================================

// EvenStrategy implements the Strategy interface for even splits
type EvenStrategy struct{}

// Type returns the split type identifier
func (s *EvenStrategy) Type() SplitType {
	return SplitTypeEven
}

// Validate checks if the inputs are valid for an even split
func (s *EvenStrategy) Validate(total decimal.Decimal, participants []int64) error {
	rounded := RoundAmount(total)
	if !rounded.IsPositive() {
		return ErrNonPositiveAmount
	}
	if rounded.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return validateParticipants(participants)
}

// Calculate gives every participant total/n rounded down to the cent, then
// hands the leftover cents, one each, to the first participants in order.
// The shares always sum to the rounded total.
func (s *EvenStrategy) Calculate(total decimal.Decimal, participants []int64) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	cents := RoundAmount(total).Shift(2)
	base, rem := cents.QuoRem(decimal.NewFromInt(int64(len(participants))), 0)
	leftover := int(rem.IntPart())

	shares := make([]Share, len(participants))
	for i, userID := range participants {
		c := base
		if i < leftover {
			c = c.Add(decimal.NewFromInt(1))
		}
		shares[i] = Share{UserID: userID, Amount: c.Shift(-2)}
	}
	return shares, nil
}

// Even splits total evenly among participants.
func Even(total decimal.Decimal, participants []int64) ([]Share, error) {
	return (&EvenStrategy{}).Calculate(total, participants)
}
