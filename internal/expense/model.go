package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/expense/participant"
)

// Expense is an amount one user paid, split evenly among its participants
type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedBy   int64           `json:"created_by"`
	GroupID     *int64          `json:"group_id,omitempty"` // nil for friends expenses
	CreatedAt   time.Time       `json:"created_at"`

	// Populated via JOIN
	CreatorName string `json:"creator_name,omitempty"`
}

// Split is one participant's share of an expense, owed to the expense creator
type Split struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}

// ExpenseWithSplits combines an expense with its calculated splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}

// Kind reports whether the expense was shared among friends or a group.
func (e *Expense) Kind() string {
	if e.GroupID != nil {
		return string(participant.KindGroup)
	}
	return string(participant.KindFriends)
}
