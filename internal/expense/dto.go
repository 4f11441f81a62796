package expense

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/expense/split"
)

// CreateExpenseRequest represents the request to create an expense.
// Participants is ignored when GroupID is set: every member shares a group expense.
type CreateExpenseRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string" example:"30.00"`
	GroupID      *int64          `json:"group_id,omitempty"`
	Participants []int64         `json:"participants,omitempty"`
	SplitType    split.SplitType `json:"split_type,omitempty" swaggertype:"string" example:"EVEN"`
}

// Normalize trims the description and rounds the amount to cents.
func (r *CreateExpenseRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
	r.Amount = split.RoundAmount(r.Amount)
}

// Validate reports the first invalid field.
func (r *CreateExpenseRequest) Validate() error {
	if r.Description == "" {
		return apperr.Invalid("description", "is required")
	}
	if len(r.Description) > 255 {
		return apperr.Invalid("description", "must be at most 255 characters")
	}
	if !r.Amount.IsPositive() {
		return apperr.Invalid("amount", "must be greater than zero")
	}
	if r.Amount.GreaterThan(split.MaxAmount) {
		return apperr.Invalid("amount", "must be at most "+split.MaxAmount.StringFixed(2))
	}
	if r.GroupID != nil && *r.GroupID <= 0 {
		return apperr.Invalid("group_id", "must be a positive integer")
	}
	for _, id := range r.Participants {
		if id <= 0 {
			return apperr.Invalid("participants", "must contain positive user ids")
		}
	}
	return nil
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	Description string           `json:"description"`
	Amount      string           `json:"amount"`
	CreatedBy   int64            `json:"created_by"`
	CreatorName string           `json:"creator_name,omitempty"`
	GroupID     *int64           `json:"group_id,omitempty"`
	CreatedAt   string           `json:"created_at"`
	Splits      []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID        int64  `json:"id"`
	ExpenseID int64  `json:"expense_id"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Amount    string `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		CreatedBy:   e.CreatedBy,
		CreatorName: e.CreatorName,
		GroupID:     e.GroupID,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:        s.ID,
		ExpenseID: s.ExpenseID,
		UserID:    s.UserID,
		UserName:  s.UserName,
		Amount:    s.Amount.StringFixed(2),
	}
}

// ToResponse converts the expense and its splits
func (e *ExpenseWithSplits) ToResponse() *ExpenseResponse {
	resp := e.Expense.ToResponse()
	resp.Splits = make([]*SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		resp.Splits[i] = s.ToResponse()
	}
	return resp
}
