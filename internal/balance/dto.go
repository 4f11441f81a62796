package balance

import "github.com/shopspring/decimal"

// SummaryResponse represents a user's net balance
type SummaryResponse struct {
	UserID     int64  `json:"user_id"`
	OwedByUser string `json:"owed_by_user" example:"15.00"`
	OwedToUser string `json:"owed_to_user" example:"0.00"`
	Net        string `json:"net" example:"15.00"`
	Message    string `json:"message" example:"You owe 15.00"`
}

// CounterpartyResponse is the running total against one user
type CounterpartyResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// CounterpartiesResponse represents the per-user breakdown
type CounterpartiesResponse struct {
	Owes   []CounterpartyResponse `json:"owes"`
	OwedBy []CounterpartyResponse `json:"owed_by"`
	ByName map[string]string      `json:"by_name"`
}

// GroupTotalResponse is the user's share total within one group
type GroupTotalResponse struct {
	GroupID int64  `json:"group_id"`
	Name    string `json:"name"`
	Amount  string `json:"amount"`
}

// GroupsResponse represents the per-group breakdown
type GroupsResponse struct {
	Groups []string             `json:"groups"`
	Owed   []GroupTotalResponse `json:"owed"`
	ByName map[string]string    `json:"by_name"`
}

// ToResponse converts a Summary to a SummaryResponse DTO
func (s Summary) ToResponse() *SummaryResponse {
	return &SummaryResponse{
		UserID:     s.UserID,
		OwedByUser: s.OwedByUser.StringFixed(2),
		OwedToUser: s.OwedToUser.StringFixed(2),
		Net:        s.Net.StringFixed(2),
		Message:    s.Message(),
	}
}

func counterparties(cs []Counterparty) []CounterpartyResponse {
	out := make([]CounterpartyResponse, len(cs))
	for i, c := range cs {
		out[i] = CounterpartyResponse{UserID: c.UserID, Name: c.Name, Amount: c.Amount.StringFixed(2)}
	}
	return out
}

func fixed(m map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.StringFixed(2)
	}
	return out
}

// ToResponse converts a CounterpartyReport. ByName covers what the user owes.
func (r *CounterpartyReport) ToResponse() *CounterpartiesResponse {
	return &CounterpartiesResponse{
		Owes:   counterparties(r.Owes),
		OwedBy: counterparties(r.OwedBy),
		ByName: fixed(ByName(r.Owes)),
	}
}

// ToResponse converts a GroupReport
func (r *GroupReport) ToResponse() *GroupsResponse {
	owed := make([]GroupTotalResponse, len(r.Owed))
	for i, g := range r.Owed {
		owed[i] = GroupTotalResponse{GroupID: g.GroupID, Name: g.Name, Amount: g.Amount.StringFixed(2)}
	}
	return &GroupsResponse{
		Groups: r.Groups,
		Owed:   owed,
		ByName: fixed(GroupsByName(r.Owed)),
	}
}
