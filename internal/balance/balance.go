// Package balance aggregates split rows into what a user owes and is owed.
//
// The aggregation is pure: every function takes the user and the Entry rows
// that mention them and never touches the store. Service loads the rows.
package balance

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Entry is one split row joined with its expense's creator and group.
// GroupID is zero for expenses outside any group.
type Entry struct {
	ExpenseID       int64
	ParticipantID   int64
	ParticipantName string
	CreatorID       int64
	CreatorName     string
	GroupID         int64
	GroupName       string
	Amount          decimal.Decimal
}

// Membership is one group_members row with its group's name.
type Membership struct {
	GroupID   int64
	GroupName string
	UserID    int64
}

// Summary is a user's aggregate position. Net is OwedByUser minus OwedToUser:
// positive means the user owes money.
type Summary struct {
	UserID     int64
	OwedByUser decimal.Decimal
	OwedToUser decimal.Decimal
	Net        decimal.Decimal
}

// Message renders the summary from the user's point of view.
func (s Summary) Message() string {
	switch s.Net.Sign() {
	case 1:
		return "You owe " + s.Net.StringFixed(2)
	case -1:
		return "You are owed " + s.Net.Neg().StringFixed(2)
	}
	return "You are settled up"
}

// Counterparty is a running total against one other user.
type Counterparty struct {
	UserID int64
	Name   string
	Amount decimal.Decimal
}

// GroupTotal is a running total within one group.
type GroupTotal struct {
	GroupID int64
	Name    string
	Amount  decimal.Decimal
}

// NetBalance sums the user's shares of other people's expenses and the
// shares other people hold in the user's expenses.
func NetBalance(userID int64, entries []Entry) Summary {
	s := Summary{UserID: userID, OwedByUser: decimal.Zero, OwedToUser: decimal.Zero}
	for _, e := range entries {
		switch {
		case e.ParticipantID == userID && e.CreatorID != userID:
			s.OwedByUser = s.OwedByUser.Add(e.Amount)
		case e.CreatorID == userID && e.ParticipantID != userID:
			s.OwedToUser = s.OwedToUser.Add(e.Amount)
		}
	}
	s.Net = s.OwedByUser.Sub(s.OwedToUser)
	return s
}

// OwedPerCounterparty totals what the user owes each expense creator. It only
// looks one way: amounts the creator owes back are not netted in.
func OwedPerCounterparty(userID int64, entries []Entry) []Counterparty {
	totals := map[int64]*Counterparty{}
	for _, e := range entries {
		if e.ParticipantID != userID || e.CreatorID == userID {
			continue
		}
		add(totals, e.CreatorID, e.CreatorName, e.Amount)
	}
	return sortedCounterparties(totals)
}

// OwedByCounterparty totals what each participant owes the user on the
// user's own expenses.
func OwedByCounterparty(userID int64, entries []Entry) []Counterparty {
	totals := map[int64]*Counterparty{}
	for _, e := range entries {
		if e.CreatorID != userID || e.ParticipantID == userID {
			continue
		}
		add(totals, e.ParticipantID, e.ParticipantName, e.Amount)
	}
	return sortedCounterparties(totals)
}

// OwedPerGroup totals the user's shares per group, including shares of
// expenses the user created. Expenses outside a group are skipped.
func OwedPerGroup(userID int64, entries []Entry) []GroupTotal {
	totals := map[int64]*GroupTotal{}
	for _, e := range entries {
		if e.ParticipantID != userID || e.GroupID == 0 {
			continue
		}
		g, ok := totals[e.GroupID]
		if !ok {
			g = &GroupTotal{GroupID: e.GroupID, Name: e.GroupName, Amount: decimal.Zero}
			totals[e.GroupID] = g
		}
		g.Amount = g.Amount.Add(e.Amount)
	}

	out := make([]GroupTotal, 0, len(totals))
	for _, g := range totals {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b GroupTotal) int { return cmp.Compare(a.GroupID, b.GroupID) })
	return out
}

// GroupsOf returns the distinct names of the groups the user belongs to, sorted.
func GroupsOf(userID int64, memberships []Membership) []string {
	names := []string{}
	for _, m := range memberships {
		if m.UserID == userID {
			names = append(names, m.GroupName)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ByName keys counterparty totals by display name. Counterparties sharing a
// name are merged.
func ByName(cs []Counterparty) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(cs))
	for _, c := range cs {
		out[c.Name] = out[c.Name].Add(c.Amount)
	}
	return out
}

// GroupsByName keys group totals by group name. Groups sharing a name are merged.
func GroupsByName(gs []GroupTotal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(gs))
	for _, g := range gs {
		out[g.Name] = out[g.Name].Add(g.Amount)
	}
	return out
}

// Total sums the counterparty amounts.
func Total(cs []Counterparty) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range cs {
		sum = sum.Add(c.Amount)
	}
	return sum
}

func add(totals map[int64]*Counterparty, id int64, name string, amount decimal.Decimal) {
	c, ok := totals[id]
	if !ok {
		c = &Counterparty{UserID: id, Name: name, Amount: decimal.Zero}
		totals[id] = c
	}
	c.Amount = c.Amount.Add(amount)
}

func sortedCounterparties(totals map[int64]*Counterparty) []Counterparty {
	out := make([]Counterparty, 0, len(totals))
	for _, c := range totals {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b Counterparty) int { return cmp.Compare(a.UserID, b.UserID) })
	return out
}
