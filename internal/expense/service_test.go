package expense

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/database/dbtest"
	"github.com/fkhayef/splitledger/internal/friend"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/internal/user"
)

// ============================================================================
// Fixtures
// ============================================================================

type fixture struct {
	db  *database.DB
	svc *Service
	ids map[string]int64
}

func setup(t *testing.T, names ...string) *fixture {
	t.Helper()
	db := dbtest.New(t)
	f := &fixture{db: db, svc: NewService(db, dbtest.Logger(), metrics.New()), ids: map[string]int64{}}

	for _, name := range names {
		u, err := user.NewRepository(db).Create(context.Background(), name, name+"@example.com")
		if err != nil {
			t.Fatal(err)
		}
		f.ids[name] = u.ID
	}
	return f
}

func (f *fixture) befriend(t *testing.T, from, to string) {
	t.Helper()
	if _, err := friend.NewRepository(f.db).Create(context.Background(), f.ids[from], f.ids[to]); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) group(t *testing.T, name, creator string, members ...string) int64 {
	t.Helper()
	ctx := context.Background()
	svc := group.NewService(f.db, dbtest.Logger(), nil)
	g, err := svc.Create(ctx, f.ids[creator], &group.CreateGroupRequest{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range members {
		if _, err := svc.AddMember(ctx, f.ids[creator], g.ID, f.ids[m]); err != nil {
			t.Fatal(err)
		}
	}
	return g.ID
}

func (f *fixture) counts(t *testing.T) (int, int) {
	t.Helper()
	e, s, err := NewRepository(f.db).Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return e, s
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func shares(splits []*Split) map[int64]string {
	out := make(map[int64]string, len(splits))
	for _, s := range splits {
		out[s.UserID] = s.Amount.StringFixed(2)
	}
	return out
}

// ============================================================================
// Create
// ============================================================================

func TestCreateFriendsExpenseSplitsEvenly(t *testing.T) {
	f := setup(t, "A", "B", "C")
	f.befriend(t, "A", "B")

	res, err := f.svc.Create(context.Background(), f.ids["A"], &CreateExpenseRequest{
		Description:  "lunch",
		Amount:       amount("30"),
		Participants: []int64{f.ids["B"]},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if res.Expense.GroupID != nil {
		t.Errorf("friends expense has group %v", *res.Expense.GroupID)
	}
	got := shares(res.Splits)
	if len(got) != 2 || got[f.ids["A"]] != "15.00" || got[f.ids["B"]] != "15.00" {
		t.Errorf("splits = %v, want 15.00 each for A and B", got)
	}

	// Stored rows read back the same.
	stored, err := f.svc.GetByID(context.Background(), res.Expense.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Expense.Amount.Equal(amount("30")) || stored.Expense.CreatorName != "A" {
		t.Errorf("stored expense = %+v", stored.Expense)
	}
	if len(stored.Splits) != 2 || stored.Splits[0].UserID != f.ids["A"] {
		t.Errorf("stored splits = %+v", stored.Splits)
	}
}

func TestCreateGroupExpenseUsesAllMembers(t *testing.T) {
	f := setup(t, "A", "B", "C")
	gid := f.group(t, "G", "A", "B", "C")

	// Participants are ignored for group expenses.
	res, err := f.svc.Create(context.Background(), f.ids["A"], &CreateExpenseRequest{
		Description:  "cabin",
		Amount:       amount("30"),
		GroupID:      &gid,
		Participants: []int64{f.ids["B"]},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if res.Expense.GroupID == nil || *res.Expense.GroupID != gid {
		t.Errorf("group id = %v, want %d", res.Expense.GroupID, gid)
	}
	got := shares(res.Splits)
	if len(got) != 3 {
		t.Fatalf("got %d splits, want 3", len(got))
	}
	for name, id := range f.ids {
		if got[id] != "10.00" {
			t.Errorf("%s owes %s, want 10.00", name, got[id])
		}
	}
}

func TestCreateWithNonFriendLeavesNoRows(t *testing.T) {
	f := setup(t, "A", "B", "C")
	f.befriend(t, "A", "B")

	_, err := f.svc.Create(context.Background(), f.ids["A"], &CreateExpenseRequest{
		Description:  "lunch",
		Amount:       amount("30"),
		Participants: []int64{f.ids["B"], f.ids["C"]},
	})

	var nf *apperr.NotFriendsError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFriendsError", err)
	}
	if !slices.Equal(nf.UserIDs, []int64{f.ids["C"]}) {
		t.Errorf("missing = %v, want [%d]", nf.UserIDs, f.ids["C"])
	}
	if e, s := f.counts(t); e != 0 || s != 0 {
		t.Errorf("rows after failure: %d expenses, %d splits", e, s)
	}
}

func TestCreateGroupExpenseByOutsider(t *testing.T) {
	f := setup(t, "A", "B", "D")
	gid := f.group(t, "G", "A", "B")

	_, err := f.svc.Create(context.Background(), f.ids["D"], &CreateExpenseRequest{
		Description: "crash",
		Amount:      amount("10"),
		GroupID:     &gid,
	})
	if !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Errorf("err = %v, want NotAuthorized", err)
	}

	missing := int64(999)
	_, err = f.svc.Create(context.Background(), f.ids["A"], &CreateExpenseRequest{
		Description: "ghost",
		Amount:      amount("10"),
		GroupID:     &missing,
	})
	if !errors.Is(err, apperr.ErrGroupNotFound) {
		t.Errorf("err = %v, want GroupNotFound", err)
	}

	if e, s := f.counts(t); e != 0 || s != 0 {
		t.Errorf("rows after failure: %d expenses, %d splits", e, s)
	}
}

func TestCreateDedupesCreator(t *testing.T) {
	f := setup(t, "A", "B")
	f.befriend(t, "A", "B")

	res, err := f.svc.Create(context.Background(), f.ids["A"], &CreateExpenseRequest{
		Description:  "taxi",
		Amount:       amount("20"),
		Participants: []int64{f.ids["A"], f.ids["B"], f.ids["B"]},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(res.Splits) != 2 {
		t.Fatalf("got %d splits, want 2", len(res.Splits))
	}
	for _, s := range res.Splits {
		if s.Amount.StringFixed(2) != "10.00" {
			t.Errorf("user %d owes %s, want 10.00", s.UserID, s.Amount)
		}
	}
}

func TestCreateSplitsSumToAmount(t *testing.T) {
	f := setup(t, "A", "B", "C")
	gid := f.group(t, "G", "A", "B", "C")

	for _, raw := range []string{"10", "0.01", "100.01", "33.333", "7.77", "999999999999.99"} {
		res, err := f.svc.Create(context.Background(), f.ids["B"], &CreateExpenseRequest{
			Description: "item " + raw,
			Amount:      amount(raw),
			GroupID:     &gid,
		})
		if err != nil {
			t.Fatalf("Create(%s): %v", raw, err)
		}

		sum := decimal.Zero
		for _, s := range res.Splits {
			sum = sum.Add(s.Amount)
		}
		if !sum.Equal(res.Expense.Amount) {
			t.Errorf("amount %s: splits sum to %s, expense stores %s", raw, sum, res.Expense.Amount)
		}
	}

	// 10 over three: the creator takes the extra cent.
	res, err := f.svc.Create(context.Background(), f.ids["B"], &CreateExpenseRequest{
		Description: "ten",
		Amount:      amount("10"),
		GroupID:     &gid,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := shares(res.Splits)
	if got[f.ids["B"]] != "3.34" || got[f.ids["A"]] != "3.33" || got[f.ids["C"]] != "3.33" {
		t.Errorf("splits = %v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	f := setup(t, "A")

	tests := []struct {
		name  string
		req   CreateExpenseRequest
		field string
	}{
		{"missing description", CreateExpenseRequest{Description: "  ", Amount: amount("5")}, "description"},
		{"zero amount", CreateExpenseRequest{Description: "x", Amount: decimal.Zero}, "amount"},
		{"negative amount", CreateExpenseRequest{Description: "x", Amount: amount("-3")}, "amount"},
		{"sub-cent amount", CreateExpenseRequest{Description: "x", Amount: amount("0.004")}, "amount"},
		{"amount above store limit", CreateExpenseRequest{Description: "x", Amount: amount("1000000000000")}, "amount"},
		{"amount past int64 cents", CreateExpenseRequest{Description: "x", Amount: amount("100000000000000000000")}, "amount"},
		{"bad participant", CreateExpenseRequest{Description: "x", Amount: amount("5"), Participants: []int64{0}}, "participants"},
		{"unsupported split", CreateExpenseRequest{Description: "x", Amount: amount("5"), SplitType: "EXACT"}, "split_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Create(context.Background(), f.ids["A"], &req)
			var inv *apperr.InvalidInputError
			if !errors.As(err, &inv) || inv.Field != tt.field {
				t.Errorf("err = %v, want invalid %s", err, tt.field)
			}
		})
	}

	if _, err := f.svc.Create(context.Background(), 999, &CreateExpenseRequest{Description: "x", Amount: amount("5")}); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("unknown creator err = %v", err)
	}
	if e, s := f.counts(t); e != 0 || s != 0 {
		t.Errorf("rows after rejected input: %d expenses, %d splits", e, s)
	}
}

func TestCreateRollsBackExpenseWhenSplitInsertFails(t *testing.T) {
	f := setup(t, "A", "B")
	f.befriend(t, "A", "B")
	ctx := context.Background()

	_, err := f.db.ExecContext(ctx, `CREATE TRIGGER reject_splits BEFORE INSERT ON splits
		BEGIN SELECT RAISE(ABORT, 'splits are read-only'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	_, err = f.svc.Create(ctx, f.ids["A"], &CreateExpenseRequest{
		Description:  "lunch",
		Amount:       amount("30"),
		Participants: []int64{f.ids["B"]},
	})
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("err = %v, want persistence error", err)
	}
	if e, s := f.counts(t); e != 0 || s != 0 {
		t.Errorf("rows after failed split insert: %d expenses, %d splits", e, s)
	}

	unread, err := notification.NewRepository(f.db).GetUnreadCount(ctx, f.ids["B"])
	if err != nil {
		t.Fatal(err)
	}
	if unread != 0 {
		t.Errorf("B has %d notifications, want 0", unread)
	}
}

func TestCreateNotifiesOtherParticipants(t *testing.T) {
	f := setup(t, "A", "B")
	f.befriend(t, "A", "B")

	_, err := f.svc.Create(context.Background(), f.ids["A"], &CreateExpenseRequest{
		Description:  "lunch",
		Amount:       amount("30"),
		Participants: []int64{f.ids["B"]},
	})
	if err != nil {
		t.Fatal(err)
	}

	inbox := notification.NewRepository(f.db)
	forB, err := inbox.ListByRecipientID(context.Background(), f.ids["B"], false)
	if err != nil {
		t.Fatal(err)
	}
	if len(forB) != 1 || forB[0].Message != `A added "lunch" and your share is 15.00` {
		t.Errorf("B's notifications = %+v", forB)
	}

	forA, err := inbox.ListByRecipientID(context.Background(), f.ids["A"], false)
	if err != nil {
		t.Fatal(err)
	}
	if len(forA) != 0 {
		t.Errorf("creator notified about own expense: %+v", forA)
	}
}

// ============================================================================
// Reads
// ============================================================================

func TestListings(t *testing.T) {
	ctx := context.Background()
	f := setup(t, "A", "B", "C")
	f.befriend(t, "A", "B")
	gid := f.group(t, "G", "B", "C")

	first, err := f.svc.Create(ctx, f.ids["A"], &CreateExpenseRequest{Description: "lunch", Amount: amount("30"), Participants: []int64{f.ids["B"]}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.Create(ctx, f.ids["B"], &CreateExpenseRequest{Description: "cabin", Amount: amount("90"), GroupID: &gid})
	if err != nil {
		t.Fatal(err)
	}

	ids := func(es []*Expense) []int64 {
		out := make([]int64, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}

	byA, err := f.svc.ListByCreator(ctx, f.ids["A"])
	if err != nil || !slices.Equal(ids(byA), []int64{first.Expense.ID}) {
		t.Errorf("ListByCreator(A) = %v, %v", ids(byA), err)
	}

	forB, err := f.svc.ListByParticipant(ctx, f.ids["B"])
	if err != nil || !slices.Equal(ids(forB), []int64{second.Expense.ID, first.Expense.ID}) {
		t.Errorf("ListByParticipant(B) = %v, %v", ids(forB), err)
	}

	inG, err := f.svc.ListByGroup(ctx, gid)
	if err != nil || !slices.Equal(ids(inG), []int64{second.Expense.ID}) {
		t.Errorf("ListByGroup = %v, %v", ids(inG), err)
	}

	if _, err := f.svc.ListByCreator(ctx, 999); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("ListByCreator(999) err = %v", err)
	}
	if _, err := f.svc.ListByGroup(ctx, 999); !errors.Is(err, apperr.ErrGroupNotFound) {
		t.Errorf("ListByGroup(999) err = %v", err)
	}
	if _, err := f.svc.GetByID(ctx, 999); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("GetByID(999) err = %v", err)
	}
}
