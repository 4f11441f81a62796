package friend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/database/dbtest"
	"github.com/fkhayef/splitledger/internal/metrics"
	"github.com/fkhayef/splitledger/internal/user"
)

func setup(t *testing.T, names ...string) (*database.DB, *Service, []int64) {
	t.Helper()
	db := dbtest.New(t)
	users := user.NewRepository(db)

	ids := make([]int64, len(names))
	for i, name := range names {
		u, err := users.Create(context.Background(), name, name+"@example.com")
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = u.ID
	}
	return db, NewService(db, dbtest.Logger(), nil), ids
}

func countFriendships(t *testing.T, db *database.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM friendships`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAddTwiceFailsWithDuplicate(t *testing.T) {
	db, svc, ids := setup(t, "ann", "bob")
	ann, bob := ids[0], ids[1]
	ctx := context.Background()

	f, err := svc.Add(ctx, ann, bob)
	if err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if f.FriendName != "bob" {
		t.Errorf("friend name = %q", f.FriendName)
	}

	_, err = svc.Add(ctx, ann, bob)
	var dup *apperr.DuplicateRelationError
	if !errors.As(err, &dup) {
		t.Fatalf("second Add err = %v, want DuplicateRelationError", err)
	}
	if dup.Relation != apperr.RelationFriendship || dup.UserID != ann || dup.OtherID != bob {
		t.Errorf("duplicate fields = %+v", dup)
	}

	if n := countFriendships(t, db); n != 1 {
		t.Errorf("friendships = %d, want exactly 1", n)
	}
}

func TestFriendshipIsDirected(t *testing.T) {
	_, svc, ids := setup(t, "ann", "bob")
	ann, bob := ids[0], ids[1]
	ctx := context.Background()

	if _, err := svc.Add(ctx, ann, bob); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, bob, ann); err != nil {
		t.Errorf("reverse pair is a different friendship: %v", err)
	}

	friends, err := svc.List(ctx, ann)
	if err != nil || len(friends) != 1 || friends[0].FriendUserID != bob {
		t.Errorf("List(ann) = %+v, %v", friends, err)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	_, svc, ids := setup(t, "ann")
	ann := ids[0]
	ctx := context.Background()

	if _, err := svc.Add(ctx, ann, ann); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("self friendship err = %v", err)
	}

	_, err := svc.Add(ctx, ann, 999)
	var nf *apperr.UserNotFoundError
	if !errors.As(err, &nf) || nf.UserID != 999 {
		t.Errorf("unknown friend err = %v", err)
	}

	if _, err := svc.List(ctx, 999); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Errorf("List(unknown) err = %v", err)
	}
}

func TestAddNotifiesFriend(t *testing.T) {
	db, svc, ids := setup(t, "ann", "bob")
	ctx := context.Background()

	if _, err := svc.Add(ctx, ids[0], ids[1]); err != nil {
		t.Fatal(err)
	}

	var msg string
	err := db.QueryRowContext(ctx, `SELECT message FROM notifications WHERE recipient_id = ?`, ids[1]).Scan(&msg)
	if err != nil || msg != "ann added you as a friend" {
		t.Errorf("notification = %q, %v", msg, err)
	}
}

func TestFriendIDs(t *testing.T) {
	db, svc, ids := setup(t, "ann", "bob", "cat")
	ctx := context.Background()

	for _, id := range ids[1:] {
		if _, err := svc.Add(ctx, ids[0], id); err != nil {
			t.Fatal(err)
		}
	}

	set, err := NewRepository(db).FriendIDs(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 || !set[ids[1]] || !set[ids[2]] {
		t.Errorf("FriendIDs = %v", set)
	}
}

func TestRejectionsAreCounted(t *testing.T) {
	db, _, ids := setup(t, "ann", "bob")
	ann, bob := ids[0], ids[1]
	m := metrics.New()
	svc := NewService(db, dbtest.Logger(), m)
	ctx := context.Background()

	if _, err := svc.Add(ctx, ann, bob); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, ann, bob); err == nil {
		t.Fatal("duplicate Add succeeded")
	}
	if _, err := svc.Add(ctx, ann, ann); err == nil {
		t.Fatal("self Add succeeded")
	}

	want := `
# HELP splitledger_domain_errors_total Failed operations, by error kind.
# TYPE splitledger_domain_errors_total counter
splitledger_domain_errors_total{kind="DUPLICATE_RELATION"} 1
splitledger_domain_errors_total{kind="INVALID_INPUT"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "splitledger_domain_errors_total"); err != nil {
		t.Error(err)
	}
}
