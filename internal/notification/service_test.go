package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/database/dbtest"
	"github.com/fkhayef/splitledger/internal/user"
)

func setup(t *testing.T) (*database.DB, *Service, int64, int64) {
	t.Helper()
	db := dbtest.New(t)
	ctx := context.Background()

	users := user.NewRepository(db)
	ann, err := users.Create(ctx, "Ann", "ann@example.com")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := users.Create(ctx, "Bob", "bob@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return db, NewService(db), ann.ID, bob.ID
}

func TestInboxLifecycle(t *testing.T) {
	db, svc, ann, bob := setup(t)
	ctx := context.Background()
	repo := NewRepository(db)

	if err := repo.NotifyFriendAdded(ctx, bob, "Ann", ann); err != nil {
		t.Fatal(err)
	}
	if err := repo.NotifySplitAssigned(ctx, bob, "Ann", "lunch", "15.00", 1); err != nil {
		t.Fatal(err)
	}
	if err := repo.NotifyMemberAdded(ctx, ann, "Bob", "Trip", 1); err != nil {
		t.Fatal(err)
	}

	inbox, err := svc.List(ctx, bob, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 2 {
		t.Fatalf("bob has %d notifications, want 2", len(inbox))
	}
	if want := `Ann added "lunch" and your share is 15.00`; inbox[0].Message != want {
		t.Errorf("newest message = %q, want %q", inbox[0].Message, want)
	}
	if inbox[0].RelatedEntityType == nil || *inbox[0].RelatedEntityType != EntityExpense {
		t.Errorf("entity type = %v", inbox[0].RelatedEntityType)
	}

	if n, _ := svc.UnreadCount(ctx, bob); n != 2 {
		t.Errorf("unread = %d, want 2", n)
	}

	if err := svc.MarkAsRead(ctx, inbox[0].ID, bob); err != nil {
		t.Fatal(err)
	}
	unread, _ := svc.List(ctx, bob, true)
	if len(unread) != 1 || unread[0].ID != inbox[1].ID {
		t.Errorf("unread after mark = %+v", unread)
	}

	updated, err := svc.MarkAllAsRead(ctx, bob)
	if err != nil || updated != 1 {
		t.Errorf("MarkAllAsRead = %d, %v; want 1", updated, err)
	}
	if n, _ := svc.UnreadCount(ctx, bob); n != 0 {
		t.Errorf("unread = %d, want 0", n)
	}
	if n, _ := svc.UnreadCount(ctx, ann); n != 1 {
		t.Errorf("ann unread = %d, want 1", n)
	}
}

func TestMarkAsReadChecksRecipient(t *testing.T) {
	db, svc, ann, bob := setup(t)
	ctx := context.Background()

	n, err := NewRepository(db).Create(ctx, bob, "hello", EntityUser, ann)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkAsRead(ctx, n.ID, ann); !errors.Is(err, ErrNotRecipient) {
		t.Errorf("err = %v, want ErrNotRecipient", err)
	}
	if err := svc.MarkAsRead(ctx, 999, bob); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound", err)
	}
}

func TestNotificationRollsBackWithTransaction(t *testing.T) {
	db, svc, ann, bob := setup(t)
	ctx := context.Background()
	abort := errors.New("abort")

	err := db.WithTx(ctx, func(q database.Querier) error {
		if err := NewRepository(q).NotifyFriendAdded(ctx, bob, "Ann", ann); err != nil {
			return err
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("err = %v", err)
	}

	if n, _ := svc.UnreadCount(ctx, bob); n != 0 {
		t.Errorf("rolled back notification is visible: unread = %d", n)
	}
}
