package user

import (
	"context"
	"errors"
	"testing"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database/dbtest"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(dbtest.New(t), dbtest.Logger())
}

func TestCreateAndFind(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateUserRequest{Name: " Ann ", Email: "Ann@Example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Name != "Ann" || created.Email != "ann@example.com" {
		t.Errorf("created = %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	byID, err := svc.GetByID(ctx, created.ID)
	if err != nil || byID.Email != created.Email {
		t.Errorf("GetByID = %+v, %v", byID, err)
	}
	if !byID.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at round trip: %v != %v", byID.CreatedAt, created.CreatedAt)
	}

	byEmail, err := svc.GetByEmail(ctx, "ANN@example.com ")
	if err != nil || byEmail.ID != created.ID {
		t.Errorf("GetByEmail = %+v, %v", byEmail, err)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateUserRequest{Name: "Ann", Email: "ann@example.com"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(ctx, &CreateUserRequest{Name: "Other Ann", Email: "ann@example.com"})
	if !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Errorf("err = %v, want ErrEmailAlreadyInUse", err)
	}

	users, err := svc.List(ctx)
	if err != nil || len(users) != 1 {
		t.Errorf("List() = %d users, %v; want 1", len(users), err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name  string
		req   CreateUserRequest
		field string
	}{
		{"missing name", CreateUserRequest{Email: "a@example.com"}, "name"},
		{"missing email", CreateUserRequest{Name: "Ann"}, "email"},
		{"bad email", CreateUserRequest{Name: "Ann", Email: "not-an-email"}, "email"},
		{"display form", CreateUserRequest{Name: "Ann", Email: "Ann <a@example.com>"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			var invalid *apperr.InvalidInputError
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Errorf("err = %v, want invalid %s", err, tt.field)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 404)
	var nf *apperr.UserNotFoundError
	if !errors.As(err, &nf) || nf.UserID != 404 {
		t.Errorf("GetByID err = %v", err)
	}

	_, err = svc.GetByEmail(ctx, "ghost@example.com")
	if !errors.As(err, &nf) || nf.Email != "ghost@example.com" {
		t.Errorf("GetByEmail err = %v", err)
	}
}
