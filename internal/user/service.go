package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
)

// ErrEmailAlreadyInUse is returned when another user already has the email
var ErrEmailAlreadyInUse = errors.New("email already in use")

// Service handles user business logic
type Service struct {
	db     *database.DB
	logger *slog.Logger
}

// NewService creates a new user service
func NewService(db *database.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Create registers a user. The email is unique across users.
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *User
	err := s.db.WithTx(ctx, func(q database.Querier) error {
		repo := NewRepository(q)

		existing, err := repo.GetByEmail(ctx, req.Email)
		if err != nil {
			return apperr.Persistence("find user by email", err)
		}
		if existing != nil {
			return ErrEmailAlreadyInUse
		}

		created, err = repo.Create(ctx, req.Name, req.Email)
		if database.IsDuplicateKey(err) {
			return ErrEmailAlreadyInUse
		}
		return apperr.Persistence("create user", err)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", created.ID)
	return created, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return NewRepository(s.db).Require(ctx, id)
}

// GetByEmail retrieves a user by their email
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := NewRepository(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperr.Persistence("find user by email", err)
	}
	if u == nil {
		return nil, &apperr.UserNotFoundError{Email: email}
	}
	return u, nil
}

// List returns all users
func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := NewRepository(s.db).List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list users", err)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	r := CreateUserRequest{Email: email}
	r.Normalize()
	return r.Email
}
