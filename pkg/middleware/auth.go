package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fkhayef/splitledger/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the acting user's id
	UserIDKey ContextKey = "user_id"

	// UserIDHeader carries the actor in header auth mode (development only)
	UserIDHeader = "X-User-ID"
)

var (
	ErrMissingCredentials = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid or expired credentials")
)

// Authenticator resolves the acting user of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (int64, error)
}

// HeaderAuth trusts the X-User-ID header. Never expose it outside development.
type HeaderAuth struct{}

func (HeaderAuth) Authenticate(r *http.Request) (int64, error) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return 0, ErrMissingCredentials
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}

// BearerAuth validates an HS256 token from the Authorization header.
type BearerAuth struct {
	Tokens *JWTManager
}

func (a BearerAuth) Authenticate(r *http.Request) (int64, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, ErrMissingCredentials
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return 0, ErrInvalidCredentials
	}

	claims, err := a.Tokens.Validate(token)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return claims.UserID, nil
}

// RequireUser rejects requests without an actor and stores the actor id in the context.
func RequireUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.Authenticate(r)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalUser stores the actor id when credentials are present and lets
// anonymous requests through. Handlers that need an actor reject those with 401.
// Credentials that are present but invalid are rejected here.
func OptionalUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.Authenticate(r)
			switch {
			case errors.Is(err, ErrMissingCredentials):
				next.ServeHTTP(w, r)
			case err != nil:
				response.Unauthorized(w, err.Error())
			default:
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
			}
		})
	}
}

// WithUserID returns a copy of ctx carrying the actor id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the actor id from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
