// Package request holds the parsing steps every handler repeats.
package request

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/pkg/middleware"
)

const maxBodyBytes = 1 << 20

// PathID parses a positive int64 path parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// ActorID returns the authenticated user id. Routes without the auth
// middleware have no actor.
func ActorID(r *http.Request) (int64, error) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok || id <= 0 {
		return 0, apperr.Invalid("actor", "no authenticated user")
	}
	return id, nil
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("body", err.Error())
	}
	return nil
}
