package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fkhayef/splitledger/internal/apperr"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// APIError is the error half of the envelope
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries list metadata
type Meta struct {
	Total int `json:"total"`
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// JSON sends data with the given status code
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// List sends a slice together with its length
func List(w http.ResponseWriter, data any, total int) {
	write(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total},
	})
}

// Error sends an error envelope
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, APIResponse{
		Error: &APIError{Code: code, Message: message},
	})
}

// FromError picks the status and code for err from its apperr kind.
// Store failures are logged and answered without leaking the cause.
func FromError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindUserNotFound, apperr.KindGroupNotFound:
		Error(w, http.StatusNotFound, string(kind), err.Error())
	case apperr.KindDuplicate:
		Error(w, http.StatusConflict, string(kind), err.Error())
	case apperr.KindNotFriends, apperr.KindInvalidInput:
		Error(w, http.StatusBadRequest, string(kind), err.Error())
	case apperr.KindNotAuthorized:
		Error(w, http.StatusForbidden, string(kind), err.Error())
	default:
		var pe *apperr.PersistenceError
		if errors.As(err, &pe) {
			slog.Error("Store failure", "op", pe.Op, "error", pe.Err)
		} else {
			slog.Error("Unhandled error", "error", err)
		}
		InternalError(w, "Internal server error")
	}
}

// Common error responses
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}
