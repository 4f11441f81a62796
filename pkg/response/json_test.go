package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fkhayef/splitledger/internal/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var body APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 7})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	body := decode(t, rec)
	if !body.Success || body.Error != nil {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestList(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{"a", "b"}, 2)

	body := decode(t, rec)
	if body.Meta == nil || body.Meta.Total != 2 {
		t.Errorf("meta = %+v, want total 2", body.Meta)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"user", &apperr.UserNotFoundError{UserID: 9}, http.StatusNotFound, "USER_NOT_FOUND"},
		{"group", &apperr.GroupNotFoundError{GroupID: 2}, http.StatusNotFound, "GROUP_NOT_FOUND"},
		{"duplicate", &apperr.DuplicateRelationError{Relation: apperr.RelationFriendship, UserID: 1, OtherID: 2}, http.StatusConflict, "DUPLICATE_RELATION"},
		{"not friends", &apperr.NotFriendsError{CreatorID: 1, UserIDs: []int64{3}}, http.StatusBadRequest, "NOT_FRIENDS"},
		{"invalid", apperr.Invalid("amount", "must be positive"), http.StatusBadRequest, "INVALID_INPUT"},
		{"not authorized", &apperr.NotAuthorizedError{ActorID: 3, GroupID: 1}, http.StatusForbidden, "NOT_AUTHORIZED"},
		{"persistence", apperr.Persistence("insert split", errors.New("disk full")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode(t, rec)
			if body.Success || body.Error == nil || body.Error.Code != tt.code {
				t.Errorf("envelope = %+v, want code %s", body, tt.code)
			}
		})
	}
}

func TestFromErrorHidesStoreCause(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, apperr.Persistence("insert split", errors.New("pq: password authentication failed")))

	body := decode(t, rec)
	if body.Error.Message != "Internal server error" {
		t.Errorf("message leaked cause: %q", body.Error.Message)
	}
}
