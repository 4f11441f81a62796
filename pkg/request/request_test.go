package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/pkg/middleware"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		r := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.raw)
		got, err := PathID(r, "id")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("PathID(%q) = %d, %v", tt.raw, got, err)
		}
		if err != nil && !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("PathID(%q) error kind = %v", tt.raw, err)
		}
	}
}

func TestActorID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := ActorID(r); err == nil {
		t.Error("expected an error without an actor")
	}

	r = r.WithContext(middleware.WithUserID(r.Context(), 5))
	if id, err := ActorID(r); err != nil || id != 5 {
		t.Errorf("ActorID() = %d, %v", id, err)
	}
}

func TestDecode(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Trip"}`))
	if err := Decode(httptest.NewRecorder(), r, &body); err != nil || body.Name != "Trip" {
		t.Fatalf("Decode() = %v, body %+v", err, body)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Trip","admin":true}`))
	if err := Decode(httptest.NewRecorder(), r, &body); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("unknown field: err = %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	if err := Decode(httptest.NewRecorder(), r, &body); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("truncated body: err = %v", err)
	}
}
