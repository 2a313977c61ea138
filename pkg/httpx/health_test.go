package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/itemsapi/pkg/httpx"
)

type stubChecker struct {
	err    error
	called bool
}

func (s *stubChecker) Ping(ctx context.Context) error {
	s.called = true
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected probe deadline")
	}
	return s.err
}

func TestHealthHandler_Healthy(t *testing.T) {
	db := &stubChecker{}
	rr := httptest.NewRecorder()
	httpx.HealthHandler(db).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !db.called {
		t.Fatal("expected the database to be probed")
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status: got %q, want %q", resp["status"], "ok")
	}
	if _, ok := resp["error"]; ok {
		t.Errorf("unexpected error field: %v", resp)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	db := &stubChecker{err: errors.New("connect: connection refused")}
	rr := httptest.NewRecorder()
	httpx.HealthHandler(db).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "error" || resp["error"] != "connect: connection refused" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealthHandler_ContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.HealthHandler(&stubChecker{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))

	ct := rr.Header().Get("Content-Type")
	if ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json; charset=utf-8")
	}
}
