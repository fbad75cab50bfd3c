package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spendwise/internal/cache"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/services"
	"spendwise/internal/store/memory"
)

// Wednesday afternoon.
var refNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

type testServer struct {
	*Server
	store *memory.Store
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	st := memory.New()
	clock := func() time.Time { return refNow }
	overviews := cache.NewLRUCache[services.Overview](8, time.Hour)

	opts.Services = services.New(st, nil, clock, overviews)
	opts.Clock = clock
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.Config{Output: io.Discard, Component: applog.ComponentHTTP})
	}
	srv := NewServer(opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testServer{Server: srv, store: st}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec)["status"]; got != "ok" {
		t.Errorf("status field = %q", got)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name  string
		ready func(context.Context) error
		want  int
	}{
		{"no check", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"failing", func(context.Context) error { return errors.New("db down") }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Options{Ready: tt.ready})
			rec := ts.do(t, http.MethodGet, "/readyz", nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	for name, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set on plain HTTP")
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	if id := rec.Header().Get("X-Request-ID"); !strings.HasPrefix(id, "req_") {
		t.Errorf("generated request id = %q", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	rec = httptest.NewRecorder()
	ts.Handler.ServeHTTP(rec, req)
	if id := rec.Header().Get("X-Request-ID"); id != "upstream-42" {
		t.Errorf("propagated request id = %q", id)
	}
}

func TestRateLimit_OnlyMutations(t *testing.T) {
	ts := newTestServer(t, Options{RateLimit: ratelimit.Config{RequestsPerWindow: 2, Window: time.Hour}})

	body := map[string]any{"amount": "5", "category": "Other", "description": "coffee"}
	for i := 0; i < 2; i++ {
		if rec := ts.do(t, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d, body %s", i, rec.Code, rec.Body)
		}
	}
	rec := ts.do(t, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third POST status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}

	if rec := ts.do(t, http.MethodGet, "/api/transactions", nil); rec.Code != http.StatusOK {
		t.Errorf("GET after limit: status = %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, Options{})
	if rec := ts.do(t, http.MethodGet, "/api/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodPatch, "/api/transactions", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH status = %d", rec.Code)
	}
}
