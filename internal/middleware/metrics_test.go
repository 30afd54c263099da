package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeHTTPRecorder struct {
	requests []recordedRequest
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, route string, statusCode int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method, route, statusCode})
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware(rec))
	r.Get("/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/alice", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(rec.requests) != 2 {
		t.Fatalf("expected 2 recorded requests, got %d", len(rec.requests))
	}
	if got := rec.requests[0]; got.route != "/users/{username}" || got.status != http.StatusNotFound || got.method != "GET" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got := rec.requests[1]; got.route != unmatchedRoute {
		t.Errorf("route = %q, want %q", got.route, unmatchedRoute)
	}
}

func TestAPIHeadersMiddleware(t *testing.T) {
	handler := NewAPIHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feeds/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}
