package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter(skip ...string) chi.Router {
	r := chi.NewRouter()
	r.Use(Middleware(skip...))
	r.Get("/api/movies/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1}`))
	})
	r.Get("/api/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
	})
	r.Route("/api/rag", func(r chi.Router) {
		r.Post("/query", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, http.NoBody))
	return rr
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := newTestRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/movies/{id}", "200"))

	serve(r, http.MethodGet, "/api/movies/1")
	serve(r, http.MethodGet, "/api/movies/2")

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/movies/{id}", "200"))
	if got-before != 2 {
		t.Errorf("expected both ids under one route label, got delta %v", got-before)
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		method, target, route, status string
	}{
		{http.MethodGet, "/api/search?query=elsa", "/api/search", "200"},
		{http.MethodGet, "/api/search", "/api/search", "400"},
		{http.MethodPost, "/api/rag/query", "/api/rag/query", "429"},
	}
	for _, tc := range tests {
		t.Run(tc.target+" "+tc.status, func(t *testing.T) {
			c := httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)
			before := testutil.ToFloat64(c)
			serve(r, tc.method, tc.target)
			if testutil.ToFloat64(c)-before != 1 {
				t.Errorf("expected one %s %s %s", tc.method, tc.route, tc.status)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := newTestRouter()
	c := httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")
	before := testutil.ToFloat64(c)

	serve(r, http.MethodGet, "/no/such/path/42")

	if testutil.ToFloat64(c)-before != 1 {
		t.Error("expected unmatched request under a single label")
	}
}

func TestMiddleware_SkipPaths(t *testing.T) {
	r := newTestRouter("/health")
	c := httpRequestsTotal.WithLabelValues("GET", "/health", "200")
	before := testutil.ToFloat64(c)

	rr := serve(r, http.MethodGet, "/health")

	if rr.Body.String() != "ok" {
		t.Errorf("handler must still run, body %q", rr.Body.String())
	}
	if testutil.ToFloat64(c) != before {
		t.Error("skipped path must not be recorded")
	}
}

func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	r := newTestRouter()
	serve(r, http.MethodGet, "/api/search?query=ok")
	if v := testutil.ToFloat64(httpInFlight); v != 0 {
		t.Errorf("expected no requests in flight, got %v", v)
	}
}

func TestMiddleware_ResponseSize(t *testing.T) {
	r := newTestRouter()
	serve(r, http.MethodGet, "/api/search?query=big")
	if n := testutil.CollectAndCount(httpResponseBytes, "catalogd_http_response_size_bytes"); n == 0 {
		t.Error("expected response size observations")
	}
}

func TestNormalizeRoute(t *testing.T) {
	for in, want := range map[string]string{
		"":                 unmatchedRoute,
		"/*":               unmatchedRoute,
		"/api/search":      "/api/search",
		"/api/movies/{id}": "/api/movies/{id}",
	} {
		if got := normalizeRoute(in); got != want {
			t.Errorf("normalizeRoute(%q) = %q, want %q", in, got, want)
		}
	}
}
