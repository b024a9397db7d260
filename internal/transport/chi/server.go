// Package chi serves the catalog HTTP API on a chi router.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
	"github.com/kailas-cloud/catalogd/internal/version"
)

// Services bundles the use cases behind the HTTP API.
type Services struct {
	Search  SearchService
	RAG     RAGService
	Limiter RateLimiter
	Catalog CatalogService
	Indexer EmbeddingIndexer
	Health  HealthChecker
}

// RouterOptions configures route registration.
type RouterOptions struct {
	AdminAPIKeys  []string
	SecureCookies bool
}

// Server holds the HTTP handlers.
type Server struct {
	search        SearchService
	rag           RAGService
	limiter       RateLimiter
	catalog       CatalogService
	indexer       EmbeddingIndexer
	health        HealthChecker
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services) *Server {
	return &Server{
		search:        svc.Search,
		rag:           svc.RAG,
		limiter:       svc.Limiter,
		catalog:       svc.Catalog,
		indexer:       svc.Indexer,
		health:        svc.Health,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router, opts RouterOptions) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/search/capabilities", s.SearchCapabilities)

		r.Get("/movies", s.ListMovies)
		r.Get("/movies/{id}", s.GetMovie)
		r.Get("/characters", s.ListCharacters)
		r.Get("/characters/{id}", s.GetCharacter)
		r.Get("/attractions", s.ListAttractions)
		r.Get("/attractions/{id}", s.GetAttraction)

		r.Route("/rag", func(r chi.Router) {
			r.Use(SessionMiddleware(opts.SecureCookies))
			r.Post("/query", s.RAGQuery)
			r.Get("/status", s.RAGStatus)
			r.Get("/tier-status", s.TierStatus)
			r.Post("/unlock-premium", s.UnlockPremium)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminAPIKeys))
			r.Post("/rag/toggle", s.ToggleRAG)
			r.Post("/embeddings/generate", s.GenerateEmbeddings)
			r.Delete("/embeddings/cache", s.ClearAnswerCache)
			r.Post("/reseed", s.Reseed)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves keyword search.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
