package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/logger"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/catalogd/internal/usecase/embedding"
)

const answerCacheName = "rag-queries"

type generateResponse struct {
	embeddinguc.Report
	Message string `json:"message"`
}

type clearCacheResponse struct {
	Message   string `json:"message"`
	CacheName string `json:"cache_name"`
	Cleared   int    `json:"cleared"`
}

type reseedResponse struct {
	Loaded  cataloguc.SeedReport `json:"loaded"`
	Message string               `json:"message"`
}

// ToggleRAG handles POST /api/admin/rag/toggle?enabled=bool.
func (s *Server) ToggleRAG(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("enabled") == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "parameter enabled is required")
		return
	}
	enabled, err := parseBoolParam(r.URL.Query(), "enabled", false)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.rag.SetEnabled(enabled)
	logger.FromContext(r.Context()).Warn("rag manually toggled", zap.Bool("enabled", enabled))

	writeJSON(w, http.StatusOK, ragStatus(enabled, "AI Assistant enabled", "AI Assistant disabled"))
}

// GenerateEmbeddings handles POST /api/admin/embeddings/generate?force_regenerate=bool.
func (s *Server) GenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	force, err := parseBoolParam(r.URL.Query(), "force_regenerate", false)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("embedding generation started", zap.Bool("force", force))

	ctx, tokens := domain.NewContextWithUsage(r.Context())
	report, err := s.indexer.GenerateAll(ctx, force)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	log.Info("embedding generation complete",
		zap.Int("total", report.TotalProcessed),
		zap.Int("tokens", tokens.EmbeddingTokens))
	setTokenHeaders(w, tokens)
	writeJSON(w, http.StatusOK, generateResponse{
		Report:  report,
		Message: "Batch embedding generation complete",
	})
}

// ClearAnswerCache handles DELETE /api/admin/embeddings/cache.
func (s *Server) ClearAnswerCache(w http.ResponseWriter, r *http.Request) {
	n, err := s.rag.ClearCache(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("rag answer cache cleared", zap.Int("entries", n))
	writeJSON(w, http.StatusOK, clearCacheResponse{
		Message:   "RAG query cache cleared successfully",
		CacheName: answerCacheName,
		Cleared:   n,
	})
}

// Reseed handles POST /api/admin/reseed?entity=movies|characters|attractions.
// Without entity every collection is reloaded.
func (s *Server) Reseed(w http.ResponseWriter, r *http.Request) {
	entity := normalizeName(r.URL.Query().Get("entity"))
	report, err := s.catalog.Reseed(r.Context(), entity)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("catalog reseeded", zap.Any("loaded", report))
	writeJSON(w, http.StatusOK, reseedResponse{
		Loaded:  report,
		Message: "Catalog reseeded",
	})
}
