package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/logger"
	"github.com/kailas-cloud/catalogd/internal/metrics"
)

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r.URL.Query())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), params.request())
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrInvalidQuery) {
			status = "invalid"
		}
		metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
		s.handleDomainError(w, r, err)
		return
	}

	var matched int64
	for _, c := range resp.Categories() {
		cr, _ := resp.Get(c)
		matched += cr.Total
	}
	logger.Annotate(r.Context(),
		zap.Strings("categories", resp.Categories()),
		zap.Int64("matched", matched),
	)

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

// SearchCapabilities handles GET /api/search/capabilities.
func (s *Server) SearchCapabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.search.Capabilities())
}
