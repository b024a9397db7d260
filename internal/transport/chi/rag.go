package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
	"github.com/kailas-cloud/catalogd/internal/logger"
	"github.com/kailas-cloud/catalogd/internal/metrics"
)

const (
	ragAvailableMessage   = "AI Assistant is available"
	ragUnavailableMessage = "AI Assistant temporarily unavailable"
	upgradeMessage        = "Upgrade to premium tier for more queries"
	premiumMessage        = "Premium tier unlocked for 1 hour"
)

type ragStatusResponse struct {
	RAGEnabled bool   `json:"rag_enabled"`
	Message    string `json:"message"`
}

type tierResponse struct {
	Tier      domrl.Tier `json:"tier"`
	Limit     int64      `json:"limit"`
	Used      int64      `json:"used"`
	Remaining int64      `json:"remaining"`
	ResetAt   time.Time  `json:"reset_at"`
	Message   string     `json:"message"`
}

type rateLimitedResponse struct {
	Code    ErrorCode  `json:"code"`
	Message string     `json:"message"`
	Tier    domrl.Tier `json:"tier"`
	Limit   int64      `json:"limit"`
}

type accessCodeRequest struct {
	Code string `json:"code"`
}

// RAGQuery handles POST /api/rag/query.
func (s *Server) RAGQuery(w http.ResponseWriter, r *http.Request) {
	if !s.rag.Enabled() {
		metrics.RAGQueriesTotal.WithLabelValues("disabled").Inc()
		writeError(w, http.StatusServiceUnavailable, CodeRAGDisabled, ragUnavailableMessage)
		return
	}

	var q rag.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		metrics.RAGQueriesTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(q.Query) == "" {
		metrics.RAGQueriesTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, CodeInvalidQuery, "Query cannot be empty")
		return
	}

	caller := callerFromRequest(r)
	usage, err := s.limiter.Allow(r.Context(), caller)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			metrics.RAGQueriesTotal.WithLabelValues("rate_limited").Inc()
			setRateLimitHeaders(w, usage)
			writeJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
				Code:    CodeRateLimited,
				Message: upgradeMessage,
				Tier:    usage.Tier(),
				Limit:   usage.Limit(),
			})
			return
		}
		metrics.RAGQueriesTotal.WithLabelValues("error").Inc()
		s.handleDomainError(w, r, err)
		return
	}

	ctx, tokens := domain.NewContextWithUsage(r.Context())
	ans, err := s.rag.Query(ctx, q)
	if err != nil {
		metrics.RAGQueriesTotal.WithLabelValues(ragErrorStatus(err)).Inc()
		s.handleDomainError(w, r, err)
		return
	}

	if ans.Cached {
		metrics.RAGQueriesTotal.WithLabelValues("cached").Inc()
		metrics.RAGAnswerCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.RAGQueriesTotal.WithLabelValues("ok").Inc()
		metrics.RAGAnswerCacheTotal.WithLabelValues("miss").Inc()
	}

	logger.Annotate(r.Context(),
		zap.Int("sources", len(ans.Sources)),
		zap.Bool("cached", ans.Cached),
		zap.String("tier", string(usage.Tier())),
		zap.Int64("used", usage.Used()),
		zap.Int64("limit", usage.Limit()),
	)

	setRateLimitHeaders(w, usage)
	setTokenHeaders(w, tokens)
	writeJSON(w, http.StatusOK, ans)
}

// RAGStatus handles GET /api/rag/status.
func (s *Server) RAGStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ragStatus(s.rag.Enabled(), ragAvailableMessage, ragUnavailableMessage))
}

// TierStatus handles GET /api/rag/tier-status.
func (s *Server) TierStatus(w http.ResponseWriter, r *http.Request) {
	usage, err := s.limiter.Usage(r.Context(), callerFromRequest(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTierResponse(usage, usageMessage(usage)))
}

// UnlockPremium handles POST /api/rag/unlock-premium.
func (s *Server) UnlockPremium(w http.ResponseWriter, r *http.Request) {
	var req accessCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	usage, err := s.limiter.UnlockPremium(r.Context(), callerFromRequest(r), req.Code)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTierResponse(usage, premiumMessage))
}

func ragStatus(enabled bool, on, off string) ragStatusResponse {
	msg := off
	if enabled {
		msg = on
	}
	return ragStatusResponse{RAGEnabled: enabled, Message: msg}
}

func newTierResponse(u domrl.Usage, msg string) tierResponse {
	return tierResponse{
		Tier:      u.Tier(),
		Limit:     u.Limit(),
		Used:      u.Used(),
		Remaining: u.Remaining(),
		ResetAt:   u.ResetsAt().UTC(),
		Message:   msg,
	}
}

// usageMessage renders "Free tier: 3/10 queries used".
func usageMessage(u domrl.Usage) string {
	name := string(u.Tier())
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s tier: %d/%d queries used", name, u.Used(), u.Limit())
}

func setRateLimitHeaders(w http.ResponseWriter, u domrl.Usage) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(u.Limit(), 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(u.Remaining(), 10))
	if !u.ResetsAt().IsZero() {
		h.Set("X-RateLimit-Reset", u.ResetsAt().UTC().Format(time.RFC3339))
	}
}

func ragErrorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return "invalid"
	case errors.Is(err, domain.ErrRAGDisabled):
		return "disabled"
	default:
		return "error"
	}
}

// setTokenHeaders reports provider token usage; nothing is set when no provider was called.
func setTokenHeaders(w http.ResponseWriter, u *domain.LLMUsage) {
	if u == nil || !u.Used {
		return
	}
	w.Header().Set("X-Embedding-Tokens", strconv.Itoa(u.EmbeddingTokens))
	w.Header().Set("X-Generation-Tokens", strconv.Itoa(u.GenerationTokens))
}
