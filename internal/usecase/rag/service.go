// Package rag answers catalog questions from retrieved content embeddings.
package rag

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
	"github.com/kailas-cloud/catalogd/internal/logger"
)

// Service runs the embed, retrieve, generate pipeline.
type Service struct {
	embedder   domain.Embedder
	generator  domain.Generator
	embeddings EmbeddingLister
	cache      AnswerCache
	model      string
	enabled    atomic.Bool
	sf         singleflight.Group
}

// New creates a Service. model selects which stored embeddings are comparable
// with query vectors. cache can be nil.
func New(
	embedder domain.Embedder,
	generator domain.Generator,
	embeddings EmbeddingLister,
	cache AnswerCache,
	model string,
	enabled bool,
) *Service {
	s := &Service{
		embedder:   embedder,
		generator:  generator,
		embeddings: embeddings,
		cache:      cache,
		model:      model,
	}
	s.enabled.Store(enabled)
	return s
}

// Enabled reports whether questions are accepted.
func (s *Service) Enabled() bool { return s.enabled.Load() }

// SetEnabled flips the kill switch.
func (s *Service) SetEnabled(v bool) { s.enabled.Store(v) }

// Query answers a question. Identical concurrent questions share one pipeline run.
func (s *Service) Query(ctx context.Context, q rag.Query) (rag.Answer, error) {
	if !s.Enabled() {
		return rag.Answer{}, domain.ErrRAGDisabled
	}
	if strings.TrimSpace(q.Query) == "" {
		return rag.Answer{}, fmt.Errorf("query cannot be empty: %w", domain.ErrInvalidQuery)
	}
	if !validContentType(q.ContentType) {
		return rag.Answer{}, fmt.Errorf("unknown content type %q: %w", q.ContentType, domain.ErrInvalidQuery)
	}

	log := logger.FromContext(ctx)
	key := q.Query + "_" + q.ContentType

	if s.cache != nil {
		a, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("answer cache get failed", zap.Error(err))
		case ok:
			log.Info("answer cache hit", zap.String("query", q.Query))
			a.Cached = true
			return a, nil
		}
	}

	// The shared run outlives a cancelled caller; its tokens are reported
	// to the caller that started it.
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.sf.Do(key, func() (any, error) {
		a, err := s.answer(runCtx, q)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Put(runCtx, key, a); err != nil {
				log.Warn("answer cache put failed", zap.Error(err))
			}
		}
		return a, nil
	})
	if err != nil {
		return rag.Answer{}, err
	}
	if shared {
		log.Debug("answer shared with concurrent query", zap.String("query", q.Query))
	}
	return v.(rag.Answer), nil
}

// ClearCache drops every cached answer and returns how many were removed.
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear answer cache: %w", err)
	}
	logger.FromContext(ctx).Info("answer cache cleared", zap.Int("entries", n))
	return n, nil
}

func (s *Service) answer(ctx context.Context, q rag.Query) (rag.Answer, error) {
	log := logger.FromContext(ctx)
	log.Info("processing question", zap.String("query", q.Query), zap.String("content_type", q.ContentType))

	emb, err := s.embedder.Embed(ctx, q.Query)
	if err != nil {
		return rag.Answer{}, fmt.Errorf("embed query: %w", err)
	}
	domain.UsageFromContext(ctx).AddEmbeddingTokens(emb.TotalTokens)

	hits, err := s.retrieve(ctx, emb.Embedding, q.ContentType, rag.ClampTopK(q.TopK))
	if err != nil {
		return rag.Answer{}, err
	}
	if len(hits) == 0 {
		log.Warn("no similar content found", zap.String("query", q.Query))
		return rag.Answer{Answer: rag.FallbackAnswer, Sources: []rag.Citation{}, Query: q.Query}, nil
	}

	sources := make([]rag.ContentEmbedding, len(hits))
	citations := make([]rag.Citation, len(hits))
	for i, h := range hits {
		sources[i] = h.emb
		citations[i] = rag.NewCitation(h.emb, h.score)
	}

	gen, err := s.generator.Generate(ctx, rag.BuildPrompt(q.Query, sources))
	if err != nil {
		return rag.Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	domain.UsageFromContext(ctx).AddGenerationTokens(gen.TotalTokens)

	log.Info("question answered", zap.Int("sources", len(citations)), zap.Int("answer_chars", len(gen.Text)))
	return rag.Answer{Answer: gen.Text, Sources: citations, Query: q.Query}, nil
}

type scored struct {
	emb   rag.ContentEmbedding
	score float64
}

// retrieve ranks stored embeddings by cosine similarity and keeps the best topK.
// Vectors of a different dimension are skipped.
func (s *Service) retrieve(ctx context.Context, vec []float32, contentType string, topK int) ([]scored, error) {
	all, err := s.embeddings.List(ctx, s.model, contentType)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	hits := make([]scored, 0, len(all))
	skipped := 0
	for _, e := range all {
		score, err := rag.CosineSimilarity(vec, e.Embedding)
		if err != nil {
			if errors.Is(err, domain.ErrVectorDimMismatch) {
				skipped++
				continue
			}
			return nil, err
		}
		hits = append(hits, scored{emb: e, score: score})
	}
	if skipped > 0 {
		logger.FromContext(ctx).Warn("skipped embeddings with foreign dimension",
			zap.Int("skipped", skipped), zap.Int("dim", len(vec)))
	}

	slices.SortStableFunc(hits, func(a, b scored) int { return cmp.Compare(b.score, a.score) })
	return hits[:min(topK, len(hits))], nil
}

func validContentType(t string) bool {
	switch t {
	case "", catalog.TypeMovie, catalog.TypeCharacter, catalog.TypeAttraction:
		return true
	}
	return false
}
