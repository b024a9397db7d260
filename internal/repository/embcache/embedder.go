// Package embcache caches question embeddings so repeated RAG questions skip
// the provider round-trip.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain"
)

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options configures the cache namespace and entry lifetime.
type Options struct {
	KeyPrefix  string
	Model      string
	Dimensions int // cached vectors of another length are ignored; 0 disables the check
	TTL        time.Duration
}

// CachedEmbedder is a domain.Embedder that looks questions up by model and
// normalized text before calling the provider.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	opts       Options
	prefix     string
	flight     singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New wraps inner. cacheTotal carries a "result" label (hit / miss) and may be nil.
func New(
	inner domain.Embedder,
	s store,
	opts Options,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		opts:       opts,
		prefix:     opts.KeyPrefix + "emb_cache:" + opts.Model + ":",
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed serves a cached vector with zero token usage, or embeds text once for
// all concurrent callers asking the same question and caches the result.
// Only the caller that reached the provider reports token usage.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.lookup(ctx, key); ok {
		c.count("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.count("miss")

	var leader bool
	v, err, _ := c.flight.Do(key, func() (any, error) {
		leader = true
		res, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(res.Embedding) > 0 {
			c.save(ctx, key, res.Embedding)
		}
		return res, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed question: %w", err)
	}

	res := v.(domain.EmbeddingResult)
	if !leader {
		return domain.EmbeddingResult{Embedding: res.Embedding}, nil
	}
	return res, nil
}

func (c *CachedEmbedder) count(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the normalized question under a per-model prefix.
func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(normalize(text)))
	return c.prefix + hex.EncodeToString(sum[:])
}

// normalize lower-cases text and collapses whitespace runs.
func normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil, false
	case err != nil:
		c.logger.Warn("embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	case len(data) == 0:
		return nil, false
	}

	vec, err := db.BytesToVector(data)
	if err != nil {
		c.logger.Warn("embedding cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if c.opts.Dimensions > 0 && len(vec) != c.opts.Dimensions {
		c.logger.Warn("embedding cache entry has foreign dimension",
			zap.String("key", key), zap.Int("got", len(vec)), zap.Int("want", c.opts.Dimensions))
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) save(ctx context.Context, key string, vec []float32) {
	if err := c.store.SetWithTTL(ctx, key, db.VectorToBytes(vec), c.opts.TTL); err != nil {
		c.logger.Warn("embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}
