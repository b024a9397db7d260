// Package answercache keeps generated answers for repeated questions.
package answercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

// Store implements the RAG answer cache on top of DB (SET EX + GET).
type Store struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates an answer cache. Entries expire after ttl.
func New(s store, prefix string, ttl time.Duration) *Store {
	return &Store{store: s, prefix: prefix + "rag_cache:", ttl: ttl}
}

// Get returns a cached answer. ok is false on a miss.
func (s *Store) Get(ctx context.Context, cacheKey string) (rag.Answer, bool, error) {
	data, err := s.store.Get(ctx, s.key(cacheKey))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return rag.Answer{}, false, nil
		}
		return rag.Answer{}, false, fmt.Errorf("answer cache GET: %w", err)
	}
	var a rag.Answer
	if err := json.Unmarshal(data, &a); err != nil {
		return rag.Answer{}, false, fmt.Errorf("answer cache decode: %w", err)
	}
	return a, true, nil
}

// Put stores an answer under cacheKey.
func (s *Store) Put(ctx context.Context, cacheKey string, a rag.Answer) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("answer cache encode: %w", err)
	}
	if err := s.store.SetWithTTL(ctx, s.key(cacheKey), data, s.ttl); err != nil {
		return fmt.Errorf("answer cache SET: %w", err)
	}
	return nil
}

// Clear drops every cached answer. Returns the number of entries removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("answer cache SCAN: %w", err)
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("answer cache DEL: %w", err)
	}
	return len(keys), nil
}

func (s *Store) key(cacheKey string) string {
	h := sha256.Sum256([]byte(cacheKey))
	return s.prefix + hex.EncodeToString(h[:])
}
