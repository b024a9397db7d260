// Package ratelimit keeps fixed-window request counters and session tiers.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/catalogd/internal/db"
	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
)

// store is the consumer interface for rate limit counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Counter is a snapshot of one window counter.
type Counter struct {
	Count   int64
	ResetIn time.Duration
}

// Store implements fixed-window counters on top of DB (INCR + EXPIRE NX + TTL).
type Store struct {
	store  store
	prefix string
	window time.Duration
}

// New creates a rate limit store. Counters expire window after their first hit.
func New(s store, prefix string, window time.Duration) *Store {
	return &Store{store: s, prefix: prefix + "ratelimit:", window: window}
}

// Hit increments the counter of subject and returns the new value.
func (s *Store) Hit(ctx context.Context, subject string) (Counter, error) {
	key := s.prefix + subject
	n, ttl, err := s.store.IncrWindow(ctx, key, s.window)
	if err != nil {
		return Counter{}, fmt.Errorf("ratelimit INCR %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = s.window
	}
	return Counter{Count: n, ResetIn: ttl}, nil
}

// Peek returns the counter of subject without incrementing. Missing counters are zero.
func (s *Store) Peek(ctx context.Context, subject string) (Counter, error) {
	key := s.prefix + subject
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Counter{ResetIn: s.window}, nil
		}
		return Counter{}, fmt.Errorf("ratelimit GET %s: %w", key, err)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return Counter{}, fmt.Errorf("ratelimit GET %s parse: %w", key, err)
	}
	return Counter{Count: n, ResetIn: s.resetIn(ctx, key)}, nil
}

// resetIn falls back to a full window when the TTL cannot be read.
func (s *Store) resetIn(ctx context.Context, key string) time.Duration {
	ttl, err := s.store.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		return s.window
	}
	return ttl
}

// SetTier stores the tier of a session for ttl.
func (s *Store) SetTier(ctx context.Context, session string, tier domrl.Tier, ttl time.Duration) error {
	key := s.tierKey(session)
	if err := s.store.SetWithTTL(ctx, key, []byte(tier), ttl); err != nil {
		return fmt.Errorf("ratelimit SET %s: %w", key, err)
	}
	return nil
}

// Tier returns the stored tier of a session, free when none is stored.
func (s *Store) Tier(ctx context.Context, session string) (domrl.Tier, error) {
	key := s.tierKey(session)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrl.TierFree, nil
		}
		return domrl.TierFree, fmt.Errorf("ratelimit GET %s: %w", key, err)
	}
	return domrl.ParseTier(string(data)), nil
}

func (s *Store) tierKey(session string) string {
	return s.prefix + "tier:" + session
}
