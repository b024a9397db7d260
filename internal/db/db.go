// Package db defines the storage facade shared by the catalog, embedding,
// cache and rate limit repositories.
package db

import (
	"context"
	"time"
)

// Store is everything the catalogd repositories need from a Redis-protocol server.
type Store interface {
	Pinger
	HashStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one hash row: a key and its fields.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore keeps catalog rows and content embeddings as hashes.
type HashStore interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	// ReplaceHashes deletes stale and writes items in one MULTI/EXEC block.
	ReplaceHashes(ctx context.Context, stale []string, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore holds cache entries, window counters and session tiers.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// IncrWindow increments key, starts its expiry on the first hit and
	// returns the new count with the remaining lifetime.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}
