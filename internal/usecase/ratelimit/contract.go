package ratelimit

import (
	"context"
	"time"

	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
	reprl "github.com/kailas-cloud/catalogd/internal/repository/ratelimit"
)

// Counters is a fixed-window counter store keyed by subject.
type Counters interface {
	Hit(ctx context.Context, subject string) (reprl.Counter, error)
	Peek(ctx context.Context, subject string) (reprl.Counter, error)
}

// Tiers persists the tier of each session.
type Tiers interface {
	SetTier(ctx context.Context, session string, tier domrl.Tier, ttl time.Duration) error
	Tier(ctx context.Context, session string) (domrl.Tier, error)
}
