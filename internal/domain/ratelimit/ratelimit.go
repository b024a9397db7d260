// Package ratelimit holds question answering quota types.
package ratelimit

import (
	"strings"
	"time"
)

// Window is the fixed quota window.
const Window = time.Hour

// Tier selects the hourly quota of a caller.
type Tier string

// Known tiers.
const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierAdmin   Tier = "admin"
)

// ParseTier normalizes a stored tier name. Unknown or empty values are free.
func ParseTier(raw string) Tier {
	switch t := Tier(strings.ToLower(strings.TrimSpace(raw))); t {
	case TierPremium, TierAdmin:
		return t
	default:
		return TierFree
	}
}

// Limits maps each tier to its hourly query quota.
type Limits map[Tier]int64

// For returns the quota of a tier, falling back to the free tier.
func (l Limits) For(t Tier) int64 {
	if v, ok := l[t]; ok {
		return v
	}
	return l[TierFree]
}

// Usage is a quota snapshot for one caller.
type Usage struct {
	tier      Tier
	used      int64
	limit     int64
	remaining int64
	resetsAt  time.Time
}

// NewUsage creates a snapshot. remaining is clamped at zero.
func NewUsage(tier Tier, used, limit, remaining int64, resetsAt time.Time) Usage {
	return Usage{
		tier:      tier,
		used:      used,
		limit:     limit,
		remaining: max(0, remaining),
		resetsAt:  resetsAt,
	}
}

// Tier returns the caller tier.
func (u Usage) Tier() Tier { return u.tier }

// Used returns queries spent in the current window.
func (u Usage) Used() int64 { return u.used }

// Limit returns the session quota.
func (u Usage) Limit() int64 { return u.limit }

// Remaining returns queries left, bounded by the stricter of session and address quotas.
func (u Usage) Remaining() int64 { return u.remaining }

// ResetsAt returns when the current window ends.
func (u Usage) ResetsAt() time.Time { return u.resetsAt }
