package ratelimit

import (
	"testing"
	"time"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"", TierFree},
		{"free", TierFree},
		{" Premium ", TierPremium},
		{"ADMIN", TierAdmin},
		{"gold", TierFree},
	}
	for _, tc := range tests {
		if got := ParseTier(tc.in); got != tc.want {
			t.Errorf("ParseTier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLimitsFor(t *testing.T) {
	l := Limits{TierFree: 10, TierPremium: 100}
	if got := l.For(TierPremium); got != 100 {
		t.Errorf("premium: got %d", got)
	}
	if got := l.For(TierAdmin); got != 10 {
		t.Errorf("admin should fall back to free, got %d", got)
	}
}

func TestNewUsage_ClampsRemaining(t *testing.T) {
	reset := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	u := NewUsage(TierFree, 12, 10, -2, reset)
	if u.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", u.Remaining())
	}
	if u.Used() != 12 || u.Limit() != 10 || u.Tier() != TierFree || !u.ResetsAt().Equal(reset) {
		t.Errorf("unexpected usage: %+v", u)
	}
}
