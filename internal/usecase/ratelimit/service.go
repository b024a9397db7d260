// Package ratelimit enforces hourly question quotas per session and per client address.
package ratelimit

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
	"github.com/kailas-cloud/catalogd/internal/logger"
)

// PremiumTTL is how long an unlocked premium tier lasts.
const PremiumTTL = time.Hour

// Caller identifies who is asking.
type Caller struct {
	Session string
	IP      string
}

// Service applies the session and address quotas. Both must pass.
type Service struct {
	counters    Counters
	tiers       Tiers
	session     domrl.Limits
	ip          domrl.Limits
	premiumCode string
	now         func() time.Time
}

// New creates a Service. ipLimits falls back to sessionLimits when nil.
func New(c Counters, t Tiers, sessionLimits, ipLimits domrl.Limits, premiumCode string) *Service {
	if ipLimits == nil {
		ipLimits = sessionLimits
	}
	return &Service{
		counters:    c,
		tiers:       t,
		session:     sessionLimits,
		ip:          ipLimits,
		premiumCode: premiumCode,
		now:         time.Now,
	}
}

// Tier returns the current tier of a session.
func (s *Service) Tier(ctx context.Context, session string) (domrl.Tier, error) {
	t, err := s.tiers.Tier(ctx, session)
	if err != nil {
		return domrl.TierFree, fmt.Errorf("get tier: %w", err)
	}
	return t, nil
}

// Allow counts one question against both quotas.
// Returns the usage snapshot and ErrRateLimited if either quota is exceeded.
func (s *Service) Allow(ctx context.Context, c Caller) (domrl.Usage, error) {
	tier, err := s.Tier(ctx, c.Session)
	if err != nil {
		return domrl.Usage{}, err
	}

	sessionLimit, ipLimit := s.session.For(tier), s.ip.For(tier)

	sc, err := s.counters.Hit(ctx, sessionSubject(c.Session))
	if err != nil {
		return domrl.Usage{}, fmt.Errorf("count session: %w", err)
	}
	ic, err := s.counters.Hit(ctx, ipSubject(c.IP))
	if err != nil {
		return domrl.Usage{}, fmt.Errorf("count ip: %w", err)
	}

	usage := domrl.NewUsage(tier, sc.Count, sessionLimit,
		min(sessionLimit-sc.Count, ipLimit-ic.Count), s.now().Add(sc.ResetIn))

	sessionOK, ipOK := sc.Count <= sessionLimit, ic.Count <= ipLimit
	if sessionOK && ipOK {
		return usage, nil
	}

	log := logger.FromContext(ctx)
	if !sessionOK {
		log.Warn("session rate limit exceeded",
			zap.String("session", c.Session), zap.String("tier", string(tier)), zap.Int64("limit", sessionLimit))
	}
	if !ipOK {
		log.Warn("ip rate limit exceeded",
			zap.String("ip", c.IP), zap.String("tier", string(tier)), zap.Int64("limit", ipLimit))
	}
	return usage, fmt.Errorf("%s tier allows %d questions per hour: %w", tier, sessionLimit, domain.ErrRateLimited)
}

// Usage returns the snapshot for a caller without counting.
func (s *Service) Usage(ctx context.Context, c Caller) (domrl.Usage, error) {
	tier, err := s.Tier(ctx, c.Session)
	if err != nil {
		return domrl.Usage{}, err
	}
	return s.usage(ctx, c, tier)
}

// UnlockPremium upgrades the session to premium when code matches.
// Returns ErrInvalidAccessCode for a wrong or unconfigured code.
func (s *Service) UnlockPremium(ctx context.Context, c Caller, code string) (domrl.Usage, error) {
	if s.premiumCode == "" || subtle.ConstantTimeCompare([]byte(code), []byte(s.premiumCode)) != 1 {
		logger.FromContext(ctx).Warn("invalid premium access code", zap.String("session", c.Session))
		return domrl.Usage{}, ErrInvalidAccessCode
	}
	if err := s.tiers.SetTier(ctx, c.Session, domrl.TierPremium, PremiumTTL); err != nil {
		return domrl.Usage{}, fmt.Errorf("set tier: %w", err)
	}
	logger.FromContext(ctx).Info("premium tier unlocked",
		zap.String("session", c.Session), zap.String("ip", c.IP))
	return s.usage(ctx, c, domrl.TierPremium)
}

func (s *Service) usage(ctx context.Context, c Caller, tier domrl.Tier) (domrl.Usage, error) {
	sessionLimit, ipLimit := s.session.For(tier), s.ip.For(tier)

	sc, err := s.counters.Peek(ctx, sessionSubject(c.Session))
	if err != nil {
		return domrl.Usage{}, fmt.Errorf("read session counter: %w", err)
	}
	ic, err := s.counters.Peek(ctx, ipSubject(c.IP))
	if err != nil {
		return domrl.Usage{}, fmt.Errorf("read ip counter: %w", err)
	}

	remaining := min(max(0, sessionLimit-sc.Count), max(0, ipLimit-ic.Count))
	return domrl.NewUsage(tier, sc.Count, sessionLimit, remaining, s.now().Add(sc.ResetIn)), nil
}

func sessionSubject(id string) string { return "session:" + id }
func ipSubject(ip string) string      { return "ip:" + ip }
