// Package notify is the outbound delivery boundary.
//
// Deliver is deliberately synchronous: the watcher's cycles are strictly
// sequential, and a delivery failure must be observable within the same
// cycle. No queue, no mid-cycle retry; a persisting condition is retried
// naturally on the next scheduled cycle.
package notify

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	kit "reviewbot/internal/transport"
	logx "reviewbot/pkg/logx"
)

type Config struct {
	RatePerSec int
	// DedupWindow suppresses identical texts sent within the window.
	// Zero disables dedup.
	DedupWindow time.Duration
}

type Service struct {
	mu  sync.Mutex
	cfg Config

	adapter kit.Adapter
	to      kit.ChatTarget
	log     logx.Logger

	limiter *rate.Limiter

	// Recently sent texts: text -> suppress until.
	dedup map[string]time.Time
}

func New(cfg Config, adapter kit.Adapter, to kit.ChatTarget, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		adapter: adapter,
		to:      to,
		log:     log,
		dedup:   map[string]time.Time{},
	}
	s.applyLocked(cfg)
	return s
}

func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	s.applyLocked(cfg)
	s.mu.Unlock()
}

func (s *Service) applyLocked(cfg Config) {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 3
	}
	if cfg.DedupWindow < 0 {
		cfg.DedupWindow = 0
	}
	s.cfg = cfg
	// Token bucket: burst = rate per sec, so a multi-item cycle doesn't stall.
	s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
}

// Deliver sends text to the configured destination.
// Failures are logged and reported via the return value, never raised.
func (s *Service) Deliver(ctx context.Context, text string) bool {
	s.mu.Lock()
	limiter := s.limiter
	window := s.cfg.DedupWindow
	s.mu.Unlock()

	if window > 0 && s.suppressed(text, window) {
		s.log.Debug("duplicate notification suppressed", logx.Duration("window", window))
		return true
	}

	if err := limiter.Wait(ctx); err != nil {
		s.log.Warn("delivery aborted while rate limited", logx.Err(err))
		return false
	}

	s.log.Debug("delivering notification", logx.Int("len", len(text)))
	if _, err := s.adapter.SendText(ctx, s.to, text, &kit.SendOptions{DisablePreview: true}); err != nil {
		s.log.Error("delivery failed", logx.Err(err))
		return false
	}

	if window > 0 {
		s.remember(text, window)
	}
	return true
}

func (s *Service) suppressed(text string, window time.Duration) bool {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.dedup[text]
	if ok && now.Before(until) {
		return true
	}
	// Opportunistic cleanup of expired entries.
	for k, u := range s.dedup {
		if now.After(u) {
			delete(s.dedup, k)
		}
	}
	return false
}

func (s *Service) remember(text string, window time.Duration) {
	s.mu.Lock()
	s.dedup[text] = time.Now().Add(window)
	s.mu.Unlock()
}
