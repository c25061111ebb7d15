package rate

import (
	"context"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

type bucket struct {
	lim      *xrate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per budget. Each bucket holds the
// budget's maximum and refills completely over Cooldown; every failure takes
// one token.
type MemoryLimiter struct {
	mu      sync.Mutex
	config  Config
	entries map[string]*bucket
	now     func() time.Time
}

// NewMemoryLimiter creates a process-local limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  cfg,
		entries: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) newBucket(max int) *bucket {
	limit := xrate.Inf
	if l.config.Cooldown > 0 && max > 0 {
		limit = xrate.Limit(float64(max) / l.config.Cooldown.Seconds())
	}
	return &bucket{lim: xrate.NewLimiter(limit, max)}
}

// Check reports ErrRateLimited when any key has no token left.
func (l *MemoryLimiter) Check(_ context.Context, username, ip string) error {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, bu := range l.config.budgets("", username, ip) {
		b, ok := l.entries[bu.key]
		if !ok {
			continue
		}
		if b.lim.TokensAt(now) < 1 {
			return ErrRateLimited
		}
	}
	return nil
}

// Fail takes one token from each key.
func (l *MemoryLimiter) Fail(_ context.Context, username, ip string) error {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)

	var limited bool
	for _, bu := range l.config.budgets("", username, ip) {
		b := l.entries[bu.key]
		if b == nil {
			b = l.newBucket(bu.max)
			l.entries[bu.key] = b
		}
		b.lastSeen = now
		if !b.lim.AllowN(now, 1) || b.lim.TokensAt(now) < 1 {
			limited = true
		}
	}
	if limited {
		return ErrRateLimited
	}
	return nil
}

// Reset forgets the keys.
func (l *MemoryLimiter) Reset(_ context.Context, username, ip string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, bu := range l.config.budgets("", username, ip) {
		delete(l.entries, bu.key)
	}
	return nil
}

// evict drops buckets untouched for a full cooldown; they have refilled.
func (l *MemoryLimiter) evict(now time.Time) {
	for k, b := range l.entries {
		if now.Sub(b.lastSeen) > l.config.Cooldown {
			delete(l.entries, k)
		}
	}
}
