package rate

import (
	"context"
	"time"
)

// Config holds login throttling parameters.
//
// With EnableIPThrottle and a known client address, failures are counted per
// IP so that one noisy client cannot lock the account for everybody else.
// UserCeiling, when positive, adds a username-wide budget across all IPs;
// it should sit well above MaxAttempts. Without an IP the username carries
// the MaxAttempts budget.
type Config struct {
	EnableIPThrottle bool
	MaxAttempts      int
	UserCeiling      int
	Cooldown         time.Duration
}

// Limiter is implemented by every backend.
type Limiter interface {
	// Check returns ErrRateLimited when any budget for username and ip is spent.
	Check(ctx context.Context, username, ip string) error
	// Fail records one failed attempt against every budget for username and ip.
	Fail(ctx context.Context, username, ip string) error
	// Reset clears the budgets after a successful login.
	Reset(ctx context.Context, username, ip string) error
}

// budget is one counter and the failures it tolerates.
type budget struct {
	key string
	max int
}

func userKey(prefix, username string) string {
	return prefix + ":lu:" + username
}

func ipKey(prefix, ip string) string {
	return prefix + ":li:" + ip
}

func (c Config) budgets(prefix, username, ip string) []budget {
	if !c.EnableIPThrottle || ip == "" {
		return []budget{{key: userKey(prefix, username), max: c.MaxAttempts}}
	}

	out := []budget{{key: ipKey(prefix, ip), max: c.MaxAttempts}}
	if c.UserCeiling > 0 {
		out = append(out, budget{key: userKey(prefix, username), max: c.UserCeiling})
	}
	return out
}

func keysOf(bs []budget) []string {
	keys := make([]string, len(bs))
	for i, b := range bs {
		keys[i] = b.key
	}
	return keys
}
