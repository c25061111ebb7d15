package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter enforces login budgets with Redis counters so that every
// replica shares them.
type RedisLimiter struct {
	redis  redis.UniversalClient
	prefix string
	config Config
}

// NewRedisLimiter creates a [RedisLimiter] backed by the given client.
func NewRedisLimiter(client redis.UniversalClient, prefix string, cfg Config) *RedisLimiter {
	if prefix == "" {
		prefix = "gs"
	}
	return &RedisLimiter{
		redis:  client,
		prefix: prefix,
		config: cfg,
	}
}

// Check reports whether every budget for username and ip has room left.
func (l *RedisLimiter) Check(ctx context.Context, username, ip string) error {
	for _, b := range l.config.budgets(l.prefix, username, ip) {
		if err := l.checkCounter(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Fail records a failed login against every budget for username and ip.
func (l *RedisLimiter) Fail(ctx context.Context, username, ip string) error {
	var limited bool
	for _, b := range l.config.budgets(l.prefix, username, ip) {
		count, err := l.incrementWithTTL(ctx, b.key, l.config.Cooldown)
		if err != nil {
			return err
		}
		if count >= int64(b.max) {
			limited = true
		}
	}
	if limited {
		return ErrRateLimited
	}
	return nil
}

// Reset clears the failed-login counters for username and ip.
func (l *RedisLimiter) Reset(ctx context.Context, username, ip string) error {
	if err := l.redis.Del(ctx, keysOf(l.config.budgets(l.prefix, username, ip))...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the failure count of the first budget that governs
// username and ip: the IP counter when IP throttling applies, otherwise the
// username counter. Missing keys return zero.
func (l *RedisLimiter) Attempts(ctx context.Context, username, ip string) (int, error) {
	count, err := l.redis.Get(ctx, l.config.budgets(l.prefix, username, ip)[0].key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *RedisLimiter) checkCounter(ctx context.Context, b budget) error {
	count, err := l.redis.Get(ctx, b.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(b.max) {
		return ErrRateLimited
	}

	return nil
}

func (l *RedisLimiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
