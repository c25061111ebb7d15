package goSession

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/rate"
	"github.com/MrEthical07/goSession/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. It is single-use.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration. The secret is copied.
//
// Build fills a zero Session.TTL, an empty Session.CookieName and an empty
// Cookie.Path from [DefaultConfig]. Rate limiting, audit and metrics stay as
// given, so start from DefaultConfig to keep login throttling on.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis makes the login limiter share its counters through Redis. Without
// it the limiter is process-local.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the sink that receives audit events when
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides time.Now. Tests use it to pin expiry boundaries.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready engine. A missing
// secret or missing credentials do not fail Build; the engine is fail-closed.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config).withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		clock:  b.clock,
	}
	if engine.clock == nil {
		engine.clock = time.Now
	}

	// -------- CREDENTIALS --------
	if cfg.Credentials.Configured() {
		m, err := password.NewMatcher(cfg.Credentials.Password, cfg.Credentials.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("credentials: %w", err)
		}
		engine.matcher = m
	}

	// -------- LOGIN LIMITER --------
	if cfg.RateLimit.Enabled {
		rc := rate.Config{
			EnableIPThrottle: cfg.RateLimit.EnableIPThrottle,
			MaxAttempts:      cfg.RateLimit.MaxAttempts,
			UserCeiling:      cfg.RateLimit.UserCeiling,
			Cooldown:         cfg.RateLimit.Cooldown,
		}
		if b.redis != nil {
			engine.limiter = rate.NewRedisLimiter(b.redis, cfg.RateLimit.RedisPrefix, rc)
		} else {
			engine.limiter = rate.NewMemoryLimiter(rc)
		}
	}

	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
