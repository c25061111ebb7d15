package goSession

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/rate"
	"github.com/MrEthical07/goSession/password"
)

// Engine issues and verifies session tokens and runs the login flow. It is
// immutable after [Builder.Build] and safe for concurrent use.
type Engine struct {
	config  Config
	matcher password.Matcher
	limiter rate.Limiter
	audit   *audit.Dispatcher
	metrics *Metrics
	clock   func() time.Time
}

// Close stops the audit dispatcher after draining queued events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// TTL returns the configured session lifetime.
func (e *Engine) TTL() time.Duration {
	if e == nil {
		return 0
	}
	return e.config.Session.TTL
}

// Lint returns advisory findings for the configuration the engine runs with.
func (e *Engine) Lint() LintResult {
	if e == nil {
		return nil
	}
	cfg := e.config
	return cfg.Lint()
}

// AuditDropped returns how many audit events were discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the in-process counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

func (e *Engine) secret() []byte {
	if e == nil {
		return nil
	}
	return e.config.Session.Secret
}

// limiterFailed records a limiter backend error. Login continues: an
// unreachable Redis must not lock the operator out.
func (e *Engine) limiterFailed(ctx context.Context, op string, err error) {
	if err == nil || errors.Is(err, rate.ErrRateLimited) {
		return
	}
	log.Printf("goSession: login limiter %s failed: %v", op, err)
	e.metricInc(MetricRateLimiterError)
	e.emitAudit(ctx, auditEventLimiterError, false, "", nil, func() map[string]string {
		return map[string]string{"op": op}
	})
}
