package goSession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/password"
)

func TestLoginSuccess(t *testing.T) {
	engine := newTestEngine(t, testConfig(), nil)
	ctx := context.Background()

	res, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.RedirectTo != DefaultRedirectPath {
		t.Fatalf("expected default redirect, got %q", res.RedirectTo)
	}
	if res.TTLSeconds != 43200 || res.MaxAge != 43200 {
		t.Fatalf("unexpected ttl %d / max-age %d", res.TTLSeconds, res.MaxAge)
	}

	p, err := engine.Verify(ctx, res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if p.Username != "alice" {
		t.Fatalf("expected alice, got %q", p.Username)
	}
}

func TestLoginRedirectTarget(t *testing.T) {
	engine := newTestEngine(t, testConfig(), nil)

	tests := []struct {
		next string
		want string
	}{
		{next: "", want: "/dashboard"},
		{next: "/dashboard/latency?range=1h", want: "/dashboard/latency?range=1h"},
		{next: "https://evil.example/", want: "/dashboard"},
		{next: "//evil.example/", want: "/dashboard"},
	}
	for _, tc := range tests {
		res, err := engine.Login(context.Background(), LoginRequest{
			Username: "alice",
			Password: "correct-horse",
			Next:     tc.next,
		})
		if err != nil {
			t.Fatalf("Login(%q): %v", tc.next, err)
		}
		if res.RedirectTo != tc.want {
			t.Fatalf("next %q: expected %q, got %q", tc.next, tc.want, res.RedirectTo)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	engine := newTestEngine(t, testConfig(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		user string
		pass string
	}{
		{name: "wrong password", user: "alice", pass: "wrong"},
		{name: "wrong username", user: "bob", pass: "correct-horse"},
		{name: "empty", user: "", pass: ""},
		{name: "prefix password", user: "alice", pass: "correct"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := engine.Login(ctx, LoginRequest{Username: tc.user, Password: tc.pass})
			if res != nil {
				t.Fatalf("expected nil result, got %+v", res)
			}
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginWithoutCredentialsIsConfigurationError(t *testing.T) {
	cfg := testConfig()
	cfg.Credentials = CredentialsConfig{}
	engine := newTestEngine(t, cfg, nil)

	_, err := engine.Login(context.Background(), LoginRequest{Username: "", Password: ""})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if err := engine.Authenticate(context.Background(), "alice", "x"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Authenticate: expected ErrConfiguration, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricLoginMisconfigured]; got != 1 {
		t.Fatalf("expected one misconfigured login, got %d", got)
	}
}

func TestLoginWithArgon2Hash(t *testing.T) {
	hash, err := password.Hash("correct-horse", password.Params{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	cfg := testConfig()
	cfg.Credentials = CredentialsConfig{Username: "alice", PasswordHash: hash}
	engine := newTestEngine(t, cfg, nil)
	ctx := context.Background()

	if _, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"}); err != nil {
		t.Fatalf("Login with hash: %v", err)
	}
	if _, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRateLimitedAfterBudget(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxAttempts = 2
	engine := newTestEngine(t, cfg, nil)
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	for i := 0; i < 2; i++ {
		if _, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Correct credentials do not bypass an exhausted budget.
	_, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"})
	if !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited, got %v", err)
	}
	if KindOf(err) != KindRateLimited {
		t.Fatalf("expected KindRateLimited, got %s", KindOf(err))
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLoginFailure] != 2 || snap.Counters[MetricLoginRateLimited] != 1 {
		t.Fatalf("unexpected counters: %+v", snap.Counters)
	}
}

func TestLoginThrottledIPDoesNotLockOutOtherIPs(t *testing.T) {
	_, rdb := newTestRedis(t)

	backends := map[string]func(cfg Config) *Engine{
		"memory": func(cfg Config) *Engine { return newTestEngine(t, cfg, nil) },
		"redis": func(cfg Config) *Engine {
			engine, err := New().WithConfig(cfg).WithRedis(rdb).Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			t.Cleanup(engine.Close)
			return engine
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RateLimit.RedisPrefix = "gs-" + name
			engine := build(cfg)

			attacker := WithClientIP(context.Background(), "198.51.100.66")
			for i := 0; i < cfg.RateLimit.MaxAttempts; i++ {
				_, _ = engine.Login(attacker, LoginRequest{Username: "alice", Password: "guess"})
			}
			if _, err := engine.Login(attacker, LoginRequest{Username: "alice", Password: "correct-horse"}); !errors.Is(err, ErrLoginRateLimited) {
				t.Fatalf("attacker IP should be throttled, got %v", err)
			}

			operator := WithClientIP(context.Background(), "203.0.113.5")
			if _, err := engine.Login(operator, LoginRequest{Username: "alice", Password: "correct-horse"}); err != nil {
				t.Fatalf("login from another IP should succeed: %v", err)
			}
		})
	}
}

func TestLoginUserCeilingSpansIPs(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxAttempts = 2
	cfg.RateLimit.UserCeiling = 3
	engine := newTestEngine(t, cfg, nil)

	for _, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		ctx := WithClientIP(context.Background(), ip)
		_, _ = engine.Login(ctx, LoginRequest{Username: "alice", Password: "guess"})
	}

	ctx := WithClientIP(context.Background(), "203.0.113.5")
	if _, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"}); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected username ceiling to apply, got %v", err)
	}
}

func TestLoginSuccessResetsBudget(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.MaxAttempts = 2
	engine := newTestEngine(t, cfg, nil)
	ctx := context.Background()

	_, _ = engine.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	if _, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, err := engine.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("budget should have been reset, got %v", err)
	}
}

func TestLoginRedisLimiterSharedAcrossEngines(t *testing.T) {
	_, rdb := newTestRedis(t)

	cfg := testConfig()
	cfg.RateLimit.MaxAttempts = 2

	build := func() *Engine {
		engine, err := New().WithConfig(cfg).WithRedis(rdb).Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		t.Cleanup(engine.Close)
		return engine
	}
	first, second := build(), build()
	ctx := context.Background()

	_, _ = first.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	_, _ = second.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})

	if _, err := first.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"}); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected shared budget to be exhausted, got %v", err)
	}
}

func TestLoginFailsOpenWhenLimiterBackendDown(t *testing.T) {
	mr, rdb := newTestRedis(t)

	engine, err := New().WithConfig(testConfig()).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	mr.Close()

	if _, err := engine.Login(context.Background(), LoginRequest{Username: "alice", Password: "correct-horse"}); err != nil {
		t.Fatalf("expected login to proceed without limiter, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricRateLimiterError]; got == 0 {
		t.Fatal("expected limiter errors to be counted")
	}
}

func TestLoginAuditTrail(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16
	cfg.Audit.DropIfFull = false
	sink := NewChannelSink(16)

	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer engine.Close()

	ctx := WithRequestID(WithClientIP(context.Background(), "198.51.100.4"), "req-1")
	_, _ = engine.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})

	select {
	case ev := <-sink.Events():
		if ev.EventType != auditEventLoginFailure {
			t.Fatalf("expected login_failure, got %q", ev.EventType)
		}
		if ev.Success || ev.Error != "invalid_credentials" {
			t.Fatalf("unexpected event %+v", ev)
		}
		if ev.IP != "198.51.100.4" || ev.RequestID != "req-1" {
			t.Fatalf("request metadata not propagated: %+v", ev)
		}
		if ev.Metadata["identifier"] != "alice" {
			t.Fatalf("expected identifier metadata, got %+v", ev.Metadata)
		}
		if ev.ID == "" {
			t.Fatal("expected event id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestLogoutCountsAndNamesUser(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	sink := NewChannelSink(8)

	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()
	issued, err := engine.Issue(ctx, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	<-sink.Events() // session_issued

	engine.Logout(ctx, issued.Token)

	select {
	case ev := <-sink.Events():
		if ev.EventType != auditEventLogout || ev.Username != "alice" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
	if got := engine.MetricsSnapshot().Counters[MetricLogout]; got != 1 {
		t.Fatalf("expected one logout, got %d", got)
	}
}
