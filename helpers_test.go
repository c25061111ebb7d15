package goSession

import (
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/signer"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Session.Secret = append([]byte(nil), testSecret...)
	cfg.Credentials = CredentialsConfig{
		Username: "alice",
		Password: "correct-horse",
	}
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, clock *fakeClock) *Engine {
	t.Helper()

	b := New().WithConfig(cfg)
	if clock != nil {
		b = b.WithClock(clock.Now)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

// signedToken builds a token by hand so tests can control the payload.
func signedToken(t *testing.T, secret []byte, payloadSeg string) string {
	t.Helper()

	sig, err := signer.Sign(secret, payloadSeg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return session.JoinToken(payloadSeg, signer.EncodeSignature(sig))
}

func tokenFor(t *testing.T, secret []byte, username string, exp int64) string {
	t.Helper()

	seg, err := session.Encode(session.Payload{Username: username, ExpiresAt: exp})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return signedToken(t, secret, seg)
}
