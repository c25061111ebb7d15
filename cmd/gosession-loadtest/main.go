// Command gosession-loadtest measures Verify throughput and Login latency
// with the Redis-backed failure budget.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/internal"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const loadPassword = "load-test-password"

func main() {
	var (
		tokens      = flag.Int("tokens", 10000, "number of tokens to issue before the verify phase")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per verify phase")
		logins      = flag.Int("logins", 20000, "operations in the login phase")
		badRatio    = flag.Float64("bad-ratio", 0.1, "fraction of verify and login inputs that are invalid")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gs-load", "limiter key prefix")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 || *logins <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, ops and logins must be > 0")
		os.Exit(2)
	}
	if *badRatio < 0 || *badRatio > 1 {
		fmt.Fprintln(os.Stderr, "bad-ratio must be within [0, 1]")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	secret, err := internal.NewSecret(internal.MinSecretSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "secret: %v\n", err)
		os.Exit(1)
	}

	cfg := goSession.DefaultConfig()
	cfg.Session.Secret = []byte(secret)
	cfg.Credentials = goSession.CredentialsConfig{Username: "load", Password: loadPassword}
	cfg.RateLimit.RedisPrefix = *prefix
	// Every worker shares one username and IP, so the budget must not trip.
	cfg.RateLimit.MaxAttempts = *logins + 1
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := goSession.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("issuing %d tokens...\n", *tokens)
	startIssue := time.Now()
	pool := make([]string, *tokens)
	for i := range pool {
		issued, err := engine.Issue(ctx, fmt.Sprintf("user-%d", i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue failed: %v\n", err)
			os.Exit(1)
		}
		pool[i] = issued.Token
	}
	fmt.Printf("issued in %s\n", time.Since(startIssue).Round(time.Millisecond))

	verifyStats := runPhase(*ops, *concurrency, 7919, func(r *rand.Rand) (bool, error) {
		token := pool[r.Intn(len(pool))]
		bad := r.Float64() < *badRatio
		if bad {
			token = tamper(token, r)
		}
		_, err := engine.Verify(ctx, token)
		return bad, err
	})

	loginStats := runPhase(*logins, *concurrency, 6151, func(r *rand.Rand) (bool, error) {
		pass := loadPassword
		bad := r.Float64() < *badRatio
		if bad {
			pass = "wrong"
		}
		_, err := engine.Login(ctx, goSession.LoginRequest{Username: "load", Password: pass})
		return bad, err
	})

	fmt.Println("---- results ----")
	printStats("verify", verifyStats)
	printStats("login", loginStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("verify ok=%d bad_signature=%d malformed=%d limiter_errors=%d\n",
		snap.Counters[goSession.MetricVerifySuccess],
		snap.Counters[goSession.MetricVerifyBadSignature],
		snap.Counters[goSession.MetricVerifyMalformed],
		snap.Counters[goSession.MetricRateLimiterError],
	)
}

// runPhase calls op ops times across concurrency workers. op reports whether
// it expected a rejection; a mismatch between that and the error counts as a
// failure.
func runPhase(ops, concurrency int, seed int64, op func(*rand.Rand) (bool, error)) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*seed))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				wantErr, err := op(r)
				d := time.Since(t0)
				if wantErr != (err != nil) {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

// tamper flips one character of the payload segment.
func tamper(token string, r *rand.Rand) string {
	b := []byte(token)
	i := r.Intn(len(b))
	if b[i] == '.' {
		i = 0
	}
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d unexpected=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
