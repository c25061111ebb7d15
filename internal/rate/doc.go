// Package rate throttles failed login attempts per username and per client IP.
//
// # Backends
//
//   - [RedisLimiter]: fixed-window counters: INCR + conditional EXPIRE on first
//     hit. Shared across replicas. Key prefixes: <prefix>:lu: (username),
//     <prefix>:li: (IP).
//   - [MemoryLimiter]: per-key token buckets (golang.org/x/time/rate) held in
//     process memory, evicted after a quiet period.
//
// # Keying
//
// With IP throttling on and a known client IP, MaxAttempts is counted per IP
// and an optional UserCeiling is counted per username across all IPs. Without
// an IP the username key carries MaxAttempts.
//
// Only failures consume budget; a successful login resets the keys.
//
// # What this package must NOT do
//
//   - Sit on the session verification path.
//   - Be imported outside the goSession module.
package rate
