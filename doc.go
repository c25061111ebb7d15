// Package goSession provides stateless, HMAC-signed cookie sessions for a single
// operator account, plus the login flow that issues them.
//
// A session token is base64url(payload) "." base64url(HMAC-SHA256(secret, payload)).
// Nothing is stored server-side; a token stays valid until its embedded expiry or
// until the secret is rotated.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (IssuedSession, LoginResult, MetricsSnapshot). Token encoding lives in session/, the MAC in
// signer/, password matching in password/. Rate limiting and audit dispatch live under
// internal/ and are never exported.
//
// # Fail-closed contract
//
// An engine built without a secret is valid, but Issue, Verify, and Login refuse every call
// with [ErrConfiguration]. Callers map that to a server error, never to "allow".
//
// # Performance contract
//
// Verify is the hot path. It performs no I/O. Login is allowed one limiter round-trip
// per call when a Redis client is configured.
package goSession
