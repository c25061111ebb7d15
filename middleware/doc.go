// Package middleware exposes the HTTP request gate and the small request
// middlewares the gate relies on.
//
// # Gate
//
// [Gate] classifies each request path as public or protected. Protected
// requests must carry a session cookie that the configured [Verifier]
// (normally a goSession.Engine) accepts. Rejected API requests get a JSON 401;
// rejected page requests are redirected to the login page with the original
// path and query in the next parameter.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement token logic itself; every accept/reject decision comes from
// Verifier.Verify.
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly.
//   - Leak the rejection reason to the client.
//   - Write anything besides the response (no cookie mutation on reject).
package middleware
