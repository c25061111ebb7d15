// Package internal contains helper utilities that are intentionally private to goSession,
// such as secure random generation.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - rate: failed-login budgets (Redis fixed window, in-memory token bucket)
//   - requestmeta: scheme and client address resolution behind proxies
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSession API.
//   - Be imported by any package outside the goSession module.
package internal
