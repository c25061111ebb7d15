// Package handler exposes the login, logout and login-page endpoints over
// net/http.
//
// It is the only place that maps goSession error kinds onto HTTP statuses:
//
//	KindInvalidCredentials -> 401
//	KindRateLimited        -> 429
//	KindConfiguration      -> 500
//
// Responses are JSON except for the login page.
package handler
