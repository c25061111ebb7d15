package goSession

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a missing secret or missing credentials. The
	// engine refuses the operation rather than degrading to "allow".
	ErrConfiguration = errors.New("session configuration missing")
	// ErrMalformedToken reports a token that is not two non-empty segments or
	// whose payload does not decode.
	ErrMalformedToken = errors.New("malformed session token")
	// ErrBadSignature reports a signature that does not decode, has the wrong
	// length, or does not match the payload.
	ErrBadSignature = errors.New("bad session signature")
	// ErrExpired reports a token whose expiry is at or before the current time.
	ErrExpired = errors.New("session expired")
	// ErrInvalidCredentials reports a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited reports that the username or client IP exhausted its
	// failed-login budget.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrInvalidUsername reports an empty or over-long username passed to Issue.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrEngineNotReady reports a nil engine. It is a configuration error.
	ErrEngineNotReady = fmt.Errorf("%w: engine not initialized", ErrConfiguration)
)

// ErrorKind is the closed set of failure categories surfaced by the engine.
type ErrorKind int

const (
	// KindUnknown covers nil errors and errors outside the closed set.
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindMalformedToken
	KindBadSignature
	KindExpired
	KindInvalidCredentials
	KindRateLimited
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindConfiguration:      "configuration",
	KindMalformedToken:     "malformed_token",
	KindBadSignature:       "bad_signature",
	KindExpired:            "expired",
	KindInvalidCredentials: "invalid_credentials",
	KindRateLimited:        "rate_limited",
}

// String returns a stable snake_case code, used in audit events.
func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf classifies err. Wrapped errors are unwrapped with errors.Is.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrMalformedToken):
		return KindMalformedToken
	case errors.Is(err, ErrBadSignature):
		return KindBadSignature
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrLoginRateLimited):
		return KindRateLimited
	default:
		return KindUnknown
	}
}
