package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// ErrNotConfigured is returned by NewMatcher when neither form is set.
var ErrNotConfigured = errors.New("expected password is not configured")

// Matcher checks a submitted password against the expected one.
type Matcher interface {
	Match(password string) bool
}

// PlainMatcher compares against a plaintext expected password.
//
// Both sides are reduced to SHA-256 digests first so the comparison length is
// fixed and does not reveal the expected password's length.
type PlainMatcher struct {
	digest [sha256.Size]byte
}

// NewPlainMatcher returns a matcher for expected.
func NewPlainMatcher(expected string) *PlainMatcher {
	return &PlainMatcher{digest: sha256.Sum256([]byte(expected))}
}

// Match reports whether password equals the expected password.
func (m *PlainMatcher) Match(password string) bool {
	if m == nil {
		return false
	}
	got := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(got[:], m.digest[:]) == 1
}

// NewMatcher prefers encodedHash when set and falls back to plaintext.
func NewMatcher(plaintext, encodedHash string) (Matcher, error) {
	if encodedHash != "" {
		return NewArgon2Matcher(encodedHash)
	}
	if plaintext == "" {
		return nil, ErrNotConfigured
	}
	return NewPlainMatcher(plaintext), nil
}

// EqualString compares two strings in constant time with respect to their
// contents and lengths.
func EqualString(a, b string) bool {
	da := sha256.Sum256([]byte(a))
	db := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}
