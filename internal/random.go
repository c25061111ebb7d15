package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// MinSecretSize is the smallest secret NewSecret will produce. HMAC-SHA256
// gains nothing from keys longer than its 64-byte block.
const (
	MinSecretSize = 32
	MaxSecretSize = 64
)

// NewSecret returns size random bytes encoded with the raw URL alphabet, so
// the result can be pasted into an environment file without quoting.
func NewSecret(size int) (string, error) {
	if size < MinSecretSize || size > MaxSecretSize {
		return "", errors.New("invalid secret size")
	}

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
