package signer

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Size is the byte length of every signature.
const Size = 32

var (
	// ErrMissingKey is returned when signing or verifying without a secret.
	ErrMissingKey = errors.New("signing secret is not configured")
	// ErrSignatureLength is returned for signatures that are not Size bytes.
	ErrSignatureLength = errors.New("signature has wrong length")
	// ErrSignatureMismatch is returned when the MAC does not match.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrSignatureEncoding is returned when a signature segment is not strict raw base64url.
	ErrSignatureEncoding = errors.New("signature encoding invalid")
)

var (
	method   = jwt.SigningMethodHS256
	encoding = base64.RawURLEncoding.Strict()
)

// Sign returns HMAC-SHA256(secret, message).
func Sign(secret []byte, message string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrMissingKey
	}
	return method.Sign(message, secret)
}

// Verify reports whether provided is the MAC of message under secret.
//
// A length mismatch is rejected before any byte comparison; equal-length inputs
// are compared in constant time.
func Verify(secret []byte, message string, provided []byte) bool {
	return Check(secret, message, provided) == nil
}

// Check is Verify with the failure reason.
func Check(secret []byte, message string, provided []byte) error {
	if len(secret) == 0 {
		return ErrMissingKey
	}
	if len(provided) != Size {
		return ErrSignatureLength
	}
	if err := method.Verify(message, provided, secret); err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return ErrSignatureMismatch
		}
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

// EncodeSignature renders sig as a token segment.
func EncodeSignature(sig []byte) string {
	return encoding.EncodeToString(sig)
}

// DecodeSignature parses a token segment produced by EncodeSignature.
func DecodeSignature(segment string) ([]byte, error) {
	sig, err := encoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureEncoding, err)
	}
	return sig, nil
}
