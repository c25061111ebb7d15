package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator joins the payload and signature segments of a token.
	Separator = "."
	// MaxUsernameBytes is the longest username a token can carry.
	MaxUsernameBytes = 256

	maxSegmentBytes = 4096
)

var (
	// ErrMalformed is returned for any token or payload that cannot be parsed.
	ErrMalformed = errors.New("malformed session token")
	// ErrEmptyUsername is returned when encoding a payload without a username.
	ErrEmptyUsername = errors.New("session username is empty")
	// ErrUsernameTooLong is returned when encoding a username over MaxUsernameBytes.
	ErrUsernameTooLong = errors.New("session username too long")
)

// Encoding is the segment alphabet: URL and cookie safe, no padding, and
// strict so that every byte string has exactly one textual form.
var Encoding = base64.RawURLEncoding.Strict()

// Encode serializes p into the payload segment of a token.
func Encode(p Payload) (string, error) {
	if p.Username == "" {
		return "", ErrEmptyUsername
	}
	if len(p.Username) > MaxUsernameBytes {
		return "", ErrUsernameTooLong
	}

	username := p.Username
	expiresAt := p.ExpiresAt
	raw, err := json.Marshal(wirePayload{Username: &username, ExpiresAt: &expiresAt})
	if err != nil {
		return "", err
	}

	return Encoding.EncodeToString(raw), nil
}

// Decode is the inverse of Encode. All failures wrap ErrMalformed.
func Decode(segment string) (Payload, error) {
	if segment == "" {
		return Payload{}, fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	if len(segment) > maxSegmentBytes {
		return Payload{}, fmt.Errorf("%w: payload too large", ErrMalformed)
	}

	raw, err := Encoding.DecodeString(segment)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if wire.Username == nil || *wire.Username == "" {
		return Payload{}, fmt.Errorf("%w: missing username", ErrMalformed)
	}
	if wire.ExpiresAt == nil {
		return Payload{}, fmt.Errorf("%w: missing expiry", ErrMalformed)
	}

	return Payload{
		Username:  *wire.Username,
		ExpiresAt: *wire.ExpiresAt,
	}, nil
}

// SplitToken returns the payload and signature segments of token. It fails
// unless token is exactly two non-empty parts around a single separator.
func SplitToken(token string) (string, string, error) {
	payload, signature, ok := strings.Cut(token, Separator)
	if !ok || payload == "" || signature == "" {
		return "", "", fmt.Errorf("%w: expected two segments", ErrMalformed)
	}
	if strings.Contains(signature, Separator) {
		return "", "", fmt.Errorf("%w: expected two segments", ErrMalformed)
	}
	return payload, signature, nil
}

// JoinToken concatenates the two segments.
func JoinToken(payload, signature string) string {
	return payload + Separator + signature
}
