package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	algorithmID           = "argon2id"
)

var (
	// ErrInvalidHash is returned when a PHC string cannot be parsed.
	ErrInvalidHash = errors.New("invalid argon2id hash")
	// ErrInvalidParams is returned for Argon2 parameters below the supported floor.
	ErrInvalidParams = errors.New("invalid argon2id parameters")
)

// Params are the Argon2id cost parameters used by Hash.
type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the parameters dashauthctl uses for new hashes.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Params) validate() error {
	switch {
	case p.Memory < minMemoryKB:
		return fmt.Errorf("%w: memory must be >= %d KiB", ErrInvalidParams, minMemoryKB)
	case p.Time < minTimeCost:
		return fmt.Errorf("%w: time must be >= %d", ErrInvalidParams, minTimeCost)
	case p.Parallelism < minParallelism:
		return fmt.Errorf("%w: parallelism must be >= %d", ErrInvalidParams, minParallelism)
	case p.SaltLength < minSaltLength:
		return fmt.Errorf("%w: salt length must be >= %d", ErrInvalidParams, minSaltLength)
	case p.KeyLength < minKeyLength:
		return fmt.Errorf("%w: key length must be >= %d", ErrInvalidParams, minKeyLength)
	}
	return nil
}

// Hash derives a PHC-encoded Argon2id hash of password with a random salt.
func Hash(password string, p Params) (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	if password == "" {
		return "", errors.New("password is empty")
	}

	salt := make([]byte, p.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		p.Memory,
		p.Time,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Argon2Matcher matches passwords against one pre-parsed PHC hash.
type Argon2Matcher struct {
	params Params
	salt   []byte
	key    []byte
}

// NewArgon2Matcher parses encoded once so that Match only derives and compares.
func NewArgon2Matcher(encoded string) (*Argon2Matcher, error) {
	parts := strings.Split(strings.TrimSpace(encoded), "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 5 fields", ErrInvalidHash)
	}
	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidHash, parts[1])
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, fmt.Errorf("%w: bad version field", ErrInvalidHash)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHash, version)
	}

	params, err := parseCost(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := decodePHCBase64(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	key, err := decodePHCBase64(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: hash: %v", ErrInvalidHash, err)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &Argon2Matcher{params: params, salt: salt, key: key}, nil
}

// Match reports whether password derives to the stored key.
func (m *Argon2Matcher) Match(password string) bool {
	if m == nil {
		return false
	}
	derived := argon2.IDKey([]byte(password), m.salt, m.params.Time, m.params.Memory, m.params.Parallelism, m.params.KeyLength)
	return subtle.ConstantTimeCompare(derived, m.key) == 1
}

func parseCost(field string) (Params, error) {
	var (
		p                   Params
		seenM, seenT, seenP bool
	)

	pairs := strings.Split(field, ",")
	if len(pairs) != 3 {
		return p, fmt.Errorf("%w: expected m,t,p parameters", ErrInvalidHash)
	}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return p, fmt.Errorf("%w: bad parameter %q", ErrInvalidHash, pair)
		}
		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return p, fmt.Errorf("%w: bad memory", ErrInvalidHash)
			}
			p.Memory, seenM = uint32(v), true
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return p, fmt.Errorf("%w: bad time", ErrInvalidHash)
			}
			p.Time, seenT = uint32(v), true
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return p, fmt.Errorf("%w: bad parallelism", ErrInvalidHash)
			}
			p.Parallelism, seenP = uint8(v), true
		default:
			return p, fmt.Errorf("%w: unknown parameter %q", ErrInvalidHash, name)
		}
	}

	if !seenM || !seenT || !seenP {
		return p, fmt.Errorf("%w: missing parameters", ErrInvalidHash)
	}
	return p, nil
}

// decodePHCBase64 accepts both the unpadded PHC form and padded standard base64.
func decodePHCBase64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
