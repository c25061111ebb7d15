package goSession

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/session"
)

// Config is the complete, immutable engine configuration. It is read once at
// startup and copied into the engine by [Builder.Build].
type Config struct {
	Session     SessionConfig
	Credentials CredentialsConfig
	Cookie      CookieConfig
	RateLimit   RateLimitConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls token signing and lifetime.
//
// An empty Secret is accepted here; the engine then refuses every Issue and
// Verify call with [ErrConfiguration].
type SessionConfig struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
}

// CredentialsConfig holds the single operator account. PasswordHash, when set,
// is an argon2id PHC string and takes precedence over Password.
type CredentialsConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// Configured reports whether both a username and a password form are present.
func (c CredentialsConfig) Configured() bool {
	return c.Username != "" && (c.Password != "" || c.PasswordHash != "")
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieSecureMode decides when the session cookie carries the Secure flag.
type CookieSecureMode int

const (
	// CookieSecureAuto sets Secure when the request arrived over TLS, or over a
	// trusted proxy that reported https.
	CookieSecureAuto CookieSecureMode = iota
	CookieSecureAlways
	CookieSecureNever
)

// String returns the environment spelling of the mode.
func (m CookieSecureMode) String() string {
	switch m {
	case CookieSecureAuto:
		return "auto"
	case CookieSecureAlways:
		return "always"
	case CookieSecureNever:
		return "never"
	default:
		return fmt.Sprintf("CookieSecureMode(%d)", int(m))
	}
}

// ParseCookieSecureMode parses "auto", "always" or "never" (case-insensitive).
// The empty string means auto.
func ParseCookieSecureMode(s string) (CookieSecureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CookieSecureAuto, nil
	case "always", "true":
		return CookieSecureAlways, nil
	case "never", "false":
		return CookieSecureNever, nil
	default:
		return CookieSecureAuto, fmt.Errorf("invalid cookie secure mode %q", s)
	}
}

// CookieConfig controls cookie attributes and which proxy headers are trusted.
type CookieConfig struct {
	SecureMode          CookieSecureMode
	Path                string
	TrustForwardedProto bool
	TrustForwardedFor   bool
}

/*
====================================
RATE LIMIT / AUDIT / METRICS
====================================
*/

// RateLimitConfig bounds failed logins. With EnableIPThrottle, MaxAttempts
// applies per client IP and UserCeiling (0 disables it) caps failures for the
// username across all IPs. Requests without a known IP fall back to a
// per-username MaxAttempts budget.
type RateLimitConfig struct {
	Enabled          bool
	EnableIPThrottle bool
	MaxAttempts      int
	UserCeiling      int
	Cooldown         time.Duration
	RedisPrefix      string
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and the verify latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

const (
	// DefaultTTL is twelve hours.
	DefaultTTL        = 12 * time.Hour
	DefaultCookieName = "ws2_metrics_session"
	DefaultCookiePath = "/"
)

// DefaultConfig returns the configuration used when nothing is overridden.
// It carries no secret and no credentials, so an engine built from it is
// fail-closed until both are supplied.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:        DefaultTTL,
			CookieName: DefaultCookieName,
		},
		Cookie: CookieConfig{
			SecureMode: CookieSecureAuto,
			Path:       DefaultCookiePath,
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			EnableIPThrottle: true,
			MaxAttempts:      5,
			Cooldown:         15 * time.Minute,
			RedisPrefix:      "gs",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.Secret = cloneBytes(cfg.Session.Secret)
	return out
}

// withDefaults fills zero session and cookie fields from [DefaultConfig] so a
// hand-built Config needs only the values it changes. Sections that are
// switched on by a bool keep the caller's choice.
func (c Config) withDefaults() Config {
	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultTTL
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Cookie.Path == "" {
		c.Cookie.Path = DefaultCookiePath
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisPrefix == "" {
		c.RateLimit.RedisPrefix = "gs"
	}
	return c
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations that cannot work at all. A missing secret
// or missing credentials is not an error here; see [Config.Lint].
func (c *Config) Validate() error {
	if c.Session.TTL < time.Second {
		return errors.New("Session TTL must be at least one second")
	}
	if !validCookieName(c.Session.CookieName) {
		return errors.New("Session CookieName must be a non-empty cookie token")
	}

	switch c.Cookie.SecureMode {
	case CookieSecureAuto, CookieSecureAlways, CookieSecureNever:
	default:
		return errors.New("unsupported Cookie SecureMode")
	}
	if c.Cookie.Path == "" || !strings.HasPrefix(c.Cookie.Path, "/") {
		return errors.New("Cookie Path must start with /")
	}

	if c.Credentials.Password != "" && c.Credentials.Username == "" {
		return errors.New("Credentials Password set without Username")
	}
	if c.Credentials.PasswordHash != "" && c.Credentials.Username == "" {
		return errors.New("Credentials PasswordHash set without Username")
	}
	if len(c.Credentials.Username) > session.MaxUsernameBytes {
		return fmt.Errorf("Credentials Username must be at most %d bytes", session.MaxUsernameBytes)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.MaxAttempts <= 0 {
			return errors.New("RateLimit MaxAttempts must be > 0")
		}
		if c.RateLimit.Cooldown <= 0 {
			return errors.New("RateLimit Cooldown must be > 0")
		}
		if c.RateLimit.UserCeiling < 0 {
			return errors.New("RateLimit UserCeiling must be >= 0")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}

// validCookieName accepts RFC 6265 token characters.
func validCookieName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`()<>@,;:\"/[]?={}`, c) >= 0 {
			return false
		}
	}
	return true
}
