package goSession

import (
	"fmt"
	"time"
)

// LintSeverity ranks a [LintWarning].
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("LintSeverity(%d)", int(s))
	}
}

// LintWarning is one advisory finding. Code is stable and safe to match on.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the ordered list of findings from [Config.Lint].
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns only warnings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

const (
	minSecretBytes = 32
	longTTL        = 7 * 24 * time.Hour
)

// Lint reports configurations that are valid but unsafe or fail-closed.
// It never fails; callers decide which severities block startup.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, format string, args ...any) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	switch n := len(c.Session.Secret); {
	case n == 0:
		add("secret_missing", LintHigh, "no session secret: every login and protected request will be refused")
	case n < minSecretBytes:
		add("secret_short", LintWarn, "session secret is %d bytes; use at least %d", n, minSecretBytes)
	}

	if !c.Credentials.Configured() {
		add("credentials_missing", LintHigh, "dashboard credentials are not configured: every login will be refused")
	} else if c.Credentials.PasswordHash == "" {
		add("password_plaintext", LintInfo, "expected password is held in plaintext; consider an argon2id hash")
	}

	if c.Session.TTL > longTTL {
		add("ttl_long", LintWarn, "session TTL %s exceeds %s and tokens cannot be revoked", c.Session.TTL, longTTL)
	}

	if c.Cookie.SecureMode == CookieSecureNever {
		add("cookie_insecure", LintWarn, "session cookie will be sent over plain HTTP")
	}

	if !c.RateLimit.Enabled {
		add("rate_limits_disabled", LintWarn, "failed logins are not throttled")
	} else if !c.RateLimit.EnableIPThrottle {
		add("ip_throttle_disabled", LintWarn, "failed logins are throttled per username only; any client can lock the account out")
	}

	if c.Cookie.TrustForwardedFor {
		add("forwarded_for_trusted", LintInfo, "X-Forwarded-For is trusted; deploy only behind a proxy that overwrites it")
	}

	return ws
}
