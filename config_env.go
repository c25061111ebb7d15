package goSession

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the environment variables read at startup.
type envConfig struct {
	Secret              string        `env:"SESSION_SECRET"`
	TTLSeconds          int64         `env:"SESSION_TTL_SECONDS"        envDefault:"43200"`
	CookieName          string        `env:"SESSION_COOKIE_NAME"        envDefault:"ws2_metrics_session"`
	CookieSecure        string        `env:"SESSION_COOKIE_SECURE"      envDefault:"auto"`
	TrustForwardedProto bool          `env:"TRUST_FORWARDED_PROTO"      envDefault:"false"`
	TrustForwardedFor   bool          `env:"TRUST_FORWARDED_FOR"        envDefault:"false"`
	Username            string        `env:"DASH_USER"`
	Password            string        `env:"DASH_PASS"`
	PasswordHash        string        `env:"DASH_PASS_HASH"`
	LoginThrottle       bool          `env:"LOGIN_THROTTLE"             envDefault:"true"`
	LoginIPThrottle     bool          `env:"LOGIN_IP_THROTTLE"          envDefault:"true"`
	LoginMaxAttempts    int           `env:"LOGIN_MAX_ATTEMPTS"         envDefault:"5"`
	LoginUserCeiling    int           `env:"LOGIN_USER_CEILING"         envDefault:"0"`
	LoginCooldown       time.Duration `env:"LOGIN_COOLDOWN"             envDefault:"15m"`
	RedisPrefix         string        `env:"REDIS_PREFIX"               envDefault:"gs"`
	AuditEnabled        bool          `env:"AUDIT_ENABLED"              envDefault:"false"`
	AuditBufferSize     int           `env:"AUDIT_BUFFER_SIZE"          envDefault:"1024"`
	MetricsEnabled      bool          `env:"METRICS_ENABLED"            envDefault:"true"`
	LatencyHistograms   bool          `env:"METRICS_LATENCY_HISTOGRAMS" envDefault:"false"`
}

// ConfigFromEnv builds a [Config] from process environment variables.
//
// A missing SESSION_SECRET or DASH_USER is not an error: the resulting engine
// is fail-closed and [Config.Lint] reports it.
func ConfigFromEnv() (Config, error) {
	return configFromEnv(env.Options{})
}

// ConfigFromMap is ConfigFromEnv over an explicit variable set.
func ConfigFromMap(vars map[string]string) (Config, error) {
	return configFromEnv(env.Options{Environment: vars})
}

func configFromEnv(opts env.Options) (Config, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	secure, err := ParseCookieSecureMode(raw.CookieSecure)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: SESSION_COOKIE_SECURE: %w", err)
	}
	if raw.TTLSeconds <= 0 {
		return Config{}, fmt.Errorf("parse env: SESSION_TTL_SECONDS must be > 0, got %d", raw.TTLSeconds)
	}

	cfg := DefaultConfig()
	if raw.Secret != "" {
		cfg.Session.Secret = []byte(raw.Secret)
	}
	cfg.Session.TTL = time.Duration(raw.TTLSeconds) * time.Second
	cfg.Session.CookieName = raw.CookieName

	cfg.Credentials = CredentialsConfig{
		Username:     raw.Username,
		Password:     raw.Password,
		PasswordHash: raw.PasswordHash,
	}

	cfg.Cookie.SecureMode = secure
	cfg.Cookie.TrustForwardedProto = raw.TrustForwardedProto
	cfg.Cookie.TrustForwardedFor = raw.TrustForwardedFor

	cfg.RateLimit.Enabled = raw.LoginThrottle
	cfg.RateLimit.EnableIPThrottle = raw.LoginIPThrottle
	cfg.RateLimit.MaxAttempts = raw.LoginMaxAttempts
	cfg.RateLimit.UserCeiling = raw.LoginUserCeiling
	cfg.RateLimit.Cooldown = raw.LoginCooldown
	cfg.RateLimit.RedisPrefix = raw.RedisPrefix

	cfg.Audit.Enabled = raw.AuditEnabled
	cfg.Audit.BufferSize = raw.AuditBufferSize

	cfg.Metrics.Enabled = raw.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = raw.LatencyHistograms

	return cfg, nil
}
