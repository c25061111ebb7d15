package goSession

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSession/internal/rate"
	"github.com/MrEthical07/goSession/password"
)

// LoginRequest is a submitted login form. Next is the optional post-login
// target and is sanitized with [SafeRedirectPath].
type LoginRequest struct {
	Username string
	Password string
	Next     string
}

// LoginResult carries the issued token and where the client should go next.
type LoginResult struct {
	Token      string
	MaxAge     int
	ExpiresAt  time.Time
	RedirectTo string
	TTLSeconds int64
}

// Authenticate checks username and password against the configured account.
//
// Both comparisons always run so timing does not reveal which one failed.
// It returns [ErrConfiguration] when credentials are not configured.
func (e *Engine) Authenticate(_ context.Context, username, pass string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.matcher == nil || !e.config.Credentials.Configured() {
		return ErrConfiguration
	}

	userOK := password.EqualString(username, e.config.Credentials.Username)
	passOK := e.matcher.Match(pass)
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// Login runs the full login flow: configuration checks, the failure budget,
// the credential check, then Issue. A limiter backend error is logged and the
// attempt proceeds.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if len(e.secret()) == 0 {
		e.loginMisconfigured(ctx, "secret_missing")
		return nil, ErrConfiguration
	}
	if e.matcher == nil {
		e.loginMisconfigured(ctx, "credentials_missing")
		return nil, ErrConfiguration
	}

	ip := ClientIPFromContext(ctx)
	if e.limiter != nil {
		if err := e.limiter.Check(ctx, req.Username, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, func() map[string]string {
					return map[string]string{
						"identifier": req.Username,
					}
				})
				return nil, ErrLoginRateLimited
			}
			e.limiterFailed(ctx, "check", err)
		}
	}

	if err := e.Authenticate(ctx, req.Username, req.Password); err != nil {
		if e.limiter != nil && errors.Is(err, ErrInvalidCredentials) {
			e.limiterFailed(ctx, "fail", e.limiter.Fail(ctx, req.Username, ip))
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"identifier": req.Username,
			}
		})
		return nil, err
	}

	if e.limiter != nil {
		e.limiterFailed(ctx, "reset", e.limiter.Reset(ctx, req.Username, ip))
	}

	issued, err := e.Issue(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, req.Username, nil, nil)

	return &LoginResult{
		Token:      issued.Token,
		MaxAge:     issued.MaxAge,
		ExpiresAt:  issued.ExpiresAt,
		RedirectTo: SafeRedirectPath(req.Next, DefaultRedirectPath),
		TTLSeconds: int64(issued.MaxAge),
	}, nil
}

// Logout records the logout. Sessions are stateless, so the caller clears the
// cookie; token is only inspected to name the user in the audit trail.
func (e *Engine) Logout(ctx context.Context, token string) {
	if e == nil {
		return
	}
	var username string
	if token != "" && len(e.secret()) > 0 {
		if p, err := e.verify(token); err == nil {
			username = p.Username
		}
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, username, nil, nil)
}

func (e *Engine) loginMisconfigured(ctx context.Context, reason string) {
	e.metricInc(MetricLoginMisconfigured)
	e.emitAudit(ctx, auditEventLoginFailure, false, "", ErrConfiguration, func() map[string]string {
		return map[string]string{
			"reason": reason,
		}
	})
}
