package goSession

import (
	"net/http"

	"github.com/MrEthical07/goSession/internal/requestmeta"
)

// CookieName returns the configured session cookie name.
func (e *Engine) CookieName() string {
	if e == nil {
		return DefaultCookieName
	}
	return e.config.Session.CookieName
}

// SecureRequest reports whether a cookie set in response to r should carry
// the Secure flag under the configured [CookieSecureMode].
func (e *Engine) SecureRequest(r *http.Request) bool {
	if e == nil {
		return false
	}
	switch e.config.Cookie.SecureMode {
	case CookieSecureAlways:
		return true
	case CookieSecureNever:
		return false
	default:
		return requestmeta.IsHTTPS(r, e.requestPolicy())
	}
}

// ClientIP resolves the caller address honouring the configured proxy trust.
func (e *Engine) ClientIP(r *http.Request) string {
	if e == nil {
		return requestmeta.ClientIP(r, requestmeta.Policy{})
	}
	return requestmeta.ClientIP(r, e.requestPolicy())
}

// SessionCookie builds the Set-Cookie value for a freshly issued token.
func (e *Engine) SessionCookie(token string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     e.CookieName(),
		Value:    token,
		Path:     e.cookiePath(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedCookie builds a cookie that makes the browser drop the session.
// net/http renders MaxAge -1 as "Max-Age=0".
func (e *Engine) ClearedCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     e.CookieName(),
		Value:    "",
		Path:     e.cookiePath(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (e *Engine) cookiePath() string {
	if e == nil || e.config.Cookie.Path == "" {
		return DefaultCookiePath
	}
	return e.config.Cookie.Path
}

func (e *Engine) requestPolicy() requestmeta.Policy {
	return requestmeta.Policy{
		TrustForwardedProto: e.config.Cookie.TrustForwardedProto,
		TrustForwardedFor:   e.config.Cookie.TrustForwardedFor,
	}
}
