// Package requestmeta resolves request scheme and client address behind
// optional reverse proxies.
package requestmeta

import (
	"net"
	"net/http"
	"strings"
)

// Policy controls which proxy headers are honoured.
//
// Both flags default to false; forwarded headers are client-controlled unless
// a trusted proxy overwrites them.
type Policy struct {
	TrustForwardedProto bool
	TrustForwardedFor   bool
}

// IsHTTPS reports whether the request should be treated as HTTPS.
func IsHTTPS(r *http.Request, policy Policy) bool {
	return scheme(r, policy) == "https"
}

func scheme(r *http.Request, policy Policy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")))
		// Proxies chaining the header may send "https, http".
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			forwarded = strings.TrimSpace(forwarded[:i])
		}
		if forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// ClientIP returns the caller address without port. X-Forwarded-For and
// X-Real-IP are consulted only when policy.TrustForwardedFor is set.
func ClientIP(r *http.Request, policy Policy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedFor {
		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
