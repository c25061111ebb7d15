package goSession

import (
	"net/url"
	"strings"
)

// DefaultRedirectPath is where a successful login lands when no usable
// post-login target was supplied.
const DefaultRedirectPath = "/dashboard"

// SafeRedirectPath returns next when it is a same-origin absolute path, and
// fallback otherwise. Scheme-relative ("//host"), backslash and absolute URLs
// are rejected so the login form cannot be used as an open redirect.
func SafeRedirectPath(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return fallback
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	if strings.ContainsAny(next, "\\\r\n\t") {
		return fallback
	}
	for i := 0; i < len(next); i++ {
		if next[i] < 0x20 || next[i] == 0x7f {
			return fallback
		}
	}

	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil {
		return fallback
	}
	if parsed.Path == "" || !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(parsed.Path, "//") {
		return fallback
	}

	out := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		out += "?" + parsed.RawQuery
	}
	return out
}
