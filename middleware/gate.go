package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strings"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/session"
)

// Verifier is the subset of goSession.Engine the gate needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (*session.Payload, error)
}

// Class is the gate's verdict on a path.
type Class int

const (
	ClassPublic Class = iota
	ClassProtected
)

func (c Class) String() string {
	if c == ClassProtected {
		return "protected"
	}
	return "public"
}

// GateConfig lists the path rules. Prefixes ending in "/" match anything below
// them; other prefixes match whole path segments, so "/dashboard" covers
// "/dashboard/x" but not "/dashboards".
type GateConfig struct {
	LoginPath         string
	PublicPaths       []string
	PublicPrefixes    []string
	ProtectedPaths    []string
	ProtectedPrefixes []string
	APIPrefixes       []string
	CookieName        string
	NextParam         string
}

// DefaultGateConfig protects the dashboard and its root and leaves login,
// auth endpoints and static assets public.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		LoginPath:         "/login",
		PublicPaths:       []string{"/favicon.ico", "/robots.txt"},
		PublicPrefixes:    []string{"/api/auth/", "/_next/", "/static/", "/assets/"},
		ProtectedPaths:    []string{"/"},
		ProtectedPrefixes: []string{"/dashboard"},
		APIPrefixes:       []string{"/api/"},
		CookieName:        goSession.DefaultCookieName,
		NextParam:         "next",
	}
}

type payloadContextKey struct{}

// PayloadFromContext returns the verified session stored by [Gate.Handler].
func PayloadFromContext(ctx context.Context) (*session.Payload, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(payloadContextKey{}).(*session.Payload)
	return p, ok && p != nil
}

// Gate enforces GateConfig against a Verifier.
type Gate struct {
	cfg      GateConfig
	verifier Verifier
}

// NewGate returns a gate. Empty LoginPath, CookieName and NextParam fall back
// to the defaults.
func NewGate(verifier Verifier, cfg GateConfig) *Gate {
	def := DefaultGateConfig()
	if cfg.LoginPath == "" {
		cfg.LoginPath = def.LoginPath
	}
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.NextParam == "" {
		cfg.NextParam = def.NextParam
	}
	return &Gate{cfg: cfg, verifier: verifier}
}

// Guard is NewGate(engine, cfg).Handler with the cookie name taken from the
// engine.
func Guard(engine *goSession.Engine, cfg GateConfig) func(http.Handler) http.Handler {
	cfg.CookieName = engine.CookieName()
	return NewGate(engine, cfg).Handler
}

// Classify reports whether p requires a session. p is cleaned first; public
// rules win over protected ones and unmatched paths are public.
func (g *Gate) Classify(p string) Class {
	p = cleanPath(p)

	if p == cleanPath(g.cfg.LoginPath) || matchExact(p, g.cfg.PublicPaths) || matchPrefix(p, g.cfg.PublicPrefixes) {
		return ClassPublic
	}
	if matchExact(p, g.cfg.ProtectedPaths) || matchPrefix(p, g.cfg.ProtectedPrefixes) {
		return ClassProtected
	}
	return ClassPublic
}

// Handler wraps next with the gate.
func (g *Gate) Handler(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Classify(r.URL.Path) == ClassPublic {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(g.cfg.CookieName)
		if err != nil || cookie.Value == "" || g.verifier == nil {
			g.deny(w, r)
			return
		}

		payload, err := g.verifier.Verify(r.Context(), cookie.Value)
		if err != nil {
			g.deny(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), payloadContextKey{}, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if g.wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	http.Redirect(w, r, g.LoginURL(r.URL.RequestURI()), http.StatusFound)
}

// LoginURL returns the login page URL carrying next as the post-login target.
func (g *Gate) LoginURL(next string) string {
	if next == "" {
		return g.cfg.LoginPath
	}
	return g.cfg.LoginPath + "?" + url.Values{g.cfg.NextParam: []string{next}}.Encode()
}

func (g *Gate) wantsJSON(r *http.Request) bool {
	if matchPrefix(cleanPath(r.URL.Path), g.cfg.APIPrefixes) {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func cleanPath(p string) string {
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}

func matchExact(p string, list []string) bool {
	for _, candidate := range list {
		if p == candidate {
			return true
		}
	}
	return false
}

func matchPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(p, prefix) || p == strings.TrimSuffix(prefix, "/") {
				return true
			}
			continue
		}
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
