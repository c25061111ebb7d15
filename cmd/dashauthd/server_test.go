package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goSession "github.com/MrEthical07/goSession"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := goSession.ConfigFromMap(map[string]string{
		"SESSION_SECRET": "dashauthd-secret-dashauthd-secret",
		"DASH_USER":      "alice",
		"DASH_PASS":      "correct-horse",
	})
	if err != nil {
		t.Fatalf("ConfigFromMap: %v", err)
	}
	engine, err := goSession.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return newHandler(engine)
}

func TestDashboardRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/latency", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fdashboard%2Flatency" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id on gated response")
	}
}

func TestLoginThenDashboard(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"user":"alice","pass":"correct-horse","next":"/dashboard"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Signed in as alice") {
		t.Fatalf("unexpected dashboard body %q", rec.Body.String())
	}
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	for path, want := range map[string]int{
		"/healthz": http.StatusNoContent,
		"/login":   http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rec.Code)
		}
	}
}
