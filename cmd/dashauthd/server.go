package main

import (
	"html/template"
	"log"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/handler"
	"github.com/MrEthical07/goSession/middleware"
)

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Dashboard</title></head>
<body>
<p>Signed in as {{.User}}.</p>
<p>Path: {{.Path}}</p>
<form method="post" action="{{.Logout}}" onsubmit="event.preventDefault();fetch(this.action,{method:'POST'}).then(function(){location.href='/login'})">
<button type="submit">Log out</button>
</form>
</body>
</html>
`))

// newHandler builds the public surface: login endpoints, the gate, and a
// placeholder for the dashboard pages the gate protects.
func newHandler(engine *goSession.Engine) http.Handler {
	mux := http.NewServeMux()
	handler.Register(mux, engine)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /{$}", dashboard)
	mux.HandleFunc("GET /dashboard", dashboard)
	mux.HandleFunc("GET /dashboard/", dashboard)

	return middleware.Chain(mux,
		middleware.RecoverPanic(),
		middleware.RequestID(),
		middleware.ClientIP(engine),
		middleware.Guard(engine, middleware.DefaultGateConfig()),
	)
}

func dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		// The gate only lets verified requests through to these routes.
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := dashboardPage.Execute(w, map[string]string{
		"User":   p.Username,
		"Path":   r.URL.Path,
		"Logout": handler.LogoutRoute,
	}); err != nil {
		log.Printf("dashauthd: render dashboard: %v", err)
	}
}
