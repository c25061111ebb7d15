package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

const (
	// LoginRoute and LogoutRoute are the JSON endpoints registered by Register.
	LoginRoute  = "/api/auth/login"
	LogoutRoute = "/api/auth/logout"
	// PageRoute serves the HTML login form.
	PageRoute = "/login"

	maxLoginBody = 4 << 10
)

// Client-facing messages. Verification detail never leaves the server.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgRateLimited        = "Too many login attempts, try again later"
	msgMisconfigured      = "Login is not configured"
	msgBadRequest         = "Malformed login request"
	msgInternal           = "internal error"
)

type loginBody struct {
	User string `json:"user"`
	Pass string `json:"pass"`
	Next string `json:"next"`
}

type loginResponse struct {
	RedirectTo string `json:"redirectTo"`
	TTLSeconds int64  `json:"ttlSeconds"`
}

// Register mounts the login page and both JSON endpoints on mux.
func Register(mux *http.ServeMux, engine *goSession.Engine) {
	mux.HandleFunc("POST "+LoginRoute, Login(engine))
	mux.HandleFunc("POST "+LogoutRoute, Logout(engine))
	mux.HandleFunc("GET "+PageRoute, LoginPage())
}

// Login accepts {"user","pass","next"} and answers {"redirectTo","ttlSeconds"}
// with the session cookie set.
func Login(engine *goSession.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginBody
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody))
		if err := dec.Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgBadRequest)
			return
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, msgBadRequest)
			return
		}

		ctx := r.Context()
		if goSession.ClientIPFromContext(ctx) == "" {
			ctx = goSession.WithClientIP(ctx, engine.ClientIP(r))
		}

		res, err := engine.Login(ctx, goSession.LoginRequest{
			Username: body.User,
			Password: body.Pass,
			Next:     body.Next,
		})
		if err != nil {
			writeLoginError(w, err)
			return
		}

		http.SetCookie(w, engine.SessionCookie(res.Token, res.MaxAge, engine.SecureRequest(r)))
		writeJSON(w, http.StatusOK, loginResponse{
			RedirectTo: res.RedirectTo,
			TTLSeconds: res.TTLSeconds,
		})
	}
}

// Logout clears the session cookie. It always succeeds.
func Logout(engine *goSession.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(engine.CookieName()); err == nil {
			token = c.Value
		}
		engine.Logout(r.Context(), token)

		http.SetCookie(w, engine.ClearedCookie(engine.SecureRequest(r)))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch goSession.KindOf(err) {
	case goSession.KindInvalidCredentials:
		writeJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case goSession.KindRateLimited:
		writeJSONError(w, http.StatusTooManyRequests, msgRateLimited)
	case goSession.KindConfiguration:
		writeJSONError(w, http.StatusInternalServerError, msgMisconfigured)
	default:
		log.Printf("goSession: login failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, msgInternal)
	}
}
