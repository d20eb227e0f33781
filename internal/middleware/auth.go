// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/LuisFCaretta/site-receitas/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// Paths the auth guards redirect to.
const (
	LoginPath       = "/authors/login"
	TwoFAVerifyPath = "/authors/2fa/verify"
)

// SessionLoader is the part of the session store LoadSession needs.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers can access it via SessionFromCtx().
// This middleware does NOT enforce authentication. Anonymous sessions that
// only carry flash messages are loaded too.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects visitors without a signed-in author to the login
// page, remembering where they were going in the next parameter.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromCtx(r.Context()).IsAuthenticated() {
			target := LoginPath
			if r.Method == http.MethodGet {
				target += "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Require2FA redirects authors whose password login still awaits the TOTP
// step to the verification page. Must be applied after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess.IsAuthenticated() && !sess.TwoFADone {
			http.Redirect(w, r, TwoFAVerifyPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// WithSession returns a copy of ctx carrying data, as LoadSession would.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}
