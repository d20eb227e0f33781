// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// NewSecureHeaders adds security-related HTTP headers to every response.
// imgSources lists extra origins cover images may load from, such as the
// S3 public URL.
func NewSecureHeaders(imgSources ...string) func(http.Handler) http.Handler {
	img := strings.TrimSpace("'self' data: " + strings.Join(imgSources, " "))
	csp := "default-src 'self'; img-src " + img + "; style-src 'self'; script-src 'self'; frame-ancestors 'self'; form-action 'self'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "interest-cohort=()")
			h.Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize caps request bodies at n bytes. Reads past the cap fail with
// *http.MaxBytesError.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
