package middleware

import (
	"net/http"
)

// SecurityHeaders adds security-related HTTP headers to responses.
type SecurityHeaders struct {
	secure bool
}

// NewSecurityHeaders creates a new security headers middleware.
func NewSecurityHeaders(secure bool) *SecurityHeaders {
	return &SecurityHeaders{secure: secure}
}

// Apply adds security headers to all responses. This is a JSON API consumed
// by a mobile client, so the CSP can lock everything down.
func (s *SecurityHeaders) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// HSTS only in secure mode (production)
		if s.secure {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
