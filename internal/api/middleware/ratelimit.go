package middleware

import (
	"net"
	"net/http"

	"github.com/shelfmark/shelfmark-api/internal/api/shared"
	"github.com/shelfmark/shelfmark-api/internal/config"
	"github.com/shelfmark/shelfmark-api/internal/ratelimit"
)

// RateLimitMiddleware applies per-operation request limits keyed by client
// address. Limits are advisory protection for unauthenticated endpoints like
// registration and login, not billing-grade accounting.
type RateLimitMiddleware struct {
	limiter *ratelimit.Limiter
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware around a limiter.
func NewRateLimitMiddleware(limiter *ratelimit.Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit returns a middleware enforcing the given rule for one named
// operation. Different operations never share a window even for the same
// client.
func (m *RateLimitMiddleware) Limit(operation string, rule config.RateLimitRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := clientAddr(r)

			if !m.limiter.Allow(operation, caller, rule.MaxRequests, rule.Window) {
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Rate limit exceeded. Please try again later.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr identifies the caller by remote IP, dropping the ephemeral port
// so one client's requests share a window.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
