package middleware

import (
	"net/http"

	"github.com/careline/relay/internal/config"
	"github.com/careline/relay/pkg/httpext"
	"github.com/careline/relay/pkg/ratelimit"
	"github.com/rs/zerolog/log"
)

func RateLimit(limitKey string, store ratelimit.Store) func(http.Handler) http.Handler {
	cfg := config.GetRateLimitConfig(limitKey)
	limiter := ratelimit.NewLimiter(store, cfg.Window, cfg.MaxHits)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			// Use X-Forwarded-For if behind proxy, otherwise remote address
			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.RemoteAddr
			}

			if !limiter.Allow(r.Context(), ip) {
				log.Warn().Str("ip", ip).Str("limit_key", limitKey).Msg("Rate limit exceeded")
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
