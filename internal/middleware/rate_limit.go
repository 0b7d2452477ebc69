package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"award-registration/internal/logger"
	"award-registration/internal/utils"

	"github.com/go-redis/redis/v8"
)

// RateLimit allows limit requests per client IP per fixed window, counted in
// Redis. Redis failures let the request through.
func RateLimit(rdb *redis.Client, prefix string, limit int, window time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := fmt.Sprintf("rate_limit:%s:%s", prefix, clientIP(r))

			current, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("RATELIMIT", fmt.Sprintf("Redis unavailable, allowing request: %v", err))
				next.ServeHTTP(w, r)
				return
			}

			if current == 1 {
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					log.Warn("RATELIMIT", fmt.Sprintf("Failed to set window on %s: %v", key, err))
				}
			}

			if current > int64(limit) {
				log.LogSecurity("RATE_LIMITED", fmt.Sprintf("%s %s from %s", r.Method, r.URL.Path, clientIP(r)))
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				utils.WriteError(w, http.StatusTooManyRequests, "Too many requests.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
