package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tramcandoit/mlsecops-application/internal/platform/config"
	"github.com/tramcandoit/mlsecops-application/internal/platform/ratelimit"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/httputil"
	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

// RateLimit bounds request throughput per client IP. Requires ClientMetadata
// earlier in the chain. Limiter failures fail open so a degraded Redis never
// takes registration down with it.
func RateLimit(store ratelimit.Store, cfg config.RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := store.Allow(ctx, "ip:"+ip, cfg.Limit, cfg.Window)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
					Msg: "Too many requests from this IP address. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
