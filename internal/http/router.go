// Package httpapi assembles the public router: applicant endpoints, admin
// review endpoints, health, and Prometheus metrics. Handlers stay thin and
// delegate to the domain services.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tramcandoit/mlsecops-application/internal/platform/config"
	"github.com/tramcandoit/mlsecops-application/internal/platform/middleware"
	"github.com/tramcandoit/mlsecops-application/internal/platform/ratelimit"
	registrationhandler "github.com/tramcandoit/mlsecops-application/internal/registration/handler"
	reviewhandler "github.com/tramcandoit/mlsecops-application/internal/review/handler"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/httputil"
)

// HealthCheck probes one dependency. A nil map means liveness only.
type HealthCheck func(ctx context.Context) error

// Deps carries everything the router needs from main.
type Deps struct {
	Registration *registrationhandler.Handler
	Review       *reviewhandler.Handler

	RateLimitStore ratelimit.Store
	RateLimit      config.RateLimitConfig
	AdminJWTKey    string

	Checks map[string]HealthCheck
	Logger *slog.Logger
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.RateLimitStore, deps.RateLimit, deps.Logger))
		deps.Registration.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(deps.AdminJWTKey, deps.Logger))
		deps.Review.Register(r)
	})

	r.Get("/healthz", handleHealth(deps))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range deps.Checks {
			if err := check(ctx); err != nil {
				deps.Logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
