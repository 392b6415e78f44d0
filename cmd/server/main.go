package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tramcandoit/mlsecops-application/internal/audit"
	httpapi "github.com/tramcandoit/mlsecops-application/internal/http"
	"github.com/tramcandoit/mlsecops-application/internal/platform/config"
	"github.com/tramcandoit/mlsecops-application/internal/platform/database"
	"github.com/tramcandoit/mlsecops-application/internal/platform/httpserver"
	"github.com/tramcandoit/mlsecops-application/internal/platform/logger"
	"github.com/tramcandoit/mlsecops-application/internal/platform/metrics"
	"github.com/tramcandoit/mlsecops-application/internal/platform/ratelimit"
	"github.com/tramcandoit/mlsecops-application/internal/platform/redis"
	"github.com/tramcandoit/mlsecops-application/internal/registration"
	registrationhandler "github.com/tramcandoit/mlsecops-application/internal/registration/handler"
	registrationservice "github.com/tramcandoit/mlsecops-application/internal/registration/service"
	"github.com/tramcandoit/mlsecops-application/internal/review"
	reviewhandler "github.com/tramcandoit/mlsecops-application/internal/review/handler"
	"github.com/tramcandoit/mlsecops-application/internal/scoring"
)

const auditBufferSize = 256

// main wires dependencies from the environment and keeps the server
// lifecycle small. Business logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httpapi.HealthCheck{}

	// Record store: Postgres when configured, in-memory otherwise.
	var store registration.Store
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := registration.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store = pg
		checks["database"] = db.PingContext
		log.Info("using postgres record store")
	} else {
		store = registration.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, records will not survive restarts")
	}

	// Rate-limit store: Redis when configured, process-local otherwise.
	var limitStore ratelimit.Store = ratelimit.NewInMemoryStore()
	if cfg.RedisURL != "" {
		redisClient, err := redis.New(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		limitStore = ratelimit.NewRedisStore(redisClient)
		checks["redis"] = redisClient.Health
		log.Info("using redis rate-limit store")
	}

	// Audit sink: Kafka when configured, in-memory otherwise.
	var sink audit.Sink = audit.NewInMemorySink()
	if len(cfg.KafkaSeeds) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaSeeds, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()

		sink = kafkaSink
		log.Info("publishing audit events to kafka", "topic", cfg.KafkaTopic)
	}
	auditor := audit.NewPublisher(sink, log, audit.WithAsyncBuffer(auditBufferSize))
	defer auditor.Close()

	scorer := scoring.NewProcessScorer(cfg.Scorer, log, m)

	registrationSvc := registrationservice.New(store, scorer, auditor, log, m)
	reviewSvc := review.New(store, auditor, log, m)

	router := httpapi.NewRouter(httpapi.Deps{
		Registration:   registrationhandler.New(registrationSvc, reviewSvc, log),
		Review:         reviewhandler.New(reviewSvc, log),
		RateLimitStore: limitStore,
		RateLimit:      cfg.RateLimit,
		AdminJWTKey:    cfg.AdminJWTKey,
		Checks:         checks,
		Logger:         log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting fraud risk service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
