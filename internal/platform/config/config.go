package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects everything main needs to wire the service. Values come from
// the environment with development defaults so a bare `go run` works against
// the in-memory store and a local scorer script.
type Config struct {
	Addr string

	// DatabaseURL selects the Postgres record store when non-empty; otherwise
	// the in-memory store is used.
	DatabaseURL string

	// RedisURL selects the Redis rate-limit store when non-empty.
	RedisURL string

	// KafkaSeeds selects the Kafka audit sink when non-empty.
	KafkaSeeds []string
	KafkaTopic string

	Scorer    ScorerConfig
	RateLimit RateLimitConfig

	// AdminJWTKey protects the /admin endpoints. Empty disables auth, which
	// is only acceptable for local development.
	AdminJWTKey string
}

// ScorerConfig describes the external scoring process.
type ScorerConfig struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// RateLimitConfig bounds registration throughput per client IP.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("FRAUD_API_ADDR", ":3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		KafkaTopic:  envOr("KAFKA_AUDIT_TOPIC", "fraud.audit.events"),
		AdminJWTKey: os.Getenv("ADMIN_JWT_KEY"),
		Scorer: ScorerConfig{
			Command: envOr("SCORER_COMMAND", "python3"),
			Args:    splitArgs(envOr("SCORER_ARGS", "src/data_handler.py")),
			Timeout: envDuration("SCORER_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled: os.Getenv("RATE_LIMIT_DISABLED") != "true",
			Limit:   envInt("RATE_LIMIT_REGISTER", 30),
			Window:  envDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if seeds := os.Getenv("KAFKA_SEEDS"); seeds != "" {
		cfg.KafkaSeeds = strings.Split(seeds, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
