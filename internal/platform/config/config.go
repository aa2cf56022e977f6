// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "houscan/pkg/platform/strings"
)

// Server captures everything the process needs to wire itself.
type Server struct {
	Addr string

	// PostgresDSN empty means in-memory stores; useful for local development.
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
	Judge JudgeConfig

	// LockTTL caps how long a crashed run can block its subject.
	LockTTL time.Duration

	// RunBudget caps one analysis run's wall clock.
	RunBudget time.Duration

	// Workers is the number of parallel queue consumers.
	Workers int
}

// RedisConfig carries go-redis wiring. An empty URL disables Redis and the
// process falls back to in-memory locking.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig carries the analysis job topic wiring. Empty brokers disable
// Kafka and the process falls back to the in-process queue.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// JudgeConfig carries the judgment service wiring.
type JudgeConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:        envOr("HOUSCAN_ADDR", ":8080"),
		PostgresDSN: os.Getenv("HOUSCAN_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("HOUSCAN_REDIS_URL"),
			PoolSize:     envInt("HOUSCAN_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("HOUSCAN_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("HOUSCAN_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("HOUSCAN_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("HOUSCAN_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("HOUSCAN_KAFKA_BROKERS")),
			Topic:   envOr("HOUSCAN_KAFKA_TOPIC", "houscan.analysis.jobs"),
			Group:   envOr("HOUSCAN_KAFKA_GROUP", "houscan-analysis"),
		},
		Judge: JudgeConfig{
			BaseURL: envOr("HOUSCAN_JUDGE_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  os.Getenv("HOUSCAN_JUDGE_API_KEY"),
			Model:   envOr("HOUSCAN_JUDGE_MODEL", "llama-3.3-70b-versatile"),
			Timeout: envDuration("HOUSCAN_JUDGE_TIMEOUT", 60*time.Second),
		},
		LockTTL:   envDuration("HOUSCAN_LOCK_TTL", 2*time.Minute),
		RunBudget: envDuration("HOUSCAN_RUN_BUDGET", 10*time.Minute),
		Workers:   envInt("HOUSCAN_WORKERS", 2),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	out := platformstrings.DedupeAndTrim(strings.Split(raw, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
