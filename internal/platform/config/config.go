package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	BrokerAddrs []string

	ScoringTextURL     string
	ScoringImageURL    string
	ScoringVideoURL    string
	ScoringAPIKey      string
	ScoringProvider    string
	ScoringConcurrency int64
	ScoringMaxAttempts int
	ScoringBaseBackoff time.Duration

	NotificationRetention time.Duration

	EnableScoringWorker        bool
	EnableOutboxRelay          bool
	EnableNotificationConsumer bool
	EnableNotificationCleanup  bool
}

func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "sentinel"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("BROKER_ADDRS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		BrokerAddrs: brokers,

		ScoringTextURL:     envString("SCORING_TEXT_URL", "http://localhost:9090/v1/score/text"),
		ScoringImageURL:    envString("SCORING_IMAGE_URL", "http://localhost:9090/v1/score/image"),
		ScoringVideoURL:    envString("SCORING_VIDEO_URL", "http://localhost:9090/v1/score/video"),
		ScoringAPIKey:      os.Getenv("SCORING_API_KEY"),
		ScoringProvider:    envString("SCORING_PROVIDER", "sentinel-ai"),
		ScoringConcurrency: int64(envInt("SCORING_CONCURRENCY", 4)),
		ScoringMaxAttempts: envInt("SCORING_MAX_ATTEMPTS", 3),
		ScoringBaseBackoff: envDuration("SCORING_BASE_BACKOFF", 2*time.Second),

		NotificationRetention: envDuration("NOTIFICATION_RETENTION", 7*24*time.Hour),

		EnableScoringWorker:        envBool("ENABLE_SCORING_WORKER", true),
		EnableOutboxRelay:          envBool("ENABLE_OUTBOX_RELAY", true),
		EnableNotificationConsumer: envBool("ENABLE_NOTIFICATION_CONSUMER", true),
		EnableNotificationCleanup:  envBool("ENABLE_NOTIFICATION_CLEANUP", true),
	}, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
