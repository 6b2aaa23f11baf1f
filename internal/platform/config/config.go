package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	PostgresDSN   string
	Redis         RedisConfig
	Kafka         KafkaConfig
	EmailBaseURL  string
}

// RedisConfig captures Redis connection configuration. An empty URL means
// Redis is not configured and callers fall back to uncached stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DirectoryTTL time.Duration
}

// KafkaConfig captures the event bus configuration. Empty Brokers means
// eventing is disabled and submissions are not broadcast.
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
}

// DirectoryCacheTTL enforces retention for cached directory listings.
var DirectoryCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("AUDITFLOW_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("JWT_ISSUER", "auditflow"),
		JWTAudience:   envOr("JWT_AUDIENCE", "auditflow-api"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			DirectoryTTL: DirectoryCacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers:       brokers,
			ConsumerGroup: envOr("KAFKA_CONSUMER_GROUP", "auditflow-notify"),
		},
		EmailBaseURL: os.Getenv("EMAIL_SERVICE_URL"),
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
	if err != nil {
		return fallback
	}
	return n
}
