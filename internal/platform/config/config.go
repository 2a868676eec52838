package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	FieldRegistryPath string
	Log               LogConfig
	Database          DatabaseConfig
	Redis             RedisConfig
	Kafka             KafkaConfig
	Matching          MatchingConfig
	RateLimit         RateLimitConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// DatabaseConfig configures PostgreSQL. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the current-policy cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig configures the audit outbox relay. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	AuditTopic    string
	RelayInterval time.Duration
	RelayBatch    int
}

// MatchingConfig tunes evaluation runs.
type MatchingConfig struct {
	Workers             int
	HighMaxSoftFailures int
}

// RateLimitConfig bounds write traffic per client IP. Buckets live in Redis
// when REDIS_URL is set and in process memory otherwise.
type RateLimitConfig struct {
	Disabled              bool
	IntakePerWindow       int
	PolicyWritesPerWindow int
	Window                time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:              getEnv("ADDR", ":8080"),
		ReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", 35*time.Second),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		FieldRegistryPath: os.Getenv("FIELD_REGISTRY_PATH"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     getEnvDuration("POLICY_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic:    getEnv("AUDIT_TOPIC", "lendmatch.audit"),
			RelayInterval: getEnvDuration("AUDIT_RELAY_INTERVAL", time.Second),
			RelayBatch:    getEnvInt("AUDIT_RELAY_BATCH", 100),
		},
		Matching: MatchingConfig{
			Workers:             getEnvInt("MATCH_WORKERS", 8),
			HighMaxSoftFailures: getEnvInt("MATCH_HIGH_MAX_SOFT", 1),
		},
		RateLimit: RateLimitConfig{
			Disabled:              getEnvBool("RATELIMIT_DISABLED", false),
			IntakePerWindow:       getEnvInt("RATELIMIT_INTAKE", 30),
			PolicyWritesPerWindow: getEnvInt("RATELIMIT_POLICY_WRITES", 60),
			Window:                getEnvDuration("RATELIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
