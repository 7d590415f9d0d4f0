package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	QueueMemory = "memory"
	QueueAMQP   = "amqp"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string

	CORSOrigin        string
	RateLimit         int
	RateInterval      time.Duration
	AuthRatePerMinute int

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPTimeout      time.Duration
	DefaultFromEmail string

	NotifyQueue        string
	AMQPURL            string
	AMQPQueue          string
	NotifyWorkers      int
	NotifyBuffer       int
	NotifyMaxRetries   int
	NotifyRetryBackoff time.Duration

	PageSize    int
	MaxPageSize int

	AdminUsername string
	AdminPassword string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBDSN:    getEnv("DB_DSN", "restaurant.db"),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
		JWTIssuer: getEnv("JWT_ISSUER", "restaurant-chain"),

		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		DefaultFromEmail: getEnv("DEFAULT_FROM_EMAIL", "noreply@restaurant.local"),

		NotifyQueue: strings.ToLower(getEnv("NOTIFY_QUEUE", QueueMemory)),
		AMQPURL:     getEnv("AMQP_URL", ""),
		AMQPQueue:   getEnv("AMQP_QUEUE", "reservation_notifications"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateInterval, err = getDuration("RATE_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.NotifyRetryBackoff, err = getDuration("NOTIFY_RETRY_BACKOFF", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.SMTPTimeout, err = getDuration("SMTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"RATE_LIMIT", 50, &cfg.RateLimit},
		{"AUTH_RATE_PER_MINUTE", 5, &cfg.AuthRatePerMinute},
		{"SMTP_PORT", 587, &cfg.SMTPPort},
		{"NOTIFY_WORKERS", 2, &cfg.NotifyWorkers},
		{"NOTIFY_BUFFER", 100, &cfg.NotifyBuffer},
		{"NOTIFY_MAX_RETRIES", 3, &cfg.NotifyMaxRetries},
		{"PAGE_SIZE", 20, &cfg.PageSize},
		{"MAX_PAGE_SIZE", 100, &cfg.MaxPageSize},
	}
	for _, item := range ints {
		if *item.dst, err = getInt(item.key, item.def); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.NotifyQueue {
	case QueueMemory:
	case QueueAMQP:
		if c.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL is required when NOTIFY_QUEUE=amqp")
		}
	default:
		return fmt.Errorf("unsupported NOTIFY_QUEUE %q", c.NotifyQueue)
	}
	if c.RateLimit <= 0 || c.RateInterval <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_INTERVAL must be positive, got %d per %v", c.RateLimit, c.RateInterval)
	}
	if c.AuthRatePerMinute <= 0 {
		return fmt.Errorf("AUTH_RATE_PER_MINUTE must be positive, got %d", c.AuthRatePerMinute)
	}
	if c.NotifyWorkers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive, got %d", c.NotifyWorkers)
	}
	if c.NotifyMaxRetries < 0 {
		return fmt.Errorf("NOTIFY_MAX_RETRIES must not be negative, got %d", c.NotifyMaxRetries)
	}
	if c.NotifyRetryBackoff <= 0 {
		return fmt.Errorf("NOTIFY_RETRY_BACKOFF must be positive, got %v", c.NotifyRetryBackoff)
	}
	if c.SMTPTimeout <= 0 {
		return fmt.Errorf("SMTP_TIMEOUT must be positive, got %v", c.SMTPTimeout)
	}
	if c.PageSize <= 0 || c.MaxPageSize < c.PageSize {
		return fmt.Errorf("invalid page sizes: PAGE_SIZE=%d MAX_PAGE_SIZE=%d", c.PageSize, c.MaxPageSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
