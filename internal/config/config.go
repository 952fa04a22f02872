package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `envconfig:"DB_HOST"`
	Port               string `envconfig:"DB_PORT" default:"5432"`
	User               string `envconfig:"DB_USER"`
	Password           string `envconfig:"DB_PASSWORD"`
	Name               string `envconfig:"DB_NAME"`
	SSLMode            string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns       int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"DB_CONN_MAX_LIFETIME_SEC" default:"300"`
}

// RedisConfig holds the review listing cache settings.
// An empty Addr disables caching.
type RedisConfig struct {
	Addr        string `envconfig:"REDIS_ADDR"`
	Password    string `envconfig:"REDIS_PASSWORD"`
	DB          int    `envconfig:"REDIS_DB" default:"0"`
	CacheTTLSec int    `envconfig:"CACHE_TTL_SEC" default:"300"`
}

// TTL returns the cache entry lifetime.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// MinIOConfig holds object storage settings for the review archive.
// An empty Endpoint disables archiving.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// RateLimitConfig holds per-client request limits. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"0"`
	Burst int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env             string        `envconfig:"APP_ENV" default:"prod"`
	Port            string        `envconfig:"PORT" default:"8080"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Log       LogConfig       `ignored:"true"`
	Database  DatabaseConfig  `ignored:"true"`
	Redis     RedisConfig     `ignored:"true"`
	MinIO     MinIOConfig     `ignored:"true"`
	RateLimit RateLimitConfig `ignored:"true"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Each section is processed on its own so variable names stay flat (DB_HOST, not DATABASE_DB_HOST).
func Load() (*AppConfig, error) {
	var cfg AppConfig

	sections := []struct {
		name string
		dst  any
	}{
		{"app", &cfg},
		{"log", &cfg.Log},
		{"database", &cfg.Database},
		{"redis", &cfg.Redis},
		{"minio", &cfg.MinIO},
		{"rate limit", &cfg.RateLimit},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.dst); err != nil {
			return nil, fmt.Errorf("load %s config: %w", s.name, err)
		}
	}

	return &cfg, nil
}
