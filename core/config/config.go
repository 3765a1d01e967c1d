package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"teamhub.app/server/core/db"
)

type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"8080"`
	Metrics bool   `env:"METRICS_ENABLED" envDefault:"true"`

	// SnowflakeNode must be unique per running replica.
	SnowflakeNode int64 `env:"SNOWFLAKE_NODE" envDefault:"1"`

	DB     db.Config
	Cache  CacheConfig
	Auth   AuthConfig
	Invite InviteConfig
	OTel   OTelConfig
}

type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
	CacheBackendNone   CacheBackend = "none"
)

type CacheConfig struct {
	Backend  CacheBackend  `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type AuthConfig struct {
	TokenSecret string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	TokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"168h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
}

type InviteConfig struct {
	// AtomicAccept runs the status change and the member push of an accepted
	// invite in one transaction. Off by default.
	AtomicAccept bool `env:"INVITE_ATOMIC_ACCEPT" envDefault:"false"`
}

type OTelConfig struct {
	Endpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers        string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"teamhub"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION" envDefault:"dev"`
}

// Load loads configuration from environment variables.
// In development, it loads .env first; variables already set in the
// environment win over the file.
func Load() (Config, error) {
	if appEnv(os.LookupEnv) == "development" {
		_ = godotenv.Load(".env")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDB loads only the database settings, for tools that never serve requests.
func LoadDB() (db.Config, error) {
	if appEnv(os.LookupEnv) == "development" {
		_ = godotenv.Load(".env")
	}

	var cfg db.Config
	if err := env.Parse(&cfg); err != nil {
		return db.Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE must be between 0 and 1023")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func appEnv(lookup func(string) (string, bool)) string {
	if v, ok := lookup("APP_ENV"); ok {
		return v
	}
	return "development"
}
