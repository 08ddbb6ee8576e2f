// Package config loads service settings from the environment.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,           default=8000"  validate:"required,numeric"`
	Env           string        `env:"ENV,            default=development" validate:"oneof=development production test"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"  validate:"oneof=trace debug info warn warning error"`
	HTTPSRedirect bool          `env:"HTTPS_REDIRECT, default=false"`
	AuditWorkers  int           `env:"AUDIT_WORKERS,  default=4"     validate:"gte=1,lte=64"`

	Database DatabaseConfig
	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	URI string `env:"DATABASE_URI, required" validate:"required"`
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET,           required" validate:"required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL,     default=30m" validate:"gte=1s"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"   validate:"gte=0"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m" validate:"gte=1s"`
}

// MongoConfig enables the MongoDB audit sink when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=project_registry"`
}

// RedisConfig enables the shared lockout store when Addr is set. Addr may
// be host:port or a redis:// URL.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0" validate:"gte=0"`
}

// IsProduction reports whether the service runs with production defaults
// (JSON logs, no debug output).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if !supportedScheme(cfg.Database.URI) {
		return nil, fmt.Errorf("invalid config: DATABASE_URI must start with postgres://, postgresql:// or sqlite://")
	}
	return &cfg, nil
}

func supportedScheme(uri string) bool {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return false
	}
	base, _, _ := strings.Cut(strings.ToLower(scheme), "+")
	switch base {
	case "postgres", "postgresql", "sqlite":
		return true
	}
	return false
}
