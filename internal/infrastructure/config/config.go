package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full runtime configuration, read from the environment once
// at process start.
type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	JWTSecret   string `env:"JWT_SECRET"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL"`

	Auth      AuthConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// AuthConfig holds the identity workflow constants.
type AuthConfig struct {
	TokenTTL          time.Duration `env:"TOKEN_TTL,             default=24h"`
	CodeTTL           time.Duration `env:"VERIFICATION_CODE_TTL, default=24h"`
	RandomPasswordTTL time.Duration `env:"RANDOM_PASSWORD_TTL,   default=30m"`
	MaxLoginAttempts  int           `env:"MAX_LOGIN_ATTEMPTS,    default=5"`
	LockoutWindow     time.Duration `env:"LOCKOUT_WINDOW,        default=15m"`
}

// RateLimitConfig governs the request-rate guard on the verification routes.
type RateLimitConfig struct {
	Max    int           `env:"VERIFY_RATE_MAX,    default=5"`
	Window time.Duration `env:"VERIFY_RATE_WINDOW, default=10m"`
}

// NotifyConfig sizes the notification worker pool.
type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// A missing token signing secret is a fatal configuration error, not
// something to discover per-request.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
