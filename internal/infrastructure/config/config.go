package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET_KEY, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Shutdown time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

type AuthConfig struct {
	BcryptCost       int     `env:"BCRYPT_COST,        default=10"`
	SeedDefaultUsers bool    `env:"SEED_DEFAULT_USERS, default=true"`
	LoginRateLimit   float64 `env:"LOGIN_RATE_LIMIT,   default=5"`
	LoginRateBurst   int     `env:"LOGIN_RATE_BURST,   default=10"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=plants_db"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,   default=false"`
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB       int           `env:"REDIS_DB,        default=0"`
	CacheTTL time.Duration `env:"PLANT_CACHE_TTL, default=5m"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l. Tests pass an envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < 16 && c.IsProduction() {
		return errors.New("JWT_SECRET_KEY must be at least 16 characters in production")
	}
	if c.Auth.LoginRateLimit < 0 || c.Auth.LoginRateBurst < 0 {
		return errors.New("login rate limit must not be negative")
	}
	return nil
}
