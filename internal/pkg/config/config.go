package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	JWTTTL      time.Duration `env:"JWT_TTL,      default=24h"`
	PublicPaths []string      `env:"PUBLIC_PATHS, default=/api/auth/,/swagger,/health,/metrics"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Wallet    WalletConfig
	Provision ProvisionConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type WalletConfig struct {
	AdminURL string        `env:"WALLET_ADMIN_URL, default=http://localhost:8081/api/admin"`
	URL      string        `env:"WALLET_URL,       default=http://localhost:8081/api/wallets"`
	Timeout  time.Duration `env:"WALLET_TIMEOUT,   default=5s"`
}

type ProvisionConfig struct {
	Workers int `env:"PROVISION_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	return &cfg, nil
}
