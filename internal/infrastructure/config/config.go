package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API       APIConfig
	Session   SessionConfig
	Audit     AuditConfig
	Shipments ShipmentsConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// APIConfig points at the MoveSwift backend.
type APIConfig struct {
	URL     string        `env:"API_URL,     default=http://localhost:3000"`
	Timeout time.Duration `env:"API_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	Store     string `env:"SESSION_STORE,      default=redis"`
	KeyPrefix string `env:"SESSION_KEY_PREFIX, default=console"`
}

type AuditConfig struct {
	Enabled bool `env:"AUDIT_ENABLED, default=true"`
	Workers int  `env:"AUDIT_WORKERS, default=4"`
}

type ShipmentsConfig struct {
	EnforceTransitions bool `env:"ENFORCE_STATUS_TRANSITIONS, default=false"`
}

// MongoConfig is only read when the audit trail is enabled.
type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=logistics_console"`
	AppName        string        `env:"MONGO_APP_NAME,        default=logistics-console"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
}

// RedisConfig is only read when sessions are persisted in Redis.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,         default=localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
}

// IsDevelopment reports whether the process runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreRedis, SessionStoreMemory, c.Session.Store)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	if c.API.URL == "" {
		return fmt.Errorf("API_URL must not be empty")
	}
	return nil
}
