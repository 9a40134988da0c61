package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=4000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AuthSecret signs session tokens. FieldEncryptionKey encrypts PII
	// fields at rest. Deployments may set only one of the two; see
	// ResolveSecret for the sharing rules.
	AuthSecret         string `env:"AUTH_SECRET"`
	FieldEncryptionKey string `env:"FIELD_ENCRYPTION_KEY"`

	AdminEmail string `env:"ADMIN_EMAIL, default=admin@abelov.ng"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=technical_records"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	WindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS, default=60"`
	Max           int `env:"RATE_LIMIT_MAX,            default=100"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction reports whether the process runs with the production flag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
