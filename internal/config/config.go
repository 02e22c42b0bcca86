// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"papertrade/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	DB         db.Config
	Redis      Redis
	Quote      Quote
	Session    Session
}

// Redis holds Redis connection configuration.
type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Quote holds market-data API client configuration.
type Quote struct {
	URL      string        `env:"QUOTE_API_URL" envDefault:"https://cloud.iexapis.com/stable"`
	Token    string        `env:"QUOTE_API_TOKEN" envDefault:""`
	Timeout  time.Duration `env:"QUOTE_API_TIMEOUT" envDefault:"10s"`
	CacheTTL time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"1m"`
}

// Session holds session store configuration.
type Session struct {
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// LoadConfig loads configuration from the environment, with a local .env file
// as an optional source for development.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load(".env")

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}
