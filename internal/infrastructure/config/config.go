package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	DatabaseURL string `env:"DATABASE_URL, default=postgres://localhost:5432/identity?sslmode=disable"`

	OAuth2 OAuth2Config
	Auth   AuthConfig
}

// OAuth2Config carries the client credentials used both in the Basic header
// and in the token-request parameters.
type OAuth2Config struct {
	ClientID     string `env:"OAUTH2_CLIENT_ID,     default=clientId"`
	ClientSecret string `env:"OAUTH2_CLIENT_SECRET, default=clientSecret"`
}

type AuthConfig struct {
	// DefaultAuthority is attached to every newly created user.
	DefaultAuthority string `env:"AUTH_DEFAULT_AUTHORITY, default=ROLE_USER"`
	// TestURLSentinel marks request URLs coming from an integration harness;
	// the token broker then targets localhost on the configured port.
	TestURLSentinel string        `env:"AUTH_TEST_URL_SENTINEL, default=http://localhost/"`
	TokenTimeout    time.Duration `env:"TOKEN_TIMEOUT, default=10s"`
	TokenTTL        time.Duration `env:"TOKEN_TTL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
