// Package config loads the coordinator's configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// GatewayBaseURL prefixes every redirect target sent to the browser.
	GatewayBaseURL string `env:"GATEWAY_BASE_URL" envDefault:"http://localhost:8080"`

	// AccountServiceURL is the base URL of the account management service.
	AccountServiceURL string `env:"ACCOUNT_SERVICE_URL,notEmpty"`

	// FamilyServiceURL is the base URL of the family management service.
	FamilyServiceURL string `env:"FAMILY_SERVICE_URL,notEmpty"`

	// MailServiceURL is the base URL of the mail service.
	MailServiceURL string `env:"MAIL_SERVICE_URL,notEmpty"`

	// ServiceUser and ServicePassword authenticate service-to-service
	// calls to all three collaborators.
	ServiceUser     string `env:"SERVICE_USER,notEmpty"`
	ServicePassword string `env:"SERVICE_PASSWORD,notEmpty"`

	// JWTSecret signs session tokens. Use a strong random string.
	JWTSecret string `env:"JWT_SECRET,notEmpty"`

	// SessionTTL is how long session tokens remain valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// HTTPTimeout bounds every remote call. A hung collaborator stalls
	// the whole request until this expires.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
