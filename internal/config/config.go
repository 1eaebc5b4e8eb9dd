// Package config loads server configuration from the environment.
//
// Configuration is read once at startup and passed explicitly into
// constructors — nothing reads environment variables after main() finishes
// wiring. A .env file in the working directory is loaded first (convenient
// for development); real environment variables always win over it.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file. ":memory:" gives an in-memory
	// database (used by tests).
	DBPath string `env:"DB_PATH" envDefault:"data/devconnector.db"`

	// JWTSecret signs identity tokens. Required; must be at least 16
	// characters. Generate with: openssl rand -hex 32
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is how long an issued identity token stays valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// CORSOrigins are the browser origins allowed to call the API with
	// credentials (the SPA's origin in deployment).
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// GitHub OAuth app credentials. Optional: when empty, the GitHub login
	// routes are not registered and email/password remains the only way in.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads the .env file (if present) and the environment into a Config.
func Load() (*Config, error) {
	// Missing .env is not an error — production supplies real env vars.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/api/users/github/callback", cfg.Port)
	}

	return cfg, nil
}

// GitHubEnabled reports whether the OAuth login routes should be registered.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}
