// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A dotenv file is
loaded first (via 'joho/godotenv') so local development does not need exported
variables; real environment variables always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (codec, gate, stores) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned by [Config.Validate] for inconsistent settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Credential backends.
const (
	BackendStatic   = "static"
	BackendPostgres = "postgres"
)

// defaultEnvFile is read when ENV_FILE is not set and the file exists.
const defaultEnvFile = ".env"

// minTokenMaxLength keeps the DoS guard from rejecting every legitimate token.
const minTokenMaxLength = 256

// # Configuration Schema

// Config holds all runtime configuration for the sessiongate server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Reverse proxies (IPs or CIDRs) whose forwarding headers name the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Signing secret. Removed from the process environment once parsed.
	SessionSecret string `env:"SESSION_SECRET,required,unset"`

	// Session cookie
	SessionCookieName     string        `env:"SESSION_COOKIE_NAME"      envDefault:"session"`
	SessionMaxAge         time.Duration `env:"SESSION_MAX_AGE"          envDefault:"1h"`
	SessionCookieSecure   bool          `env:"SESSION_COOKIE_SECURE"    envDefault:"false"`
	SessionTokenMaxLength int           `env:"SESSION_TOKEN_MAX_LENGTH" envDefault:"4096"`

	// Credential verification
	CredentialBackend string `env:"CREDENTIAL_BACKEND" envDefault:"static"`
	DemoUser          string `env:"APP_DEMO_USER"      envDefault:"admin"`
	DemoPassword      string `env:"APP_DEMO_PASS"      envDefault:"admin"`

	// Relational Database (PostgreSQL), required by the postgres backend.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath overrides the embedded SQL migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis). Enables login attempt throttling when set.
	RedisURL string `env:"REDIS_URL"`

	// Login throttling window
	LoginAttemptLimit  int           `env:"LOGIN_ATTEMPT_LIMIT"  envDefault:"10"`
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"15m"`
}

// # Configuration Loading

// Load reads the optional dotenv file, then parses environment variables into
// a [Config] struct and validates it.
func Load() (*Config, error) {

	// Dotenv never overrides variables already present in the environment.
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseConfig is the subset of settings needed by offline tooling that
// only talks to the account database.
type DatabaseConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH"`
}

// LoadDatabase is [Load] for tools that never serve HTTP, so SESSION_SECRET
// is not required.
func LoadDatabase() (*DatabaseConfig, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads ENV_FILE when set, or ./.env when it exists.
func loadEnvFile() error {
	path, explicit := os.LookupEnv("ENV_FILE")
	if !explicit || path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load env file %s: %w", path, err)
	}
	return nil
}

// # Validation

// Validate checks cross-field constraints the struct tags cannot express.
func (c *Config) Validate() error {
	switch c.CredentialBackend {
	case BackendStatic:
		if c.DemoUser == "" || c.DemoPassword == "" {
			return fmt.Errorf("%w: static backend requires APP_DEMO_USER and APP_DEMO_PASS", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: postgres backend requires DATABASE_URL", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown CREDENTIAL_BACKEND %q", ErrInvalidConfig, c.CredentialBackend)
	}

	if c.SessionCookieName == "" {
		return fmt.Errorf("%w: SESSION_COOKIE_NAME must not be empty", ErrInvalidConfig)
	}
	if c.SessionMaxAge < time.Second {
		return fmt.Errorf("%w: SESSION_MAX_AGE must be at least 1s", ErrInvalidConfig)
	}
	if c.SessionTokenMaxLength < minTokenMaxLength {
		return fmt.Errorf("%w: SESSION_TOKEN_MAX_LENGTH must be at least %d", ErrInvalidConfig, minTokenMaxLength)
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	if c.RedisURL != "" && (c.LoginAttemptLimit <= 0 || c.LoginAttemptWindow <= 0) {
		return fmt.Errorf("%w: login throttling requires a positive limit and window", ErrInvalidConfig)
	}

	return nil
}

// TrustedProxyPrefixes parses TRUSTED_PROXIES. A bare address becomes a
// single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if prefix, err := netip.ParsePrefix(raw); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: TRUSTED_PROXIES entry %q is not an IP or CIDR", ErrInvalidConfig, raw)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CookieSecure reports whether the session cookie carries the Secure flag.
// Production always serves over TLS, so the flag cannot be switched off there.
func (c *Config) CookieSecure() bool {
	return c.SessionCookieSecure || c.IsProduction()
}

// UsesDemoCredentials reports whether the static backend still runs with the
// built-in admin/admin pair.
func (c *Config) UsesDemoCredentials() bool {
	return c.CredentialBackend == BackendStatic && c.DemoUser == "admin" && c.DemoPassword == "admin"
}

// UsesPostgres reports whether accounts live in PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.CredentialBackend == BackendPostgres
}
