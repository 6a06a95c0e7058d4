package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV, default=development"`

	// HTTP server
	HTTPHost        string        `env:"HTTP_HOST, default=0.0.0.0"`
	HTTPPort        int           `env:"HTTP_PORT, default=8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	// Database
	DatabaseURL string `env:"DATABASE_URL, required"`
	DB          DBPoolConfig

	// Authentication
	JWTSecret      string        `env:"JWT_SECRET, required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=30m"`
	BcryptCost     int           `env:"BCRYPT_COST, default=12"`

	// Optional admin account created on startup
	Admin AdminConfig

	// Logging
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=text"`
}

type DBPoolConfig struct {
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Enabled reports whether an admin account should be bootstrapped.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" || a.Email != "" || a.Password != ""
}

// LoadConfig loads configuration from a .env file (if any) and the process environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	// a missing .env is fine, system env vars still apply
	_ = godotenv.Load(".env")
	return load(ctx, envconfig.OsLookuper())
}

// LoadFrom loads configuration from the given lookuper. Used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	return load(ctx, l)
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errs []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// HS256 keys shorter than the hash output are easy to brute force
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET should be at least 32 characters long")
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, "ACCESS_TOKEN_TTL must be positive")
	}

	// bcrypt.MinCost .. bcrypt.MaxCost
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, "BCRYPT_COST must be between 4 and 31")
	}

	if c.Admin.Enabled() && (c.Admin.Username == "" || c.Admin.Email == "" || c.Admin.Password == "") {
		errs = append(errs, "ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
