package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"production"`

	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"supabase"`
	SupabaseURL     string        `env:"SUPABASE_URL"`
	SupabaseAnonKey string        `env:"SUPABASE_ANON_KEY"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RemoteTimeout   time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`

	RedisURL    string        `env:"REDIS_URL"`
	JoinLockTTL time.Duration `env:"JOIN_LOCK_TTL" envDefault:"10s"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	DiscoveryConcurrency int `env:"DISCOVERY_CONCURRENCY" envDefault:"8"`
}

// Load reads .env if present, then parses the process environment
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return Parse(env.Options{})
}

// Parse builds a Config from opts and validates it
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.AllowedOrigins = cleanOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has its credentials
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.IsProduction() && c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.DiscoveryConcurrency < 1 {
		errs = append(errs, errors.New("DISCOVERY_CONCURRENCY must be at least 1"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SessionsEnabled reports whether participant session tokens are issued
func (c *Config) SessionsEnabled() bool {
	return c.SessionSecret != ""
}

// cleanOrigins trims entries and drops empty ones
func cleanOrigins(origins []string) []string {
	result := make([]string, 0, len(origins))
	for _, o := range origins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
