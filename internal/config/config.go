package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const devJWTSecret = "dev-secret-change-in-production"

// Storage drivers.
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	Env               string        `env:"ENV" envDefault:"development"`
	StorageDriver     string        `env:"STORAGE_DRIVER" envDefault:"mysql"`
	DatabaseDSN       string        `env:"DATABASE_DSN" envDefault:"root:password@tcp(127.0.0.1:3306)/bookmarks?parseTime=true"`
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	JWTExpiry         time.Duration `env:"JWT_EXPIRY" envDefault:"15m"`
	MinPasswordLength int           `env:"AUTH_MIN_PASSWORD_LENGTH" envDefault:"1"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads Config from the environment and rejects values the tags cannot express.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	cfg.AllowedOrigins = trimOrigins(cfg.AllowedOrigins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	if c.JWTExpiry <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry))
	}
	if c.MinPasswordLength < 1 {
		errs = append(errs, fmt.Errorf("AUTH_MIN_PASSWORD_LENGTH must be at least 1, got %d", c.MinPasswordLength))
	}

	switch c.StorageDriver {
	case DriverMySQL, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production environment"))
	}

	return errors.Join(errs...)
}

func trimOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
