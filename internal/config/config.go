// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration for the marketplace service.
type Config struct {
	Port        string `envconfig:"PORT" default:"3001"`
	GRPCPort    string `envconfig:"GRPC_PORT" default:"9091"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" required:"true"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"2h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`

	ScheduleTimezone   string        `envconfig:"SCHEDULE_TIMEZONE" default:"Asia/Ulaanbaatar"`
	CatalogRefreshSpec string        `envconfig:"CATALOG_REFRESH_SPEC" default:"@every 5m"`
	CatalogCacheTTL    time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"10m"`

	NearbyDefaultRadiusKm float64  `envconfig:"NEARBY_DEFAULT_RADIUS_KM" default:"5"`
	CORSOrigins           []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
}

// Load reads an optional .env file plus the environment and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("envconfig: %w", err)
	}

	// envconfig's required only checks presence; an empty value is still missing.
	for _, v := range []struct{ name, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REDIS_URL", cfg.RedisURL},
		{"JWT_SECRET", cfg.JWTSecret},
	} {
		if strings.TrimSpace(v.val) == "" {
			return nil, fmt.Errorf("required environment variable %s is empty", v.name)
		}
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}
	if cfg.NearbyDefaultRadiusKm <= 0 {
		return nil, fmt.Errorf("NEARBY_DEFAULT_RADIUS_KM must be positive, got %v", cfg.NearbyDefaultRadiusKm)
	}
	if _, err := time.LoadLocation(cfg.ScheduleTimezone); err != nil {
		return nil, fmt.Errorf("SCHEDULE_TIMEZONE %q: %w", cfg.ScheduleTimezone, err)
	}

	return &cfg, nil
}

// Location returns the timezone used to project job start times onto weekdays.
// Load has already validated the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScheduleTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
