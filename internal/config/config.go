package config

import (
	"fmt"
	"goal-route-service/internal/domain"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings of the route service.
type Config struct {
	Port      string
	LogFormat string
	LogLevel  string

	// Routing provider
	Provider    string
	ORSAPIKey   string
	ORSBaseURL  string
	ORSProfile  string
	OSRMBaseURL string

	// ISO country code narrowing origin address lookups; empty searches worldwide.
	GeocodeCountry string

	// Leg cache: Postgres when DatabaseURL is set, SQLite at DBPath otherwise.
	DBPath      string
	DatabaseURL string

	RedisURL   string
	SessionTTL time.Duration

	// Search tuning
	MaxManualAttempts int
	ClickDebounce     time.Duration
	ResetMode         domain.ResetMode
	SearchConcurrency int
	LegTimeout        time.Duration
	SearchDeadline    time.Duration
	DetourFactor      float64
}

// Get returns the environment variable key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads Config from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           Get("PORT", "8080"),
		LogFormat:      Get("LOG_FORMAT", "auto"),
		LogLevel:       Get("LOG_LEVEL", "info"),
		Provider:       Get("ROUTING_PROVIDER", "ors"),
		ORSAPIKey:      Get("ORS_API_KEY", ""),
		ORSBaseURL:     Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSProfile:     Get("ORS_PROFILE", "foot-walking"),
		OSRMBaseURL:    Get("OSRM_BASE_URL", "https://router.project-osrm.org"),
		GeocodeCountry: Get("ORS_GEOCODE_COUNTRY", ""),
		DBPath:         Get("DB_PATH", "data/legs.db"),
		DatabaseURL:    Get("DATABASE_URL", ""),
		RedisURL:       Get("REDIS_URL", "redis://localhost:6379/0"),
	}

	var err error
	if cfg.SessionTTL, err = duration("SESSION_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ClickDebounce, err = duration("CLICK_DEBOUNCE", domain.DefaultClickDebounce); err != nil {
		return nil, err
	}
	if cfg.LegTimeout, err = duration("LEG_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}
	if cfg.SearchDeadline, err = duration("SEARCH_DEADLINE", 45*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxManualAttempts, err = integer("MAX_MANUAL_ATTEMPTS", domain.DefaultMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.SearchConcurrency, err = integer("SEARCH_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.DetourFactor, err = float("DETOUR_FACTOR", 1.3); err != nil {
		return nil, err
	}
	if cfg.ResetMode, err = domain.ParseResetMode(Get("RESET_MODE", "")); err != nil {
		return nil, fmt.Errorf("RESET_MODE: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "ors":
		if c.ORSAPIKey == "" {
			return fmt.Errorf("ORS_API_KEY is required when ROUTING_PROVIDER=ors")
		}
	case "osrm":
	default:
		return fmt.Errorf("ROUTING_PROVIDER must be ors or osrm, got %q", c.Provider)
	}

	if c.MaxManualAttempts < 1 {
		return fmt.Errorf("MAX_MANUAL_ATTEMPTS must be at least 1, got %d", c.MaxManualAttempts)
	}
	if c.SearchConcurrency < 1 || c.SearchConcurrency > 6 {
		return fmt.Errorf("SEARCH_CONCURRENCY must be between 1 and 6, got %d", c.SearchConcurrency)
	}
	if c.DetourFactor < 1 {
		return fmt.Errorf("DETOUR_FACTOR must be at least 1, got %v", c.DetourFactor)
	}
	return nil
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: parse duration %q: %w", key, v, err)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: parse int %q: %w", key, v, err)
	}
	return n, nil
}

func float(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: parse float %q: %w", key, v, err)
	}
	return f, nil
}
