package config

import (
	"goal-route-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ROUTING_PROVIDER", "osrm")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 600*time.Millisecond, cfg.ClickDebounce)
	assert.Equal(t, 3, cfg.MaxManualAttempts)
	assert.Equal(t, 1, cfg.SearchConcurrency)
	assert.Equal(t, domain.ResetLockAndStartDefault, cfg.ResetMode)
	assert.Equal(t, 8*time.Second, cfg.LegTimeout)
	assert.Equal(t, 1.3, cfg.DetourFactor)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROUTING_PROVIDER", "ors")
	t.Setenv("ORS_API_KEY", "secret")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("MAX_MANUAL_ATTEMPTS", "5")
	t.Setenv("RESET_MODE", "full_rearm")
	t.Setenv("SEARCH_CONCURRENCY", "4")
	t.Setenv("ORS_GEOCODE_COUNTRY", "DE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.ORSAPIKey)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.MaxManualAttempts)
	assert.Equal(t, domain.ResetFullRearm, cfg.ResetMode)
	assert.Equal(t, 4, cfg.SearchConcurrency)
	assert.Equal(t, "DE", cfg.GeocodeCountry)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "ors without key", env: map[string]string{"ROUTING_PROVIDER": "ors", "ORS_API_KEY": ""}},
		{name: "unknown provider", env: map[string]string{"ROUTING_PROVIDER": "google"}},
		{name: "bad duration", env: map[string]string{"ROUTING_PROVIDER": "osrm", "SESSION_TTL": "soon"}},
		{name: "bad reset mode", env: map[string]string{"ROUTING_PROVIDER": "osrm", "RESET_MODE": "maybe"}},
		{name: "too much concurrency", env: map[string]string{"ROUTING_PROVIDER": "osrm", "SEARCH_CONCURRENCY": "12"}},
		{name: "zero attempts", env: map[string]string{"ROUTING_PROVIDER": "osrm", "MAX_MANUAL_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("SOME_KEY", "  value ")
	assert.Equal(t, "value", Get("SOME_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("MISSING_KEY_FOR_TEST", "fallback"))
}
