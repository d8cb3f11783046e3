//go:build unit

package config_test

import (
	"testing"
	"time"

	"room-allocation-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.LedgerMemory, cfg.Ledger.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Hold.TTL)
	assert.Equal(t, time.Minute, cfg.Hold.SweepInterval)
	assert.Equal(t, 8*time.Hour, cfg.Session.Duration)
	assert.Contains(t, cfg.CORS.AllowHeaders, "X-Session-Token")
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"LEDGER_BACKEND": "redis"}},
		{name: "postgres without credentials", env: map[string]string{"LEDGER_BACKEND": "postgres"}},
		{name: "zero hold ttl", env: map[string]string{"HOLD_TTL": "0s"}},
		{name: "bad property zone", env: map[string]string{"PROPERTY_TIMEZONE": "Mars/Olympus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := config.LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestPropertyLocation(t *testing.T) {
	loc, err := config.PropertyConfig{TimeZone: "Asia/Tokyo"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}
