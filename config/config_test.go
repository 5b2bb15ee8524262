package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so a developer's shell or .env cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "PORT", "STORAGE_DRIVER", "JWT_SECRET", "CORS_ORIGINS",
		"REQUEST_TIMEOUT", "REPUTATION_COMPLETION_REWARD", "REPUTATION_CANCEL_PENALTIES",
		"SEARCH_RATE_LIMIT_RPS", "SEARCH_RATE_LIMIT_BURST", "GEOCODER_URL", "GEOCODER_USER_AGENT",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(k, "")
	}
	// production skips the .env lookup
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.CompletionReward)
	assert.True(t, cfg.CancelPenalties)
	assert.Equal(t, 5.0, cfg.SearchRateLimit)
	assert.Equal(t, 10, cfg.SearchRateBurst)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "acadswap-api", cfg.ServiceName)
	assert.Empty(t, cfg.OTLPEndpoint)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("REPUTATION_COMPLETION_REWARD", "7")
	t.Setenv("REPUTATION_CANCEL_PENALTIES", "false")
	t.Setenv("SEARCH_RATE_LIMIT_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 7, cfg.CompletionReward)
	assert.False(t, cfg.CancelPenalties)
	assert.Equal(t, 0.5, cfg.SearchRateLimit)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad timeout", "REQUEST_TIMEOUT", "soon", "REQUEST_TIMEOUT"},
		{"negative timeout", "REQUEST_TIMEOUT", "-1s", "must be positive"},
		{"bad reward", "REPUTATION_COMPLETION_REWARD", "five", "REPUTATION_COMPLETION_REWARD"},
		{"bad bool", "REPUTATION_CANCEL_PENALTIES", "maybe", "REPUTATION_CANCEL_PENALTIES"},
		{"bad rps", "SEARCH_RATE_LIMIT_RPS", "fast", "SEARCH_RATE_LIMIT_RPS"},
		{"bad burst", "SEARCH_RATE_LIMIT_BURST", "1.5", "SEARCH_RATE_LIMIT_BURST"},
		{"unknown driver", "STORAGE_DRIVER", "sqlite", "unknown driver"},
		{"missing secret in production", "JWT_SECRET", "", "JWT_SECRET is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("dropped")
	logger.Warn("kept", "meetup_id", "m1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "m1", line["meetup_id"])
}
