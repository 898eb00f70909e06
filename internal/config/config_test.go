package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "0.0.0.0:3000", cfg.Address())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, time.Hour, cfg.Server.ViewTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ModeWeb, cfg.UI.Mode)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DOCQA_API_BASE_URL", "http://qa.internal:9000")
	t.Setenv("DOCQA_API_TIMEOUT", "30s")
	t.Setenv("DOCQA_UI_MODE", "tui")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://qa.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, ModeTUI, cfg.UI.Mode)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://10.0.0.5:8000
server:
  port: 8081
  view_ttl: 15m
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8000", cfg.API.BaseURL)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Server.ViewTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown ui mode", "DOCQA_UI_MODE", "gui"},
		{"bad base url", "DOCQA_API_BASE_URL", "not a url"},
		{"bad log level", "DOCQA_LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
