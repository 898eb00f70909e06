package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/liliang-cn/docqa/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.log")

	log, err := New(config.LogConfig{File: path, Level: "info"}, false)
	require.NoError(t, err)

	log.Info("Upload succeeded", zap.String("session_id", "abc"))
	log.Debug("dropped below level")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Upload succeeded"`)
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.NotContains(t, string(data), "dropped below level")
}

func TestNew_NoSinks(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn"}, false)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, true)
	assert.Error(t, err)
}
