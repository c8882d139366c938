package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sanca/internal/config"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() {
		base = newBaseLogger()
	})
}

func TestInitLoggerJSONFile(t *testing.T) {
	resetLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "sanca.log")

	require.NoError(t, InitLogger(config.LogConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	}))

	logger := NewLogger("test")
	assert.True(t, logger.DebugEnabled())
	logger.Info("扫描 %s 完成", "example.com")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "扫描 example.com 完成", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "timestamp")
}

func TestInitLoggerLevels(t *testing.T) {
	resetLogger(t)

	require.NoError(t, InitLogger(config.LogConfig{Level: "warn", Format: "text", Output: "stderr"}))
	assert.Equal(t, logrus.WarnLevel, base.GetLevel())
	assert.False(t, NewLogger("test").DebugEnabled())
}

func TestInitLoggerInvalid(t *testing.T) {
	resetLogger(t)

	assert.Error(t, InitLogger(config.LogConfig{Level: "loud"}))
	assert.Error(t, InitLogger(config.LogConfig{Level: "info", Format: "xml"}))
	assert.Error(t, InitLogger(config.LogConfig{Level: "info", Output: "syslog"}))
	assert.Error(t, InitLogger(config.LogConfig{Level: "info", Output: "file"}))
}
