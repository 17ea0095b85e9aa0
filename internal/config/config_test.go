package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5555", cfg.DeviceAddr)
	assert.Equal(t, "host::", cfg.SystemIdentity)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "127.0.0.1:5037", cfg.HostServiceAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
device_addr: "192.168.1.50:5555"
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.50:5555", cfg.DeviceAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields keep their defaults.
	assert.Equal(t, "host::", cfg.SystemIdentity)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device_addr: \"10.0.0.1:5555\"\n"), 0644))

	t.Setenv("ADBC_DEVICE_ADDR", "10.0.0.2:5555")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:5555", cfg.DeviceAddr)
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.True(t, filepath.IsAbs(path) || path == "")
	if path != "" {
		assert.Equal(t, ".adbc.yaml", filepath.Base(path))
	}
}
