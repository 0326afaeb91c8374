package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, 480, cfg.Camera.Height)
	assert.True(t, cfg.Camera.Mirror)
	assert.Equal(t, 1, cfg.Detector.MaxFaces)
	assert.True(t, cfg.Detector.RefineLandmarks)
	assert.Equal(t, 0.7, cfg.Detector.MinDetectionConfidence)
	assert.Equal(t, 0.7, cfg.Detector.MinTrackingConfidence)
	assert.Equal(t, "robotgo", cfg.Input.Backend)
	assert.True(t, cfg.Tracking.ClearOnCaptureFailure)
	assert.Zero(t, cfg.Tracking.StopTimeout)
	assert.Equal(t, ":8501", cfg.Dashboard.Addr)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Dashboard.APIURL)
	assert.False(t, cfg.Tray.Enabled)
}

func TestLoadFromPathCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	want := Default()
	assert.Equal(t, want.Server, cfg.Server)
	assert.Equal(t, want.Camera, cfg.Camera)
	assert.Equal(t, want.Detector.IdleTimeout, cfg.Detector.IdleTimeout)
	assert.Equal(t, want.Input.PluginTimeout, cfg.Input.PluginTimeout)
	assert.Equal(t, want.Dashboard.SessionTTL, cfg.Dashboard.SessionTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPathPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  addr: \":6000\"\ninput:\n  backend: log\ntracking:\n  stop_timeout: 5s\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, "log", cfg.Input.Backend)
	assert.Equal(t, 5*time.Second, cfg.Tracking.StopTimeout)
	// Unset keys keep their defaults.
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.True(t, cfg.Tracking.ClearOnCaptureFailure)
}

func TestLoadFromPathEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("GAZECTL_SERVER_ADDR", ":7000")
	t.Setenv("GAZECTL_TRACKING_CLEAR_ON_CAPTURE_FAILURE", "false")
	t.Setenv("GAZECTL_DASHBOARD_API_URL", "http://10.0.0.2:5000")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.False(t, cfg.Tracking.ClearOnCaptureFailure)
	assert.Equal(t, "http://10.0.0.2:5000", cfg.Dashboard.APIURL)
}

func TestLoadFromPathInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Input.Backend = "plugin"
	cfg.Tray.Enabled = true
	require.NoError(t, cfg.SaveToPath(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "plugin", loaded.Input.Backend)
	assert.True(t, loaded.Tray.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero width", func(c *Config) { c.Camera.Width = 0 }},
		{"negative height", func(c *Config) { c.Camera.Height = -1 }},
		{"no faces", func(c *Config) { c.Detector.MaxFaces = 0 }},
		{"confidence above one", func(c *Config) { c.Detector.MinDetectionConfidence = 1.5 }},
		{"unknown backend", func(c *Config) { c.Input.Backend = "uinput" }},
		{"plugin without name", func(c *Config) { c.Input.Backend = "plugin"; c.Input.PluginName = "" }},
		{"negative stop timeout", func(c *Config) { c.Tracking.StopTimeout = -time.Second }},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".gazectl", "x.db"), expandPath("~/.gazectl/x.db"))
	assert.Equal(t, "/tmp/x.db", expandPath("/tmp/x.db"))
	assert.Equal(t, "", expandPath(""))
}
