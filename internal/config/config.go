// Package config loads gazectl configuration from ~/.gazectl/config.yaml,
// overridable with GAZECTL_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/gazectl/internal/input"
)

// Config is the complete gazectl configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Camera    CameraConfig    `mapstructure:"camera" yaml:"camera"`
	Detector  DetectorConfig  `mapstructure:"detector" yaml:"detector"`
	Input     InputConfig     `mapstructure:"input" yaml:"input"`
	Tracking  TrackingConfig  `mapstructure:"tracking" yaml:"tracking"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Tray      TrayConfig      `mapstructure:"tray" yaml:"tray"`
}

// ServerConfig configures the tracking control API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// Metrics enables /metrics.
	Metrics bool `mapstructure:"metrics" yaml:"metrics"`
}

// CameraConfig selects and sizes the capture device.
type CameraConfig struct {
	DeviceID int  `mapstructure:"device_id" yaml:"device_id"`
	Width    int  `mapstructure:"width" yaml:"width"`
	Height   int  `mapstructure:"height" yaml:"height"`
	Mirror   bool `mapstructure:"mirror" yaml:"mirror"`
}

// DetectorConfig configures the face-mesh service.
type DetectorConfig struct {
	// ScriptPath and PythonPath are searched for when empty.
	ScriptPath             string        `mapstructure:"script_path" yaml:"script_path"`
	PythonPath             string        `mapstructure:"python_path" yaml:"python_path"`
	MaxFaces               int           `mapstructure:"max_faces" yaml:"max_faces"`
	RefineLandmarks        bool          `mapstructure:"refine_landmarks" yaml:"refine_landmarks"`
	MinDetectionConfidence float64       `mapstructure:"min_detection_confidence" yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64       `mapstructure:"min_tracking_confidence" yaml:"min_tracking_confidence"`
	IdleTimeout            time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// InputConfig selects the input emulation backend.
type InputConfig struct {
	// Backend is one of robotgo, plugin or log.
	Backend       string        `mapstructure:"backend" yaml:"backend"`
	PluginDir     string        `mapstructure:"plugin_dir" yaml:"plugin_dir"`
	PluginName    string        `mapstructure:"plugin_name" yaml:"plugin_name"`
	PluginTimeout time.Duration `mapstructure:"plugin_timeout" yaml:"plugin_timeout"`
}

// TrackingConfig configures the tracking loop lifecycle.
type TrackingConfig struct {
	// ClearOnCaptureFailure clears the enabled flag when the camera fails mid-loop.
	ClearOnCaptureFailure bool `mapstructure:"clear_on_capture_failure" yaml:"clear_on_capture_failure"`
	// StopTimeout bounds how long /stop waits for the loop. Zero waits forever.
	StopTimeout time.Duration `mapstructure:"stop_timeout" yaml:"stop_timeout"`
}

// DashboardConfig configures the dashboard web server.
type DashboardConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	APIURL          string        `mapstructure:"api_url" yaml:"api_url"`
	DBPath          string        `mapstructure:"db_path" yaml:"db_path"`
	DefaultLanguage string        `mapstructure:"default_language" yaml:"default_language"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	SecureCookie    bool          `mapstructure:"secure_cookie" yaml:"secure_cookie"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`
	// File is an optional log file written in addition to stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// TrayConfig configures the system tray.
type TrayConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":5000",
			Metrics: true,
		},
		Camera: CameraConfig{
			DeviceID: 0,
			Width:    640,
			Height:   480,
			Mirror:   true,
		},
		Detector: DetectorConfig{
			MaxFaces:               1,
			RefineLandmarks:        true,
			MinDetectionConfidence: 0.7,
			MinTrackingConfidence:  0.7,
			IdleTimeout:            30 * time.Second,
		},
		Input: InputConfig{
			Backend:       input.BackendRobotgo,
			PluginDir:     "~/.gazectl/plugins",
			PluginName:    "xdotool",
			PluginTimeout: 2 * time.Second,
		},
		Tracking: TrackingConfig{
			ClearOnCaptureFailure: true,
		},
		Dashboard: DashboardConfig{
			Addr:            ":8501",
			APIURL:          "http://127.0.0.1:5000",
			DBPath:          "~/.gazectl/gazectl.db",
			DefaultLanguage: "en",
			SessionTTL:      30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DataDir returns the gazectl data directory (~/.gazectl).
func DataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".gazectl")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath())
}

// LoadFromPath reads configuration from path and merges environment
// variables. If the file doesn't exist, it is created with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// Example: GAZECTL_SERVER_ADDR, GAZECTL_INPUT_BACKEND
	v.SetEnvPrefix("GAZECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Input.PluginDir = expandPath(cfg.Input.PluginDir)
	cfg.Detector.ScriptPath = expandPath(cfg.Detector.ScriptPath)
	cfg.Detector.PythonPath = expandPath(cfg.Detector.PythonPath)
	cfg.Dashboard.DBPath = expandPath(cfg.Dashboard.DBPath)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	return &cfg, nil
}

// setDefaults registers every key so partial files and env-only overrides
// still resolve.
func setDefaults(v *viper.Viper, d *Config) {
	defaults := map[string]any{
		"server.addr":                       d.Server.Addr,
		"server.metrics":                    d.Server.Metrics,
		"camera.device_id":                  d.Camera.DeviceID,
		"camera.width":                      d.Camera.Width,
		"camera.height":                     d.Camera.Height,
		"camera.mirror":                     d.Camera.Mirror,
		"detector.script_path":              d.Detector.ScriptPath,
		"detector.python_path":              d.Detector.PythonPath,
		"detector.max_faces":                d.Detector.MaxFaces,
		"detector.refine_landmarks":         d.Detector.RefineLandmarks,
		"detector.min_detection_confidence": d.Detector.MinDetectionConfidence,
		"detector.min_tracking_confidence":  d.Detector.MinTrackingConfidence,
		"detector.idle_timeout":             d.Detector.IdleTimeout,
		"input.backend":                     d.Input.Backend,
		"input.plugin_dir":                  d.Input.PluginDir,
		"input.plugin_name":                 d.Input.PluginName,
		"input.plugin_timeout":              d.Input.PluginTimeout,
		"tracking.clear_on_capture_failure": d.Tracking.ClearOnCaptureFailure,
		"tracking.stop_timeout":             d.Tracking.StopTimeout,
		"dashboard.addr":                    d.Dashboard.Addr,
		"dashboard.api_url":                 d.Dashboard.APIURL,
		"dashboard.db_path":                 d.Dashboard.DBPath,
		"dashboard.default_language":        d.Dashboard.DefaultLanguage,
		"dashboard.session_ttl":             d.Dashboard.SessionTTL,
		"dashboard.secure_cookie":           d.Dashboard.SecureCookie,
		"logging.level":                     d.Logging.Level,
		"logging.format":                    d.Logging.Format,
		"logging.file":                      d.Logging.File,
		"tray.enabled":                      d.Tray.Enabled,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// SaveToPath writes the configuration to path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera dimensions must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}

	if c.Detector.MaxFaces < 1 {
		return fmt.Errorf("detector.max_faces must be at least 1")
	}
	for name, conf := range map[string]float64{
		"min_detection_confidence": c.Detector.MinDetectionConfidence,
		"min_tracking_confidence":  c.Detector.MinTrackingConfidence,
	} {
		if conf < 0 || conf > 1 {
			return fmt.Errorf("detector.%s must be between 0 and 1", name)
		}
	}

	validBackend := false
	for _, b := range input.Backends {
		if c.Input.Backend == b {
			validBackend = true
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid input backend '%s', must be one of: %s", c.Input.Backend, strings.Join(input.Backends, ", "))
	}
	if c.Input.Backend == input.BackendPlugin && c.Input.PluginName == "" {
		return fmt.Errorf("input.plugin_name is required for the plugin backend")
	}

	if c.Tracking.StopTimeout < 0 {
		return fmt.Errorf("tracking.stop_timeout cannot be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format '%s', must be 'console' or 'json'", c.Logging.Format)
	}

	return nil
}

// writeConfigFile writes a Config struct to a YAML file.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
