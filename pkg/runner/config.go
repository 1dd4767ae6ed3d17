package runner

import (
	"fmt"
	"strings"

	"github.com/teslashibe/nerdyvision/internal/config"
	"github.com/teslashibe/nerdyvision/pkg/camera"
	"github.com/teslashibe/nerdyvision/pkg/vision"
)

// Config holds all configuration for the application.
// Flag parsing is done in cmd/nerdyvision/main.go; this struct is data only.
type Config struct {
	// Debug enables debug logging.
	Debug bool

	// LogLevel is used when Debug is off.
	LogLevel string

	// Server is the network table server host, usually the roboRIO.
	Server string

	// Camera selects the live capture device.
	Camera camera.Config

	// ImagePath replaces the camera with a still image when set.
	ImagePath string

	// Headless disables the debug window.
	Headless bool

	// DashboardAddr enables the web dashboard when set, e.g. ":5800".
	DashboardAddr string

	// StreamDir receives the debug snapshot every frame.
	StreamDir string

	// Vision tunes the target pipeline.
	Vision vision.Config
}

// DefaultConfig returns the competition setup: first camera, roboRIO
// server, window on, dashboard off.
func DefaultConfig() Config {
	return Config{
		LogLevel:  config.DefaultLogLevel,
		Server:    config.DefaultServer,
		Camera:    camera.DefaultConfig(),
		StreamDir: config.DefaultStreamDir,
		Vision:    vision.DefaultConfig(),
	}
}

// LoadEnvConfig applies environment overrides.
// Call this before applying flags so flags win.
func (c *Config) LoadEnvConfig() {
	c.Server = config.Server()
	c.StreamDir = config.StreamDir()
	c.LogLevel = config.LogLevel()
	c.Camera.DeviceID = config.CameraDevice()
}

// Level returns the effective log level.
func (c *Config) Level() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return &ConfigError{Field: "Server", Message: "network table server is required"}
	}
	if c.StreamDir == "" {
		return &ConfigError{Field: "StreamDir", Message: "snapshot directory is required"}
	}
	if c.ImagePath == "" {
		if errs := c.Camera.Validate(); len(errs) > 0 {
			return &ConfigError{Field: "Camera", Message: strings.Join(errs, "; ")}
		}
	}
	if c.Vision.Aim.FrameWidth <= 0 || c.Vision.Aim.FrameHeight <= 0 {
		return &ConfigError{Field: "Vision.Aim", Message: "frame size must be positive"}
	}
	if c.Vision.MinArea < 0 {
		return &ConfigError{Field: "Vision.MinArea", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}
