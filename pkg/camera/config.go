// Package camera supplies BGR frames to the vision loop.
package camera

// Config describes the capture device.
type Config struct {
	DeviceID int // Video device index, 0 is the first camera
	Width    int // Requested frame width in pixels
	Height   int // Requested frame height in pixels
}

// DefaultConfig returns the LifeCam setup: first device at 640x480.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    640,
		Height:   480,
	}
}

// Validate checks if the config values are usable.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DeviceID < 0 {
		errors = append(errors, "device id must not be negative")
	}
	if c.Width < 160 || c.Width > 4096 {
		errors = append(errors, "width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > 2160 {
		errors = append(errors, "height must be between 120 and 2160")
	}

	return errors
}
