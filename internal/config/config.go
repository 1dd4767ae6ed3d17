// Package config provides environment lookups for nerdyvision commands.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults used when neither a flag nor an environment variable is set.
const (
	DefaultServer    = "roboRIO-687-FRC.local"
	DefaultStreamDir = "/tmp/stream"
	DefaultDevice    = 0
	DefaultLogLevel  = "info"
)

// Server returns the network table host from NT_SERVER.
// Falls back to the roboRIO mDNS name.
func Server() string {
	return String("NT_SERVER", DefaultServer)
}

// StreamDir returns the debug snapshot directory from STREAM_DIR.
func StreamDir() string {
	return String("STREAM_DIR", DefaultStreamDir)
}

// LogLevel returns LOG_LEVEL or "info".
func LogLevel() string {
	return String("LOG_LEVEL", DefaultLogLevel)
}

// CameraDevice returns the capture device index from CAMERA_DEVICE.
// An unparsable value is reported on stderr and the default is used.
func CameraDevice() int {
	v := os.Getenv("CAMERA_DEVICE")
	if v == "" {
		return DefaultDevice
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: CAMERA_DEVICE=%q is not an integer, using %d\n", v, DefaultDevice)
		return DefaultDevice
	}
	return n
}

// String returns the value of key, or def when it is unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
