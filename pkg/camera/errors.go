package camera

import "errors"

// Sentinel errors for frame acquisition.
var (
	// ErrReadFailed is returned when the device delivers no frame.
	ErrReadFailed = errors.New("camera: frame read failed")

	// ErrEmptyFrame is returned when the device delivers an empty image.
	ErrEmptyFrame = errors.New("camera: empty frame")

	// ErrClosed is returned when reading from a closed source.
	ErrClosed = errors.New("camera: source closed")

	// ErrInvalidConfig is returned when Open is given an unusable Config.
	ErrInvalidConfig = errors.New("camera: invalid config")
)
