package networktables

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrNotConnected is returned when writing while no server is connected.
	ErrNotConnected = errors.New("networktables: not connected")

	// ErrClosed is returned when using a closed client.
	ErrClosed = errors.New("networktables: client closed")

	// ErrTypeMismatch is returned when a topic is written with a different
	// type than it was announced with.
	ErrTypeMismatch = errors.New("networktables: topic type mismatch")

	// ErrWriteFailed wraps transport errors from a write. The connection
	// is dropped when this is returned.
	ErrWriteFailed = errors.New("networktables: write failed")
)
