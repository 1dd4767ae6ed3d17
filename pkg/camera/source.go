package camera

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Source produces one frame per call.
type Source interface {
	// Read blocks until a frame is copied into dst.
	Read(dst *gocv.Mat) error

	// Close releases the underlying device.
	Close() error
}

// Device reads frames from a local video capture device.
type Device struct {
	config  Config
	capture *gocv.VideoCapture
	closed  bool
}

// Open opens the configured capture device and requests its resolution.
// The driver may pick a different size; Read does not resize.
func Open(cfg Config) (*Device, error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, problems)
	}

	capture, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open device %d: %w", cfg.DeviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	return &Device{config: cfg, capture: capture}, nil
}

// Config returns the device configuration.
func (d *Device) Config() Config {
	return d.config
}

// Read grabs the next frame into dst.
func (d *Device) Read(dst *gocv.Mat) error {
	if d.closed {
		return ErrClosed
	}
	if ok := d.capture.Read(dst); !ok {
		return fmt.Errorf("%w: device %d", ErrReadFailed, d.config.DeviceID)
	}
	if dst.Empty() {
		return ErrEmptyFrame
	}
	return nil
}

// Close releases the device.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.capture.Close()
}

// Still serves the same image on every Read. It stands in for the camera
// when tuning against a saved frame.
type Still struct {
	path   string
	image  gocv.Mat
	closed bool
}

// OpenStill loads a color image from disk.
func OpenStill(path string) (*Still, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return nil, fmt.Errorf("load %s: %w", path, ErrEmptyFrame)
	}
	return &Still{path: path, image: img}, nil
}

// NewStill wraps an in-memory frame. The Still takes a private copy.
func NewStill(frame gocv.Mat) (*Still, error) {
	if frame.Empty() {
		return nil, ErrEmptyFrame
	}
	return &Still{path: "memory", image: frame.Clone()}, nil
}

// Read copies the still image into dst.
func (s *Still) Read(dst *gocv.Mat) error {
	if s.closed {
		return ErrClosed
	}
	s.image.CopyTo(dst)
	return nil
}

// Close releases the image.
func (s *Still) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.image.Close()
}

var (
	_ Source = (*Device)(nil)
	_ Source = (*Still)(nil)
)
