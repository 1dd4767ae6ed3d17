// Package vision finds the reflective-tape target in a camera frame.
//
// A frame goes through five fixed stages: morphological opening, HSV
// thresholding, external contour extraction, a largest-quadrilateral shape
// filter and a moment centroid. The stages are exported individually so
// they can be tested and tuned on their own; Pipeline strings them together.
package vision

import (
	"gocv.io/x/gocv"

	"github.com/teslashibe/nerdyvision/pkg/aim"
)

// HSV is one corner of an OpenCV HSV box (H 0-180, S and V 0-255).
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

func (h HSV) scalar() gocv.Scalar {
	return gocv.NewScalar(h.H, h.S, h.V, 0)
}

// Config holds the fixed pipeline tuning. Build one with DefaultConfig and
// hand it to NewPipeline; the pipeline keeps its own copy.
type Config struct {
	// Color band, inclusive on both ends. Tuned for green retroreflective
	// tape under a green LED ring.
	Lower HSV
	Upper HSV

	// KernelSize is the side of the square structuring element used for
	// erosion and dilation.
	KernelSize int

	// MinArea is the contour area the largest blob must exceed.
	MinArea float64

	// ApproxEpsilon is the Douglas-Peucker tolerance as a fraction of the
	// hull perimeter.
	ApproxEpsilon float64

	// Vertices is the exact vertex count the simplified hull must have.
	Vertices int

	// Aim is the camera geometry used to turn centroids into angles.
	Aim aim.Config
}

// DefaultConfig returns the 2016 competition tuning.
func DefaultConfig() Config {
	return Config{
		Lower:         HSV{H: 40, S: 20, V: 20},
		Upper:         HSV{H: 80, S: 220, V: 220},
		KernelSize:    5,
		MinArea:       1500,
		ApproxEpsilon: 0.025,
		Vertices:      4,
		Aim:           aim.DefaultConfig(),
	}
}
