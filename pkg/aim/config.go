// Package aim converts a target centroid into the turn angle and alignment
// flag published to the robot.
package aim

// Camera geometry for the Microsoft LifeCam HD-3000 at 640x480.
const (
	DefaultFrameWidth  = 640
	DefaultFrameHeight = 480
	DefaultFOV         = 59.02039664 // horizontal field of view, degrees
)

// Config holds the fixed aiming parameters.
// It is passed by value and never mutated after construction.
type Config struct {
	FrameWidth  int     // Frame width in pixels
	FrameHeight int     // Frame height in pixels
	FOV         float64 // Horizontal field of view in degrees

	// AlignTolerance is the open interval (-t, t) in degrees inside which
	// the robot is considered aligned. This is the published contract.
	AlignTolerance float64

	// TurnThreshold is the angle in degrees beyond which the console says
	// "Turn Left"/"Turn Right". Between AlignTolerance and TurnThreshold
	// nothing is printed.
	TurnThreshold float64

	// VerticalTolerance is the band in pixels around the frame center row
	// reported as "Y Aligned". Console only.
	VerticalTolerance int
}

// DefaultConfig returns the competition tuning.
func DefaultConfig() Config {
	return Config{
		FrameWidth:        DefaultFrameWidth,
		FrameHeight:       DefaultFrameHeight,
		FOV:               DefaultFOV,
		AlignTolerance:    1.0,
		TurnThreshold:     10.0,
		VerticalTolerance: 10,
	}
}

// CenterX returns the frame center column.
func (c Config) CenterX() int {
	return c.FrameWidth / 2
}

// CenterY returns the frame center row.
func (c Config) CenterY() int {
	return c.FrameHeight / 2
}

// DegreesPerPixel returns the linear pixel-to-angle factor.
func (c Config) DegreesPerPixel() float64 {
	if c.FrameWidth == 0 {
		return 0
	}
	return c.FOV / float64(c.FrameWidth)
}
