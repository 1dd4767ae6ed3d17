package aim

import (
	"image"
)

// Result is the per-frame aiming output.
// The zero value is the "no target" result that is still published.
type Result struct {
	AngleToTurn float64     `json:"angle_to_turn"` // Signed degrees, positive = turn right
	Aligned     bool        `json:"aligned"`
	Found       bool        `json:"found"`
	Centroid    image.Point `json:"centroid"`
	PixelError  int         `json:"pixel_error"` // Centroid X minus frame center X
}

// Calculator turns centroids into Results.
type Calculator struct {
	config Config
}

// NewCalculator creates a calculator for the given geometry.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{config: cfg}
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() Config {
	return c.config
}

// Angle converts a horizontal pixel error into degrees.
func (c *Calculator) Angle(pixelError int) float64 {
	return float64(pixelError) * c.config.DegreesPerPixel()
}

// IsAligned reports whether angle lies strictly inside the align tolerance.
func (c *Calculator) IsAligned(angle float64) bool {
	return angle > -c.config.AlignTolerance && angle < c.config.AlignTolerance
}

// Solve computes the Result for a located target centroid.
func (c *Calculator) Solve(centroid image.Point) Result {
	pixelError := centroid.X - c.config.CenterX()
	angle := c.Angle(pixelError)

	return Result{
		AngleToTurn: angle,
		Aligned:     c.IsAligned(angle),
		Found:       true,
		Centroid:    centroid,
		PixelError:  pixelError,
	}
}
