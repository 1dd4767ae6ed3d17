package vision

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Moments holds the raw spatial moments needed for a centroid.
type Moments struct {
	M00 float64 // Enclosed area
	M10 float64 // First moment about the y axis
	M01 float64 // First moment about the x axis
}

// PolygonMoments returns the raw moments of a closed polygon. The points
// go to OpenCV as an Nx1 CV_32SC2 Mat, so moments() integrates the
// outline rather than rasterizing it. Both windings give a non-negative M00.
func PolygonMoments(poly []image.Point) Moments {
	if len(poly) < 3 {
		return Moments{}
	}

	pv := gocv.NewPointVectorFromPoints(poly)
	defer pv.Close()
	contour := gocv.NewMatFromPointVector(pv, true)
	defer contour.Close()

	raw := gocv.Moments(contour, false)
	m := Moments{
		M00: raw["m00"],
		M10: raw["m10"],
		M01: raw["m01"],
	}
	if m.M00 < 0 {
		m = Moments{M00: -m.M00, M10: -m.M10, M01: -m.M01}
	}
	return m
}

// Centroid returns the moment centroid truncated to whole pixels. ok is
// false when the moments enclose no area.
func (m Moments) Centroid() (c image.Point, ok bool) {
	if m.M00 <= 0 || math.IsNaN(m.M00) {
		return image.Point{}, false
	}
	return image.Pt(int(m.M10/m.M00), int(m.M01/m.M00)), true
}

// Locate returns the centroid of the target polygon, or RejectZeroMoment
// when the polygon is degenerate.
func Locate(poly []image.Point) (image.Point, Rejection) {
	c, ok := PolygonMoments(poly).Centroid()
	if !ok {
		return image.Point{}, RejectZeroMoment
	}
	return c, RejectNone
}
