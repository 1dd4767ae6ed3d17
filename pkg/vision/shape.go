package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// ShapeFilter picks the target polygon out of a frame's contours.
type ShapeFilter struct {
	MinArea  float64 // Largest contour must exceed this area
	Epsilon  float64 // Douglas-Peucker tolerance as a fraction of hull perimeter
	Vertices int     // Required vertex count after simplification
}

// NewShapeFilter builds a filter from the pipeline config.
func NewShapeFilter(cfg Config) ShapeFilter {
	return ShapeFilter{
		MinArea:  cfg.MinArea,
		Epsilon:  cfg.ApproxEpsilon,
		Vertices: cfg.Vertices,
	}
}

// Select returns the simplified hull of the largest contour when it is big
// enough and has the required vertex count. area is the largest contour's
// area and is reported even when the contour is rejected.
func (f ShapeFilter) Select(contours [][]image.Point) (polygon []image.Point, area float64, reason Rejection) {
	if len(contours) == 0 {
		return nil, 0, RejectNoContours
	}

	largest, area := LargestContour(contours)
	if area <= f.MinArea {
		return nil, area, RejectTooSmall
	}

	polygon = Simplify(largest, f.Epsilon)
	if len(polygon) != f.Vertices {
		return nil, area, RejectNotQuad
	}

	return polygon, area, RejectNone
}

// LargestContour returns the contour enclosing the most area. Ties keep
// the first one found.
func LargestContour(contours [][]image.Point) ([]image.Point, float64) {
	var best []image.Point
	bestArea := -1.0

	for _, c := range contours {
		a := ContourArea(c)
		if a > bestArea {
			best, bestArea = c, a
		}
	}
	return best, bestArea
}

// ContourArea returns the absolute area enclosed by a closed point sequence.
func ContourArea(contour []image.Point) float64 {
	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()

	return gocv.ContourArea(pv)
}

// Simplify computes the convex hull of contour and approximates it as a
// closed polygon with tolerance epsilon times the hull perimeter.
func Simplify(contour []image.Point, epsilon float64) []image.Point {
	pv := gocv.NewPointVectorFromPoints(contour)
	defer pv.Close()

	hullMat := gocv.NewMat()
	defer hullMat.Close()
	gocv.ConvexHull(pv, &hullMat, false, true)

	hull := gocv.NewPointVectorFromMat(hullMat)
	defer hull.Close()

	perimeter := gocv.ArcLength(hull, true)
	approx := gocv.ApproxPolyDP(hull, epsilon*perimeter, true)
	defer approx.Close()

	return approx.ToPoints()
}
