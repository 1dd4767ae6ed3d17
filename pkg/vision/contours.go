package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// FindContours returns the outer boundaries of the foreground regions in
// mask, each compressed to the points where the boundary changes
// direction. Holes are not reported.
func FindContours(mask gocv.Mat) [][]image.Point {
	found := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	return found.ToPoints()
}
