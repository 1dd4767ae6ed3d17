package vision

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// tapeGreen is BGR(50, 200, 50): HSV(60, 191, 200), inside the default band.
var tapeGreen = color.RGBA{R: 50, G: 200, B: 50}

// blankFrame returns a black 640x480 BGR frame.
func blankFrame(t *testing.T) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

// fillPolygon paints a solid polygon onto frame.
func fillPolygon(frame *gocv.Mat, c color.RGBA, pts ...image.Point) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(frame, pv, c)
}

// square returns the corners of an axis-aligned square of side 2*half
// centered on (cx, cy).
func square(cx, cy, half int) []image.Point {
	return []image.Point{
		image.Pt(cx-half, cy-half),
		image.Pt(cx+half, cy-half),
		image.Pt(cx+half, cy+half),
		image.Pt(cx-half, cy+half),
	}
}

func newMat(t *testing.T) gocv.Mat {
	t.Helper()
	m := gocv.NewMat()
	t.Cleanup(func() { m.Close() })
	return m
}

func colorBGR(b, g, r uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b}
}
