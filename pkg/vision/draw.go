package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay colors. gocv takes RGBA and swaps to BGR internally.
var (
	crosshairColor = color.RGBA{R: 255}
	targetColor    = color.RGBA{B: 255}
)

// DrawCrosshair marks the frame center with a dot and a vertical line.
func DrawCrosshair(img *gocv.Mat, width, height int) {
	cx, cy := width/2, height/2
	gocv.Circle(img, image.Pt(cx, cy), 5, crosshairColor, -1)
	gocv.Line(img, image.Pt(cx, 0), image.Pt(cx, height), crosshairColor, 2)
}

// DrawTarget outlines the accepted polygon and dots its centroid.
func DrawTarget(img *gocv.Mat, poly []image.Point, centroid image.Point) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{poly})
	defer pv.Close()

	gocv.DrawContours(img, pv, 0, targetColor, 5)
	gocv.Circle(img, centroid, 5, targetColor, -1)
}
