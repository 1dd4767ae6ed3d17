package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// NewKernel returns a size x size all-ones rectangular structuring element.
// The caller owns the returned Mat.
func NewKernel(size int) gocv.Mat {
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
}

// Preprocess erodes src once and then dilates the result once with the
// same kernel, writing into dst. Small specks vanish; large blobs keep
// their outline.
func Preprocess(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
	eroded := gocv.NewMat()
	defer eroded.Close()

	gocv.Erode(src, &eroded, kernel)
	gocv.Dilate(eroded, dst, kernel)
}
