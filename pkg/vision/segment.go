package vision

import "gocv.io/x/gocv"

// Segment converts a BGR image to HSV and thresholds it against the
// inclusive [lower, upper] box. mask receives the single channel binary
// result; masked receives src with every non-matching pixel zeroed.
func Segment(src gocv.Mat, lower, upper HSV, mask, masked *gocv.Mat) {
	hsv := gocv.NewMat()
	defer hsv.Close()

	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)
	gocv.InRangeWithScalar(hsv, lower.scalar(), upper.scalar(), mask)

	// BitwiseAndWithMask leaves unmasked pixels untouched, so start black
	masked.SetTo(gocv.NewScalar(0, 0, 0, 0))
	gocv.BitwiseAndWithMask(src, src, masked, *mask)
}
