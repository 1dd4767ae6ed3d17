package vision

// Rejection says why a frame produced no target. None of these are errors;
// the frame still publishes the default aim result.
type Rejection int

const (
	// RejectNone means a target was accepted.
	RejectNone Rejection = iota
	// RejectNoContours means the mask had no foreground.
	RejectNoContours
	// RejectTooSmall means the largest contour did not exceed MinArea.
	RejectTooSmall
	// RejectNotQuad means the simplified hull had the wrong vertex count.
	RejectNotQuad
	// RejectZeroMoment means the polygon encloses no area.
	RejectZeroMoment
)

func (r Rejection) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectNoContours:
		return "no contours"
	case RejectTooSmall:
		return "below minimum area"
	case RejectNotQuad:
		return "not a quadrilateral"
	case RejectZeroMoment:
		return "zero moment"
	default:
		return "unknown"
	}
}
