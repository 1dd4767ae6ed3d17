package aim

// Guidance is an operator console hint. It is never sent to the robot.
type Guidance string

const (
	GuidanceNone      Guidance = ""
	GuidanceXAligned  Guidance = "X Aligned"
	GuidanceTurnRight Guidance = "Turn Right"
	GuidanceTurnLeft  Guidance = "Turn Left"
	GuidanceYAligned  Guidance = "Y Aligned"
	GuidanceAimLower  Guidance = "Aim Lower"
	GuidanceAimHigher Guidance = "Aim Higher"
)

// Horizontal returns the turn hint for an angle in degrees.
// Angles between the align tolerance and the turn threshold produce
// GuidanceNone.
func (c *Calculator) Horizontal(angle float64) Guidance {
	switch {
	case c.IsAligned(angle):
		return GuidanceXAligned
	case angle > c.config.TurnThreshold:
		return GuidanceTurnRight
	case angle < -c.config.TurnThreshold:
		return GuidanceTurnLeft
	default:
		return GuidanceNone
	}
}

// Vertical returns the pitch hint for a centroid row.
// Image rows grow downward, so a target below center means aim lower.
// A row exactly on the band edge gets no hint.
func (c *Calculator) Vertical(cy int) Guidance {
	center := c.config.CenterY()
	tol := c.config.VerticalTolerance

	switch {
	case cy > center-tol && cy < center+tol:
		return GuidanceYAligned
	case cy > center+tol:
		return GuidanceAimLower
	case cy < center-tol:
		return GuidanceAimHigher
	default:
		return GuidanceNone
	}
}
