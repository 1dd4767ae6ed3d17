package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/teslashibe/nerdyvision/pkg/aim"
)

// Console prints the operator readout for frames with a target.
type Console struct {
	out  io.Writer
	calc *aim.Calculator
}

// NewConsole writes to out, or stdout when out is nil.
func NewConsole(out io.Writer, calc *aim.Calculator) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out, calc: calc}
}

// Name implements Publisher.
func (c *Console) Name() string {
	return "console"
}

// Publish prints the angle, the aligned flag and the turn and pitch hints.
// Frames without a target print nothing.
func (c *Console) Publish(_ context.Context, f Frame) Report {
	if !f.Aim.Found {
		return skipped(c.Name())
	}

	a := f.Aim
	angle := strconv.FormatFloat(a.AngleToTurn, 'f', -1, 64)
	if _, err := fmt.Fprintf(c.out, "ANGLE_TO_TURN%s\nIS_ALIGNED: %t\n", angle, a.Aligned); err != nil {
		return failed(c.Name(), err)
	}
	for _, g := range []aim.Guidance{c.calc.Horizontal(a.AngleToTurn), c.calc.Vertical(a.Centroid.Y)} {
		if g == aim.GuidanceNone {
			continue
		}
		if _, err := fmt.Fprintln(c.out, g); err != nil {
			return failed(c.Name(), err)
		}
	}
	return published(c.Name())
}
