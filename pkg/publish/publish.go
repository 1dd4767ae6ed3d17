// Package publish delivers each frame's aim result to its consumers: the
// robot's network table, the debug snapshot on disk, the debug window, the
// operator console and the optional web dashboard.
//
// Every sink reports what happened as a Report instead of returning an
// error. A failed sink never stops the others and nothing is retried.
package publish

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/nerdyvision/pkg/aim"
)

// ErrPublishFailed is wrapped by every failed Report.
var ErrPublishFailed = errors.New("publish: failed")

// Outcome classifies one sink's handling of one frame.
type Outcome int

const (
	Published Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Published:
		return "published"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Report is a sink's result for one frame.
type Report struct {
	Sink    string
	Outcome Outcome
	Err     error // Set when Outcome is Failed; wraps ErrPublishFailed
}

// OK reports whether the sink did not fail.
func (r Report) OK() bool {
	return r.Outcome != Failed
}

func published(sink string) Report {
	return Report{Sink: sink, Outcome: Published}
}

func skipped(sink string) Report {
	return Report{Sink: sink, Outcome: Skipped}
}

func failed(sink string, err error) Report {
	return Report{Sink: sink, Outcome: Failed, Err: fmt.Errorf("%w: %s: %w", ErrPublishFailed, sink, err)}
}

// Frame is what every sink receives.
type Frame struct {
	Seq   uint64     // Iteration number, starting at 1
	Image gocv.Mat   // Annotated debug frame; may be empty
	Aim   aim.Result // Published whether or not a target was found
}

// Publisher is one output of the loop.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, f Frame) Report
}

// Multi fans a frame out to several publishers in order.
type Multi []Publisher

// PublishAll hands f to every publisher and collects their reports.
func (m Multi) PublishAll(ctx context.Context, f Frame) []Report {
	reports := make([]Report, 0, len(m))
	for _, p := range m {
		if ctx.Err() != nil {
			reports = append(reports, skipped(p.Name()))
			continue
		}
		reports = append(reports, p.Publish(ctx, f))
	}
	return reports
}
