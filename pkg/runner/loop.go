// Package runner drives the capture, process and publish loop and wires
// the application together.
package runner

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/nerdyvision/internal/log"
	"github.com/teslashibe/nerdyvision/pkg/aim"
	"github.com/teslashibe/nerdyvision/pkg/camera"
	"github.com/teslashibe/nerdyvision/pkg/publish"
	"github.com/teslashibe/nerdyvision/pkg/vision"
)

// Processor turns a frame into an outcome, drawing its debug overlay into
// annotated. *vision.Pipeline implements it.
type Processor interface {
	Process(frame gocv.Mat, annotated *gocv.Mat) vision.Outcome
}

// Iteration is what one pass of the loop produced.
type Iteration struct {
	Seq       uint64
	Aim       aim.Result
	Rejection vision.Rejection
	Reports   []publish.Report
}

// Failed returns the reports of sinks that failed.
func (it Iteration) Failed() []publish.Report {
	var out []publish.Report
	for _, r := range it.Reports {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// DefaultReadRetryDelay is how long Run waits after a failed read before
// trying the source again.
const DefaultReadRetryDelay = 100 * time.Millisecond

// Loop reads a frame, processes it and publishes the result, forever.
// It owns one frame Mat and one annotated Mat that are reused across
// iterations; Close releases them.
type Loop struct {
	Source    camera.Source
	Processor Processor
	Publisher publish.Multi

	// ReadRetryDelay paces Run while the source keeps failing.
	ReadRetryDelay time.Duration

	seq       uint64
	frame     gocv.Mat
	annotated gocv.Mat
	ready     bool
}

// NewLoop creates a loop over the given parts.
func NewLoop(src camera.Source, proc Processor, pub publish.Multi) *Loop {
	return &Loop{Source: src, Processor: proc, Publisher: pub, ReadRetryDelay: DefaultReadRetryDelay}
}

func (l *Loop) init() {
	if l.ready {
		return
	}
	l.frame = gocv.NewMat()
	l.annotated = gocv.NewMat()
	l.ready = true
}

// Step runs exactly one iteration. A read failure is returned with the
// iteration's sequence number and nothing is published for it.
func (l *Loop) Step(ctx context.Context) (Iteration, error) {
	l.init()
	l.seq++
	it := Iteration{Seq: l.seq}

	if err := l.Source.Read(&l.frame); err != nil {
		return it, fmt.Errorf("frame %d: %w", it.Seq, err)
	}

	outcome := l.Processor.Process(l.frame, &l.annotated)
	it.Aim = outcome.Aim
	it.Rejection = outcome.Rejection

	if outcome.Rejection != vision.RejectNone {
		log.Debug("no target",
			"seq", it.Seq,
			"reason", outcome.Rejection.String(),
			"contours", outcome.Contours,
			"area", outcome.Area)
	}

	it.Reports = l.Publisher.PublishAll(ctx, publish.Frame{
		Seq:   it.Seq,
		Image: l.annotated,
		Aim:   outcome.Aim,
	})

	for _, r := range it.Failed() {
		if r.Sink == "table" {
			log.Warn("DATA NOT SENDING...", "seq", it.Seq, "error", r.Err)
			continue
		}
		log.Warn("publish failed", "seq", it.Seq, "sink", r.Sink, "error", r.Err)
	}
	return it, nil
}

// Run steps until ctx is done. No error stops it; after a failed read it
// waits ReadRetryDelay so a missing camera does not spin the CPU.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := l.Step(ctx); err != nil {
			log.Warn("skipping iteration", "error", err)
			if l.ReadRetryDelay > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(l.ReadRetryDelay):
				}
			}
		}
	}
}

// Close releases the loop's Mats.
func (l *Loop) Close() error {
	if !l.ready {
		return nil
	}
	l.ready = false
	if err := l.frame.Close(); err != nil {
		return err
	}
	return l.annotated.Close()
}
