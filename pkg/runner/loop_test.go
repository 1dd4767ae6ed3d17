package runner

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/nerdyvision/pkg/aim"
	"github.com/teslashibe/nerdyvision/pkg/camera"
	"github.com/teslashibe/nerdyvision/pkg/publish"
	"github.com/teslashibe/nerdyvision/pkg/vision"
)

var errNoFrame = errors.New("no frame")

// scriptedSource fails the reads listed in fail and otherwise serves a
// small black frame.
type scriptedSource struct {
	reads   int
	fail    map[int]bool
	failAll bool
}

func (s *scriptedSource) Read(dst *gocv.Mat) error {
	s.reads++
	if s.failAll || s.fail[s.reads] {
		return camera.ErrReadFailed
	}
	m := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer m.Close()
	m.CopyTo(dst)
	return nil
}

func (s *scriptedSource) Close() error { return nil }

// fixedProcessor returns the same outcome for every frame.
type fixedProcessor struct {
	out   vision.Outcome
	calls int
}

func (p *fixedProcessor) Process(_ gocv.Mat, _ *gocv.Mat) vision.Outcome {
	p.calls++
	return p.out
}

// recorder remembers every frame it was handed and can fail on demand.
type recorder struct {
	name   string
	err    error
	frames []publish.Frame
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Publish(_ context.Context, f publish.Frame) publish.Report {
	r.frames = append(r.frames, f)
	if r.err != nil {
		return publish.Report{Sink: r.name, Outcome: publish.Failed, Err: r.err}
	}
	return publish.Report{Sink: r.name, Outcome: publish.Published}
}

// tableRecorder is a network table that keeps the last value per key.
type tableRecorder struct {
	numbers  map[string]float64
	booleans map[string]bool
	err      error
}

func newTableRecorder() *tableRecorder {
	return &tableRecorder{numbers: map[string]float64{}, booleans: map[string]bool{}}
}

func (t *tableRecorder) PutNumber(key string, v float64) error {
	if t.err != nil {
		return t.err
	}
	t.numbers[key] = v
	return nil
}

func (t *tableRecorder) PutBoolean(key string, v bool) error {
	if t.err != nil {
		return t.err
	}
	t.booleans[key] = v
	return nil
}

func TestStep_PublishesOutcome(t *testing.T) {
	want := aim.Result{AngleToTurn: 9.22, Found: true, Centroid: image.Pt(420, 240), PixelError: 100}
	proc := &fixedProcessor{out: vision.Outcome{Aim: want}}
	rec := &recorder{name: "rec"}

	loop := NewLoop(&scriptedSource{}, proc, publish.Multi{rec})
	defer loop.Close()

	it, err := loop.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if it.Seq != 1 {
		t.Errorf("Seq = %d, want 1", it.Seq)
	}
	if it.Aim != want {
		t.Errorf("Aim = %+v, want %+v", it.Aim, want)
	}
	if len(rec.frames) != 1 || rec.frames[0].Aim != want || rec.frames[0].Seq != 1 {
		t.Errorf("publisher got %+v", rec.frames)
	}
	if len(it.Reports) != 1 || !it.Reports[0].OK() {
		t.Errorf("Reports = %+v", it.Reports)
	}
}

func TestStep_ReadFailureSkipsIteration(t *testing.T) {
	src := &scriptedSource{fail: map[int]bool{2: true}}
	proc := &fixedProcessor{}
	rec := &recorder{name: "rec"}

	loop := NewLoop(src, proc, publish.Multi{rec})
	defer loop.Close()
	ctx := context.Background()

	if _, err := loop.Step(ctx); err != nil {
		t.Fatalf("first Step: %v", err)
	}

	it, err := loop.Step(ctx)
	if !errors.Is(err, camera.ErrReadFailed) {
		t.Fatalf("second Step error = %v, want ErrReadFailed", err)
	}
	if it.Seq != 2 {
		t.Errorf("Seq = %d, want 2", it.Seq)
	}

	if _, err := loop.Step(ctx); err != nil {
		t.Fatalf("third Step: %v", err)
	}

	if proc.calls != 2 {
		t.Errorf("processor calls = %d, want 2", proc.calls)
	}
	if len(rec.frames) != 2 || rec.frames[1].Seq != 3 {
		t.Errorf("published seqs = %v", seqs(rec.frames))
	}
}

func TestStep_FailedSinkDoesNotStopOthers(t *testing.T) {
	bad := &recorder{name: "table", err: errNoFrame}
	good := &recorder{name: "snapshot"}

	loop := NewLoop(&scriptedSource{}, &fixedProcessor{}, publish.Multi{bad, good})
	defer loop.Close()

	it, err := loop.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	failed := it.Failed()
	if len(failed) != 1 || failed[0].Sink != "table" {
		t.Errorf("Failed() = %+v", failed)
	}
	if len(good.frames) != 1 {
		t.Error("second sink was not called")
	}
}

func TestStep_RecordsRejection(t *testing.T) {
	proc := &fixedProcessor{out: vision.Outcome{Rejection: vision.RejectTooSmall, Contours: 1, Area: 484}}
	loop := NewLoop(&scriptedSource{}, proc, nil)
	defer loop.Close()

	it, err := loop.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if it.Rejection != vision.RejectTooSmall {
		t.Errorf("Rejection = %v", it.Rejection)
	}
	if it.Aim != (aim.Result{}) {
		t.Errorf("Aim = %+v, want zero", it.Aim)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopper := &cancelAfter{n: 3, cancel: cancel}

	loop := NewLoop(&scriptedSource{fail: map[int]bool{2: true}}, &fixedProcessor{}, publish.Multi{stopper})
	defer loop.Close()

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stopper.seen != 3 {
		t.Errorf("published %d frames, want 3", stopper.seen)
	}
}

func TestRun_WaitsAfterReadFailure(t *testing.T) {
	src := &scriptedSource{failAll: true}
	proc := &fixedProcessor{}

	loop := NewLoop(src, proc, nil)
	loop.ReadRetryDelay = 20 * time.Millisecond
	defer loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Run returned %v after cancel", elapsed)
	}

	// 200ms at one read per 20ms; an unpaced loop would make thousands.
	if src.reads < 2 || src.reads > 15 {
		t.Errorf("reads = %d, want about 10", src.reads)
	}
	if proc.calls != 0 {
		t.Errorf("processor calls = %d, want 0", proc.calls)
	}
}

func TestNewLoop_DefaultRetryDelay(t *testing.T) {
	loop := NewLoop(&scriptedSource{}, &fixedProcessor{}, nil)
	if loop.ReadRetryDelay != DefaultReadRetryDelay {
		t.Errorf("ReadRetryDelay = %v, want %v", loop.ReadRetryDelay, DefaultReadRetryDelay)
	}
}

// cancelAfter cancels the run once it has seen n frames.
type cancelAfter struct {
	n      int
	seen   int
	cancel context.CancelFunc
}

func (c *cancelAfter) Name() string { return "cancel" }

func (c *cancelAfter) Publish(_ context.Context, _ publish.Frame) publish.Report {
	c.seen++
	if c.seen == c.n {
		c.cancel()
	}
	return publish.Report{Sink: c.Name(), Outcome: publish.Published}
}

func seqs(frames []publish.Frame) []uint64 {
	out := make([]uint64, len(frames))
	for i, f := range frames {
		out[i] = f.Seq
	}
	return out
}

// greenFrame draws a filled tape-colored square of side 2*half centered
// on (cx, cy) onto a black 640x480 frame.
func greenFrame(t *testing.T, cx, cy, half int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })

	pts := []image.Point{
		image.Pt(cx-half, cy-half),
		image.Pt(cx+half, cy-half),
		image.Pt(cx+half, cy+half),
		image.Pt(cx-half, cy+half),
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(&m, pv, color.RGBA{R: 50, G: 200, B: 50})
	return m
}

func TestEndToEnd_TableValues(t *testing.T) {
	tests := []struct {
		name        string
		cx, cy      int
		half        int
		wantAngle   float64
		wantAligned bool
	}{
		{"right of center", 420, 240, 35, 9.22, false},
		{"centered", 320, 240, 35, 0, true},
		{"too small", 420, 240, 11, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			still, err := camera.NewStill(greenFrame(t, tt.cx, tt.cy, tt.half))
			if err != nil {
				t.Fatalf("NewStill: %v", err)
			}
			defer still.Close()

			pipeline := vision.NewPipeline(vision.DefaultConfig())
			defer pipeline.Close()

			table := newTableRecorder()
			loop := NewLoop(still, pipeline, publish.Multi{publish.NewTable(table)})
			defer loop.Close()

			// Same frame twice gives the same values.
			for i := 0; i < 2; i++ {
				if _, err := loop.Step(context.Background()); err != nil {
					t.Fatalf("Step %d: %v", i, err)
				}
				angle, ok := table.numbers[publish.AngleKey]
				if !ok {
					t.Fatalf("%s not written", publish.AngleKey)
				}
				if math.Abs(angle-tt.wantAngle) > 0.01 {
					t.Errorf("%s = %v, want %v", publish.AngleKey, angle, tt.wantAngle)
				}
				if got := table.booleans[publish.AlignedKey]; got != tt.wantAligned {
					t.Errorf("%s = %v, want %v", publish.AlignedKey, got, tt.wantAligned)
				}
			}
		})
	}
}

func TestEndToEnd_TableDownKeepsRunning(t *testing.T) {
	still, err := camera.NewStill(greenFrame(t, 420, 240, 35))
	if err != nil {
		t.Fatalf("NewStill: %v", err)
	}
	defer still.Close()

	pipeline := vision.NewPipeline(vision.DefaultConfig())
	defer pipeline.Close()

	table := newTableRecorder()
	table.err = errNoFrame
	after := &recorder{name: "after"}
	loop := NewLoop(still, pipeline, publish.Multi{publish.NewTable(table), after})
	defer loop.Close()

	it, err := loop.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	failed := it.Failed()
	if len(failed) != 1 || !errors.Is(failed[0].Err, publish.ErrPublishFailed) {
		t.Errorf("Failed() = %+v", failed)
	}
	if len(after.frames) != 1 || !after.frames[0].Aim.Found {
		t.Errorf("later sink frames = %+v", after.frames)
	}
}
