package vision

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/teslashibe/nerdyvision/pkg/aim"
)

// Outcome is everything one frame produced.
type Outcome struct {
	Aim       aim.Result    // Default (0, false) unless a target was accepted
	Target    []image.Point // Accepted polygon, nil when rejected
	Area      float64       // Area of the largest contour, 0 if none
	Contours  int           // Number of external contours found
	Rejection Rejection     // Why no target was accepted
}

// Pipeline runs every stage over a frame. It holds scratch Mats so a
// long-running loop does not reallocate them; it is not safe for
// concurrent use.
type Pipeline struct {
	config Config
	filter ShapeFilter
	calc   *aim.Calculator

	kernel  gocv.Mat
	cleaned gocv.Mat
	mask    gocv.Mat
}

// NewPipeline creates a pipeline. Call Close to release its Mats.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		config:  cfg,
		filter:  NewShapeFilter(cfg),
		calc:    aim.NewCalculator(cfg.Aim),
		kernel:  NewKernel(cfg.KernelSize),
		cleaned: gocv.NewMat(),
		mask:    gocv.NewMat(),
	}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Calculator returns the aim calculator used for accepted targets.
func (p *Pipeline) Calculator() *aim.Calculator {
	return p.calc
}

// Process finds the target in frame. annotated receives the color-masked
// frame with the crosshair and, when found, the target drawn on it.
func (p *Pipeline) Process(frame gocv.Mat, annotated *gocv.Mat) Outcome {
	Preprocess(frame, &p.cleaned, p.kernel)
	Segment(p.cleaned, p.config.Lower, p.config.Upper, &p.mask, annotated)
	DrawCrosshair(annotated, p.config.Aim.FrameWidth, p.config.Aim.FrameHeight)

	contours := FindContours(p.mask)
	out := Outcome{Contours: len(contours)}

	poly, area, reason := p.filter.Select(contours)
	out.Area = area
	if reason != RejectNone {
		out.Rejection = reason
		return out
	}

	centroid, reason := Locate(poly)
	if reason != RejectNone {
		out.Rejection = reason
		return out
	}

	DrawTarget(annotated, poly, centroid)

	out.Target = poly
	out.Aim = p.calc.Solve(centroid)
	return out
}

// Close releases the pipeline's Mats.
func (p *Pipeline) Close() error {
	p.kernel.Close()
	p.cleaned.Close()
	p.mask.Close()
	return nil
}
