package publish

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/nerdyvision/pkg/aim"
)

// FrameSink receives encoded frames. *web.Server implements it.
type FrameSink interface {
	UpdateFrame(jpeg []byte, result aim.Result)
}

// Dashboard JPEG-encodes the debug frame for the web dashboard.
type Dashboard struct {
	sink FrameSink
}

// NewDashboard creates a dashboard sink.
func NewDashboard(sink FrameSink) *Dashboard {
	return &Dashboard{sink: sink}
}

// Name implements Publisher.
func (d *Dashboard) Name() string {
	return "dashboard"
}

// Publish encodes and forwards the frame. The aim result is forwarded even
// when there is no image.
func (d *Dashboard) Publish(_ context.Context, f Frame) Report {
	if f.Image.Empty() {
		d.sink.UpdateFrame(nil, f.Aim)
		return published(d.Name())
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, f.Image)
	if err != nil {
		return failed(d.Name(), fmt.Errorf("encode jpeg: %w", err))
	}
	defer buf.Close()

	// The native buffer is freed on Close; the sink keeps its own copy
	jpeg := append([]byte(nil), buf.GetBytes()...)
	d.sink.UpdateFrame(jpeg, f.Aim)
	return published(d.Name())
}
