package publish

import (
	"context"

	"gocv.io/x/gocv"
)

// WindowName is the debug window title.
const WindowName = "NerdyVision"

// Window shows the annotated frame in a desktop window. The 1 ms key poll
// after each frame is what lets the window repaint.
type Window struct {
	window *gocv.Window
}

// NewWindow opens the debug window. It needs a display.
func NewWindow(name string) *Window {
	return &Window{window: gocv.NewWindow(name)}
}

// Name implements Publisher.
func (w *Window) Name() string {
	return "window"
}

// Publish shows the frame and polls the keyboard for 1 ms.
func (w *Window) Publish(_ context.Context, f Frame) Report {
	if f.Image.Empty() {
		return skipped(w.Name())
	}
	w.window.IMShow(f.Image)
	w.window.WaitKey(1)
	return published(w.Name())
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}
