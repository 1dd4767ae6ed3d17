package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// SnapshotFile is the file name overwritten every frame.
const SnapshotFile = "img.jpg"

var errWriteImage = errors.New("image write failed")

// Snapshot overwrites one JPEG on disk with the latest debug frame, for
// an external MJPEG streamer to serve.
type Snapshot struct {
	path string
}

// NewSnapshot makes sure dir exists and returns a sink writing dir/img.jpg.
func NewSnapshot(dir string) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create stream dir: %w", err)
	}
	return &Snapshot{path: filepath.Join(dir, SnapshotFile)}, nil
}

// Path returns the snapshot file path.
func (s *Snapshot) Path() string {
	return s.path
}

// Name implements Publisher.
func (s *Snapshot) Name() string {
	return "snapshot"
}

// Publish writes the annotated frame.
func (s *Snapshot) Publish(_ context.Context, f Frame) Report {
	if f.Image.Empty() {
		return skipped(s.Name())
	}
	if ok := gocv.IMWrite(s.path, f.Image); !ok {
		return failed(s.Name(), fmt.Errorf("%w: %s", errWriteImage, s.path))
	}
	return published(s.Name())
}
