package web

import (
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/teslashibe/nerdyvision/pkg/aim"
)

func get(t *testing.T, s *Server, path string) *http.Response {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func TestFrameNotFoundBeforeFirstUpdate(t *testing.T) {
	s := NewServer("")
	if s.Addr() != DefaultAddr {
		t.Errorf("Addr() = %q, want %q", s.Addr(), DefaultAddr)
	}

	resp := get(t, s, "/api/frame.jpg")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUpdateFrameServesLatest(t *testing.T) {
	s := NewServer(":0")

	result := aim.Result{
		AngleToTurn: 9.22,
		Found:       true,
		Centroid:    image.Pt(420, 240),
		PixelError:  100,
	}
	s.UpdateFrame([]byte{0xff, 0xd8, 0xff, 0xd9}, result)

	resp := get(t, s, "/api/frame.jpg")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 4 || body[0] != 0xff {
		t.Errorf("body = %x", body)
	}

	resp = get(t, s, "/api/aim")
	var state AimState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Frame != 1 || state.AngleToTurn != 9.22 || state.Aligned || !state.Found {
		t.Errorf("state = %+v", state)
	}
}

func TestUpdateFrameNilKeepsPreviousJPEG(t *testing.T) {
	s := NewServer(":0")
	s.UpdateFrame([]byte{1, 2, 3}, aim.Result{})
	s.UpdateFrame(nil, aim.Result{AngleToTurn: 0.5, Aligned: true, Found: true})

	body, _ := io.ReadAll(get(t, s, "/api/frame.jpg").Body)
	if len(body) != 3 {
		t.Errorf("frame body = %v, want previous frame", body)
	}

	var status Status
	if err := json.NewDecoder(get(t, s, "/api/status").Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Frames != 2 {
		t.Errorf("frames = %d, want 2", status.Frames)
	}
}

func TestWebsocketRoutesRequireUpgrade(t *testing.T) {
	s := NewServer(":0")
	for _, path := range []string{"/ws/camera", "/ws/aim"} {
		resp := get(t, s, path)
		if resp.StatusCode != fiber.StatusUpgradeRequired {
			t.Errorf("%s status = %d, want 426", path, resp.StatusCode)
		}
	}
}

func TestIndexServed(t *testing.T) {
	resp := get(t, NewServer(":0"), "/")
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
