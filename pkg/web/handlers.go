package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/nerdyvision/pkg/hub"
)

const indexHTML = `<!doctype html>
<html>
<head><title>NerdyVision</title></head>
<body style="background:#111;color:#eee;font-family:monospace">
<img id="frame" width="640" height="480">
<pre id="aim"></pre>
<script>
const proto = location.protocol === "https:" ? "wss://" : "ws://";
const cam = new WebSocket(proto + location.host + "/ws/camera");
cam.binaryType = "blob";
cam.onmessage = (e) => {
  const img = document.getElementById("frame");
  URL.revokeObjectURL(img.src);
  img.src = URL.createObjectURL(e.data);
};
const aim = new WebSocket(proto + location.host + "/ws/aim");
aim.onmessage = (e) => {
  document.getElementById("aim").textContent = JSON.stringify(JSON.parse(e.data), null, 2);
};
</script>
</body>
</html>
`

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(indexHTML)
}

// handleStatus returns frame and client counts
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.RLock()
	frames := s.frames
	s.mu.RUnlock()

	return c.JSON(Status{
		Frames:        frames,
		CameraClients: s.cameraHub.ClientCount(),
		AimClients:    s.aimHub.ClientCount(),
	})
}

// handleAim returns the latest aim result
func (s *Server) handleAim(c *fiber.Ctx) error {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	return c.JSON(state)
}

// handleFrame returns the latest annotated frame as JPEG
func (s *Server) handleFrame(c *fiber.Ctx) error {
	s.mu.RLock()
	jpeg := s.jpeg
	s.mu.RUnlock()

	if jpeg == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no frame yet",
		})
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(jpeg)
}

// handleCameraWS streams annotated frames as binary messages
func (s *Server) handleCameraWS(c *websocket.Conn) {
	serve(s.cameraHub, c)
}

// handleAimWS streams aim results as JSON messages
func (s *Server) handleAimWS(c *websocket.Conn) {
	serve(s.aimHub, c)
}

func serve(h *hub.Hub, c *websocket.Conn) {
	client := hub.NewClient(h, c)
	if client == nil {
		c.Close()
		return
	}
	client.Run() // Blocks until disconnect
}
