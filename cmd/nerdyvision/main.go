// NerdyVision - retro-reflective target tracking for the FRC robot
// Finds the green-lit vision target, computes the angle to turn and
// publishes it to the robot's network table every frame.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/teslashibe/nerdyvision/pkg/runner"
	"github.com/teslashibe/nerdyvision/pkg/web"
)

func main() {
	cfg := parseFlags()

	app, err := runner.New(cfg)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags parses command line flags and returns configuration.
// Flags override environment variables, which override defaults.
func parseFlags() runner.Config {
	cfg := runner.DefaultConfig()
	cfg.LoadEnvConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	server := flag.String("server", "", "Network table server (overrides NT_SERVER env var)")
	device := flag.Int("camera", cfg.Camera.DeviceID, "Camera device index (overrides CAMERA_DEVICE env var)")
	image := flag.String("image", "", "Process a still image instead of the camera")
	headless := flag.Bool("headless", false, "Disable the debug window")
	dashboard := flag.String("dashboard", "", "Serve the web dashboard on this address, e.g. "+web.DefaultAddr)
	streamDir := flag.String("stream-dir", "", "Snapshot directory (overrides STREAM_DIR env var)")
	flag.Parse()

	cfg.Debug, cfg.Headless = *debug, *headless
	cfg.Camera.DeviceID = *device
	cfg.ImagePath = *image
	cfg.DashboardAddr = *dashboard
	if *server != "" {
		cfg.Server = *server
	}
	if *streamDir != "" {
		cfg.StreamDir = *streamDir
	}
	return cfg
}
