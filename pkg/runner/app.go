package runner

import (
	"context"
	"fmt"
	"os"

	"github.com/teslashibe/nerdyvision/internal/log"
	"github.com/teslashibe/nerdyvision/pkg/camera"
	"github.com/teslashibe/nerdyvision/pkg/networktables"
	"github.com/teslashibe/nerdyvision/pkg/publish"
	"github.com/teslashibe/nerdyvision/pkg/vision"
	"github.com/teslashibe/nerdyvision/pkg/web"
)

// App owns every long-lived component: the frame source, the pipeline,
// the network table connection, the window and the dashboard.
type App struct {
	config Config

	source    camera.Source
	pipeline  *vision.Pipeline
	nt        *networktables.Client
	window    *publish.Window
	dashboard *web.Server
	loop      *Loop
}

// New validates cfg and creates the application.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Init(cfg.Level())
	return &App{config: cfg}, nil
}

// Config returns the application configuration.
func (a *App) Config() Config {
	return a.config
}

// Init opens the frame source and connects the outputs.
// Call this after New() and before Run(). Only a missing frame source is
// fatal; an unreachable network table server is retried in the background.
func (a *App) Init(ctx context.Context) error {
	fmt.Println("🎯 NerdyVision")
	fmt.Println("==============")
	log.Debug("debug logging enabled")

	if err := a.openSource(); err != nil {
		return err
	}

	a.pipeline = vision.NewPipeline(a.config.Vision)

	fmt.Printf("📡 Connecting to %s... ", a.config.Server)
	a.nt = networktables.NewClient(networktables.DefaultConfig(a.config.Server))
	if err := a.nt.Connect(ctx); err != nil {
		fmt.Println("⚠️  not connected, will retry")
		log.Warn("network table connect failed", "server", a.config.Server, "error", err)
	} else {
		fmt.Println("✅")
	}

	sinks, err := a.buildSinks()
	if err != nil {
		return err
	}

	a.loop = NewLoop(a.source, a.pipeline, sinks)
	return nil
}

func (a *App) openSource() error {
	if a.config.ImagePath != "" {
		fmt.Printf("🖼️  Using still image %s\n", a.config.ImagePath)
		still, err := camera.OpenStill(a.config.ImagePath)
		if err != nil {
			return fmt.Errorf("image source: %w", err)
		}
		a.source = still
		return nil
	}

	fmt.Printf("📹 Opening camera %d... ", a.config.Camera.DeviceID)
	dev, err := camera.Open(a.config.Camera)
	if err != nil {
		fmt.Println("❌")
		return fmt.Errorf("camera: %w", err)
	}
	fmt.Println("✅")
	a.source = dev
	return nil
}

func (a *App) buildSinks() (publish.Multi, error) {
	sinks := publish.Multi{
		publish.NewTable(a.nt.Table(publish.TableName)),
	}

	snap, err := publish.NewSnapshot(a.config.StreamDir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	sinks = append(sinks, snap)

	sinks = append(sinks, publish.NewConsole(os.Stdout, a.pipeline.Calculator()))

	if !a.config.Headless {
		a.window = publish.NewWindow(publish.WindowName)
		sinks = append(sinks, a.window)
	}

	if a.config.DashboardAddr != "" {
		a.dashboard = web.NewServer(a.config.DashboardAddr)
		sinks = append(sinks, publish.NewDashboard(a.dashboard))
	}
	return sinks, nil
}

// Step runs one iteration of the loop.
func (a *App) Step(ctx context.Context) (Iteration, error) {
	return a.loop.Step(ctx)
}

// Run starts the dashboard, if enabled, and runs the loop.
// Blocks until context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.loop == nil {
		return fmt.Errorf("run: app not initialized")
	}
	if a.dashboard != nil {
		a.dashboard.StartAsync(ctx)
	}

	fmt.Println("\n🔄 Tracking target (Ctrl+C to stop)")
	return a.loop.Run(ctx)
}

// Shutdown releases every component.
func (a *App) Shutdown() {
	fmt.Println("\n👋 Goodbye!")

	if a.loop != nil {
		a.loop.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	if a.nt != nil {
		a.nt.Close()
	}
	if a.pipeline != nil {
		a.pipeline.Close()
	}
	if a.source != nil {
		a.source.Close()
	}
	if a.dashboard != nil {
		a.dashboard.Shutdown()
	}
}
