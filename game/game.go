package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/folio/bridge"
	"github.com/pthm-cable/folio/camera"
	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/remote"
	"github.com/pthm-cable/folio/renderer"
	"github.com/pthm-cable/folio/systems"
	"github.com/pthm-cable/folio/telemetry"
	"github.com/pthm-cable/folio/ui"
)

// Options configures a Game beyond the loaded config.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	ControlAddr    string // Empty disables the remote control server
}

// Game holds the complete application state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	camera   *camera.Camera
	controls *systems.Controls
	field    *systems.Field
	frame    *bridge.Frame

	// Rendering (nil in headless mode)
	spheres  *renderer.SphereBatch
	panel    *ui.ControlsPanel
	hud      *ui.HUD
	overlays *ui.OverlayRegistry

	// Telemetry
	perf       *telemetry.PerfCollector
	fieldStats *telemetry.FieldCollector
	output     *telemetry.OutputManager
	logStats   bool

	remote *remote.Server

	headless     bool
	dragging     bool
	screenWidth  float32
	screenHeight float32
	unloaded     bool
}

// NewGameWithOptions creates a game. In graphical mode the window must already exist.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	w, h := cfg.Derived.ScreenW32, cfg.Derived.ScreenH32
	g := &Game{
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		camera:       camera.New(w, h, cfg.Camera.Distance, cfg.Camera.FovY),
		headless:     opts.Headless,
		logStats:     opts.LogStats,
		screenWidth:  w,
		screenHeight: h,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
	}

	g.controls = systems.NewControls(systems.Params{
		Noise:    cfg.Controls.Noise,
		Friction: cfg.Controls.Friction,
	})
	g.controls.SetViewport(w, h)
	if err := g.controls.Apply(cfg.Controls.Radial, cfg.Controls.Tangential); err != nil {
		slog.Warn("default force profiles invalid, starting idle", "error", err)
	}

	g.field = systems.NewField(cfg.Field, g.spawnBounds(), g.controls, g.camera.Project, g.rng)
	g.frame = bridge.New(g.field.Count())

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.fieldStats = telemetry.NewFieldCollector(statsWindow)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	if !g.headless {
		g.spheres = renderer.NewSphereBatch()
		g.spheres.Init(cfg.Render)
		g.panel = ui.NewControlsPanel(g.controls, cfg.Controls, 10, 10)
		g.hud = ui.NewHUD()
		g.overlays = ui.NewOverlayRegistry(keyFor(cfg.Controls.ToggleKey), cfg.Controls.ToggleKey)
	}

	if opts.ControlAddr != "" {
		g.remote = remote.NewServer(g.controls)
		if _, err := g.remote.Start(opts.ControlAddr); err != nil {
			g.output.Close()
			return nil, fmt.Errorf("starting remote control: %w", err)
		}
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"particles", g.field.Count(),
		"state", g.controls.State().String(),
		"headless", g.headless,
	)
	return g, nil
}

// spawnBounds is the part of the z=0 plane visible through the camera.
func (g *Game) spawnBounds() systems.Bounds {
	w, h := g.camera.VisibleSize()
	return systems.Bounds{Width: w, Height: h}
}

// Update handles input, advances the field one step and captures the frame.
func (g *Game) Update(dt float64) {
	if g.unloaded {
		return
	}
	g.perf.StartFrame()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	g.step(dt)
	g.flushTelemetry()
}

// UpdateHeadless steps the field with the configured fixed dt, without input.
func (g *Game) UpdateHeadless() {
	if g.unloaded {
		return
	}
	g.perf.StartFrame()
	g.step(g.cfg.Field.HeadlessDT)
	g.perf.EndFrame()
	g.flushTelemetry()
}

func (g *Game) step(dt float64) {
	g.perf.StartPhase(telemetry.PhaseStep)
	g.field.Step(dt)
	g.fieldStats.Record(dt, g.field.Stats())

	g.perf.StartPhase(telemetry.PhaseBridge)
	if err := g.frame.Capture(g.field); err != nil {
		slog.Error("frame capture failed", "error", err)
	}
}

// Tick returns the number of simulation steps taken.
func (g *Game) Tick() int64 {
	return g.field.Tick()
}

// Controls returns the shared field controls.
func (g *Game) Controls() *systems.Controls {
	return g.controls
}

// Unload stops background services and releases resources. Updates after
// Unload are no-ops.
func (g *Game) Unload() {
	if g.unloaded {
		return
	}
	g.unloaded = true

	if g.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := g.remote.Stop(ctx); err != nil {
			slog.Warn("remote control shutdown", "error", err)
		}
		cancel()
	}
	if g.spheres != nil {
		g.spheres.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Warn("closing output", "error", err)
	}
	slog.Info("game unloaded", "tick", g.field.Tick())
}
