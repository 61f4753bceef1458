// Package viewer is the interactive raylib front end: a 2D globe with the
// wind layer attached, time stepping through a list of field files, a
// control panel and a hover readout.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/camera"
	"github.com/pthm-cable/windlayer/config"
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/host"
	"github.com/pthm-cable/windlayer/layer"
	"github.com/pthm-cable/windlayer/options"
	"github.com/pthm-cable/windlayer/particles"
	"github.com/pthm-cable/windlayer/renderer"
	"github.com/pthm-cable/windlayer/scene"
	"github.com/pthm-cable/windlayer/telemetry"
	"github.com/pthm-cable/windlayer/viewport"
)

// Options holds settings that come from the command line rather than the
// config file.
type Options struct {
	Files     []string
	Seed      int64
	LogStats  bool
	OutputDir string
}

// Viewer holds the complete viewer state.
type Viewer struct {
	cfg *config.Config

	cam    *camera.Camera
	host   *host.Host
	layer  *layer.Layer
	engine *particles.Engine

	store     *field.Store
	files     []string
	step      int
	stepTimer float64

	background *renderer.BackgroundRenderer
	flow       *renderer.FlowRenderer
	panel      *panel
	hud        *hud

	paused   bool
	dragging bool

	frame         int64
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
}

// New loads the first field and builds the layer. The raylib window must
// already be open.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	files := opts.Files
	if len(files) == 0 {
		files = cfg.Data.Files
	}
	if len(files) == 0 {
		return nil, errors.New("no wind data files")
	}

	store, err := field.NewStore(cfg.Data.CacheSize)
	if err != nil {
		return nil, err
	}
	f, err := store.Get(files[0])
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", files[0], err)
	}

	cam := camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height))
	v := &Viewer{
		cfg:        cfg,
		cam:        cam,
		host:       host.New(cam),
		store:      store,
		files:      files,
		background: renderer.NewBackgroundRenderer(),
		flow:       renderer.NewFlowRenderer(int32(cfg.Screen.Width)),
		panel:      newPanel(10, 10, 260),
		hud:        &hud{visible: true},
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:  telemetry.NewCollector(cfg.Telemetry.WindowSec, cfg.Derived.DT),
		logStats:   opts.LogStats || cfg.Telemetry.PerfLog,
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Engine.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	l, err := layer.New(v.host, f.Raw(), cfg.Layer, v.engineFactory, particles.Context{Seed: seed})
	if err != nil {
		return nil, err
	}
	v.layer = l
	l.AddEventListener(layer.DataChange, func(layer.Event) { v.collector.RecordDataChange() })
	l.AddEventListener(layer.OptionsChange, func(e layer.Event) {
		v.collector.RecordOptionsChange()
		slog.Info("options changed", "options", *e.Options)
	})

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.Telemetry.OutputDir
	}
	v.outputManager, err = telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := v.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if cfg.Camera.ZoomToData {
		l.ZoomTo(v.flyDuration())
	}

	slog.Info("viewer started", "files", len(files), "seed", seed, "output_dir", v.outputManager.Dir())
	return v, nil
}

// engineFactory wraps particles.Factory and keeps the concrete engine so
// the viewer can step it.
func (v *Viewer) engineFactory(ctx layer.RenderContext, f *field.Field, o options.Options, vp viewport.State, h scene.Host) (layer.Engine, error) {
	e, err := particles.Factory(ctx, f, o, vp, h)
	if err != nil {
		return nil, err
	}
	v.engine = e.(*particles.Engine)
	return e, nil
}

func (v *Viewer) flyDuration() time.Duration {
	return time.Duration(v.cfg.Camera.FlyDuration * float64(time.Second))
}

// Frame returns the number of frames run.
func (v *Viewer) Frame() int64 {
	return v.frame
}

// Update runs one frame of input, camera animation, viewport tracking and
// advection.
func (v *Viewer) Update() {
	dt := float64(rl.GetFrameTime())
	v.perf.StartTick()

	v.perf.StartPhase(telemetry.PhaseInput)
	v.handleInput()

	v.perf.StartPhase(telemetry.PhaseCamera)
	v.host.Update(dt)
	v.advanceTimeStep(dt)

	v.perf.StartPhase(telemetry.PhaseViewport)
	v.host.CheckCamera()

	v.perf.StartPhase(telemetry.PhaseAdvect)
	if !v.paused {
		for i := 0; i < v.cfg.Engine.StepsPerFrame; i++ {
			v.engine.Step()
		}
	}

	v.frame++
	v.flushTelemetry()
}

// Draw renders the frame.
func (v *Viewer) Draw() {
	v.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	v.background.Draw(v.cam)

	lines := 0
	for _, d := range v.host.Drawables() {
		switch d := d.(type) {
		case *particles.Trails:
			lines += v.flow.Draw(d, v.cam)
		case *particles.Outline:
			renderer.DrawOutline(d, v.cam)
		}
	}
	v.hud.lines = lines

	if v.host.TakeRenderRequest() {
		v.hud.refresh(v)
	}
	v.hud.Draw(v)
	v.panel.Draw(v)
	rl.EndDrawing()

	v.perf.EndTick()
	v.perf.RecordFrame()
}

// advanceTimeStep moves to the next file every StepInterval seconds.
func (v *Viewer) advanceTimeStep(dt float64) {
	interval := v.cfg.Data.StepInterval
	if interval <= 0 || v.paused || len(v.files) < 2 {
		return
	}
	v.stepTimer += dt
	if v.stepTimer >= interval {
		v.stepTimer -= interval
		v.stepBy(1)
	}
}

// stepBy switches the layer to the file delta steps away, wrapping around.
func (v *Viewer) stepBy(delta int) {
	n := len(v.files)
	if n < 2 {
		return
	}
	next := ((v.step+delta)%n + n) % n
	f, err := v.store.Get(v.files[next])
	if err != nil {
		slog.Error("failed to load time step", "path", v.files[next], "error", err)
		return
	}
	if err := v.layer.UpdateWindData(f.Raw()); err != nil {
		slog.Error("failed to apply time step", "path", v.files[next], "error", err)
		return
	}
	v.step = next
	slog.Debug("time step", "index", next, "path", v.files[next], "cached", v.store.Len())
}

// Unload destroys the layer, which drops its listeners, and closes
// telemetry output.
func (v *Viewer) Unload() {
	v.layer.Destroy()
	v.store.Purge()
	if err := v.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
