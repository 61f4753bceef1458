// Package layer ties a wind field, its options, the viewport tracker and a
// particle engine into one scene layer with a create/update/destroy
// lifecycle.
package layer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/windlayer/events"
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/options"
	"github.com/pthm-cable/windlayer/scene"
	"github.com/pthm-cable/windlayer/viewport"
)

// CameraChangeThreshold is the fraction of the view the camera must move
// before the viewport is recomputed.
const CameraChangeThreshold = 0.01

// Layer is a wind particle layer attached to a host scene. All methods must
// be called from the host's event loop.
type Layer struct {
	host    scene.Host
	field   *field.Field
	opts    options.Options
	tracker *viewport.Tracker
	engine  Engine
	bus     *events.Bus[EventKind, Event]

	drawables []scene.Drawable
	cancels   []func()
	show      bool
	added     bool
	destroyed bool
}

// New normalizes raw, merges partial over the default options, computes the
// initial viewport, builds the engine and adds its drawables to the scene.
func New(host scene.Host, raw field.Raw, partial options.Partial, factory EngineFactory, ctx RenderContext) (*Layer, error) {
	opts := options.FromDefaults(partial)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layer options: %w", err)
	}
	f, err := field.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing wind data: %w", err)
	}

	l := &Layer{
		host:  host,
		field: f,
		opts:  opts,
		bus:   events.NewBus[EventKind, Event](),
		show:  true,
	}
	l.tracker = viewport.NewTracker(host, l.bounds)
	l.tracker.Recompute()

	engine, err := factory(ctx, f, opts.Clone(), l.tracker.State(), host)
	if err != nil {
		return nil, fmt.Errorf("creating particle engine: %w", err)
	}
	l.engine = engine
	l.tracker.SetApplier(engine)
	l.drawables = engine.Drawables()

	l.cancels = append(l.cancels,
		host.OnCameraChanged(CameraChangeThreshold, l.tracker.Recompute),
		host.OnMorphComplete(l.tracker.Recompute),
		host.OnResize(l.tracker.Recompute),
	)

	l.Add()

	slog.Info("wind layer created",
		"field", f,
		"options", opts,
		"viewport", l.tracker.State(),
		"drawables", len(l.drawables),
	)
	return l, nil
}

func (l *Layer) bounds() field.Bounds {
	return l.field.Bounds
}

// WindData returns the current normalized field. Treat it as read-only.
func (l *Layer) WindData() *field.Field {
	return l.field
}

// Options returns a copy of the current option snapshot.
func (l *Layer) Options() options.Options {
	return l.opts.Clone()
}

// Viewport returns the current viewport state.
func (l *Layer) Viewport() viewport.State {
	return l.tracker.State()
}

// OffGlobe returns how many viewport recomputes had a corner miss the globe.
func (l *Layer) OffGlobe() int {
	return l.tracker.OffGlobe
}

// Drawables returns the engine's drawables.
func (l *Layer) Drawables() []scene.Drawable {
	return l.drawables
}

// DataAtLonLat queries the current field at (lon, lat). ok is false outside
// the field bounds.
func (l *Layer) DataAtLonLat(lon, lat float64) (field.Result, bool) {
	return field.Query(l.field, l.opts.FlipY, lon, lat)
}

// UpdateWindData normalizes raw and swaps it in. On error the previous field
// stays current. After Destroy it does nothing.
func (l *Layer) UpdateWindData(raw field.Raw) error {
	if l.destroyed {
		slog.Debug("wind data update after destroy ignored")
		return nil
	}
	f, err := field.Normalize(raw)
	if err != nil {
		return fmt.Errorf("updating wind data: %w", err)
	}

	l.field = f
	old := l.drawables
	l.engine.UpdateData(f)
	l.syncDrawables(old)
	// The bounds may have moved, so the visible window must be rederived.
	l.tracker.Recompute()
	l.host.RequestRender()

	slog.Debug("wind data updated", "field", f)
	l.bus.Publish(DataChange, Event{Kind: DataChange, Field: f})
	return nil
}

// UpdateOptions merges p onto the current snapshot and publishes the result.
// An invalid result is rejected and the previous snapshot kept. After
// Destroy it does nothing.
func (l *Layer) UpdateOptions(p options.Partial) error {
	if l.destroyed {
		slog.Debug("options update after destroy ignored")
		return nil
	}
	merged := options.Merge(l.opts, p)
	if err := merged.Validate(); err != nil {
		return fmt.Errorf("updating options: %w", err)
	}

	l.opts = merged
	old := l.drawables
	l.engine.UpdateOptions(merged.Clone())
	l.syncDrawables(old)
	l.host.RequestRender()

	slog.Debug("options updated", "options", merged)
	snapshot := merged
	l.bus.Publish(OptionsChange, Event{Kind: OptionsChange, Options: &snapshot})
	return nil
}

// syncDrawables swaps scene membership when the engine rebuilt its
// drawables during an update.
func (l *Layer) syncDrawables(old []scene.Drawable) {
	next := l.engine.Drawables()
	if sameDrawables(old, next) {
		return
	}
	if l.added {
		for _, d := range old {
			l.host.Remove(d)
		}
	}
	for _, d := range next {
		if d.Show() != l.show {
			d.SetShow(l.show)
		}
		if l.added {
			l.host.Add(d)
		}
	}
	l.drawables = next
}

func sameDrawables(a, b []scene.Drawable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Show reports whether the layer is visible.
func (l *Layer) Show() bool {
	return l.show
}

// SetShow sets visibility on every drawable. Setting the current value does
// nothing.
func (l *Layer) SetShow(show bool) {
	if l.destroyed || show == l.show {
		return
	}
	l.show = show
	for _, d := range l.drawables {
		d.SetShow(show)
	}
	l.host.RequestRender()
}

// ZoomTo flies the camera to the field bounds.
func (l *Layer) ZoomTo(duration time.Duration) {
	if l.destroyed {
		return
	}
	b := l.field.Bounds
	l.host.FlyTo(scene.RectangleFromDegrees(b.West, b.South, b.East, b.North), duration)
}

// Add attaches the drawables to the scene. Repeated calls do nothing.
func (l *Layer) Add() {
	if l.destroyed || l.added {
		return
	}
	for _, d := range l.drawables {
		l.host.Add(d)
	}
	l.added = true
	l.host.RequestRender()
}

// Remove detaches the drawables from the scene. Repeated calls do nothing.
func (l *Layer) Remove() {
	if l.destroyed || !l.added {
		return
	}
	for _, d := range l.drawables {
		l.host.Remove(d)
	}
	l.added = false
	l.host.RequestRender()
}

// IsDestroyed reports whether Destroy has been called.
func (l *Layer) IsDestroyed() bool {
	return l.destroyed
}

// Destroy detaches the drawables, drops the camera, morph and resize
// listeners, destroys the engine and clears event subscriptions. Call it at
// most once; later calls are ignored.
func (l *Layer) Destroy() {
	if l.destroyed {
		slog.Warn("wind layer destroyed twice")
		return
	}
	l.Remove()
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = nil
	l.engine.Destroy()
	l.bus.Clear()
	l.destroyed = true
	slog.Info("wind layer destroyed")
}

// AddEventListener subscribes fn to kind and returns a handle for
// RemoveEventListener.
func (l *Layer) AddEventListener(kind EventKind, fn Listener) events.Handle {
	if l.destroyed {
		return 0
	}
	return l.bus.Subscribe(kind, fn)
}

// RemoveEventListener drops a subscription made with AddEventListener.
func (l *Layer) RemoveEventListener(kind EventKind, h events.Handle) {
	l.bus.Unsubscribe(kind, h)
}
