// Package host implements the scene the wind layer attaches to on top of a
// camera.Camera. It holds the drawable list and the camera, morph and resize
// subscriptions, and is driven once per frame by the viewer.
package host

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/windlayer/camera"
	"github.com/pthm-cable/windlayer/events"
	"github.com/pthm-cable/windlayer/scene"
)

type signal uint8

const (
	morphComplete signal = iota
	resized
)

type cameraSub struct {
	threshold float64
	last      camera.View
	fn        func()
	cancelled bool
}

// Host is a scene.Host over a camera. Not safe for concurrent use.
type Host struct {
	cam *camera.Camera

	signals    *events.Bus[signal, struct{}]
	cameraSubs []*cameraSub

	drawables []scene.Drawable
	render    bool
}

var _ scene.Host = (*Host)(nil)

// New creates a host for cam.
func New(cam *camera.Camera) *Host {
	return &Host{
		cam:     cam,
		signals: events.NewBus[signal, struct{}](),
		render:  true,
	}
}

// Camera returns the host camera.
func (h *Host) Camera() *camera.Camera {
	return h.cam
}

func (h *Host) PickLonLat(x, y float64) (float64, float64, bool) {
	return h.cam.PickLonLat(x, y)
}

func (h *Host) CanvasSize() (float64, float64) {
	return h.cam.CanvasSize()
}

func (h *Host) Mode() scene.Mode {
	return h.cam.Mode()
}

// OnCameraChanged registers fn to run when the view has moved more than
// threshold since fn last ran.
func (h *Host) OnCameraChanged(threshold float64, fn func()) func() {
	sub := &cameraSub{threshold: threshold, last: h.cam.View(), fn: fn}
	h.cameraSubs = append(h.cameraSubs, sub)
	return func() {
		sub.cancelled = true
		h.cameraSubs = slices.DeleteFunc(h.cameraSubs, func(s *cameraSub) bool { return s == sub })
	}
}

func (h *Host) OnMorphComplete(fn func()) func() {
	return h.subscribe(morphComplete, fn)
}

func (h *Host) OnResize(fn func()) func() {
	return h.subscribe(resized, fn)
}

func (h *Host) subscribe(s signal, fn func()) func() {
	handle := h.signals.Subscribe(s, func(struct{}) { fn() })
	return func() { h.signals.Unsubscribe(s, handle) }
}

// Add attaches d. Adding a drawable twice keeps one entry.
func (h *Host) Add(d scene.Drawable) {
	if slices.Contains(h.drawables, d) {
		return
	}
	h.drawables = append(h.drawables, d)
}

func (h *Host) Remove(d scene.Drawable) {
	h.drawables = slices.DeleteFunc(h.drawables, func(x scene.Drawable) bool { return x == d })
}

// Drawables returns the attached drawables in insertion order.
func (h *Host) Drawables() []scene.Drawable {
	return h.drawables
}

func (h *Host) RequestRender() {
	h.render = true
}

// TakeRenderRequest reports whether a render was requested since the last
// call and clears the request.
func (h *Host) TakeRenderRequest() bool {
	r := h.render
	h.render = false
	return r
}

func (h *Host) FlyTo(rect scene.Rectangle, duration time.Duration) {
	slog.Debug("fly to", "west", rect.West, "south", rect.South, "east", rect.East, "north", rect.North, "duration", duration)
	h.cam.FlyTo(rect, duration.Seconds())
	h.render = true
}

// Update advances camera animations by dt seconds and fires the morph
// notification when a transition ends. Camera subscribers run in
// CheckCamera.
func (h *Host) Update(dt float64) {
	if h.cam.Update(dt) {
		slog.Debug("morph complete", "mode", h.cam.Mode())
		h.signals.Publish(morphComplete, struct{}{})
		h.render = true
	}
}

// CheckCamera notifies camera subscribers whose threshold was crossed.
func (h *Host) CheckCamera() {
	for _, sub := range slices.Clone(h.cameraSubs) {
		if sub.cancelled || !h.cam.ChangedSince(sub.last, sub.threshold) {
			continue
		}
		sub.last = h.cam.View()
		sub.fn()
		h.render = true
	}
}

// Resize resizes the camera viewport and notifies resize subscribers if the
// size changed.
func (h *Host) Resize(width, height float64) {
	if !h.cam.Resize(width, height) {
		return
	}
	h.signals.Publish(resized, struct{}{})
	h.render = true
}
