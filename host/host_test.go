package host

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/windlayer/camera"
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/layer"
	"github.com/pthm-cable/windlayer/options"
	"github.com/pthm-cable/windlayer/particles"
	"github.com/pthm-cable/windlayer/scene"
)

type drawable struct{ show bool }

func (d *drawable) Show() bool        { return d.show }
func (d *drawable) SetShow(show bool) { d.show = show }

func TestAddRemove(t *testing.T) {
	h := New(camera.New(720, 360))
	a, b := &drawable{}, &drawable{}

	h.Add(a)
	h.Add(b)
	h.Add(a)
	if len(h.Drawables()) != 2 {
		t.Fatalf("expected 2 drawables, got %d", len(h.Drawables()))
	}
	h.Remove(a)
	if len(h.Drawables()) != 1 || h.Drawables()[0] != b {
		t.Errorf("expected only b left, got %v", h.Drawables())
	}
	h.Remove(a)
	if len(h.Drawables()) != 1 {
		t.Errorf("expected removing twice to do nothing")
	}
}

func TestOnCameraChanged_Threshold(t *testing.T) {
	cam := camera.New(1000, 500)
	h := New(cam)
	calls := 0
	cancel := h.OnCameraChanged(0.01, func() { calls++ })

	cam.Pan(5, 0)
	h.CheckCamera()
	if calls != 0 {
		t.Errorf("expected no call under the threshold, got %d", calls)
	}

	cam.Pan(10, 0)
	h.CheckCamera()
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}

	// The baseline moves to the view at the last call.
	h.CheckCamera()
	if calls != 1 {
		t.Errorf("expected no repeat call, got %d", calls)
	}

	cancel()
	cam.Pan(100, 0)
	h.CheckCamera()
	if calls != 1 {
		t.Errorf("expected no call after cancel, got %d", calls)
	}
}

func TestOnCameraChanged_CancelDuringDispatch(t *testing.T) {
	cam := camera.New(1000, 500)
	h := New(cam)
	second := 0
	var cancelSecond func()
	h.OnCameraChanged(0.01, func() { cancelSecond() })
	cancelSecond = h.OnCameraChanged(0.01, func() { second++ })

	cam.Pan(100, 0)
	h.CheckCamera()
	if second != 0 {
		t.Errorf("expected cancelled subscriber to be skipped, got %d calls", second)
	}
}

func TestUpdate_MorphComplete(t *testing.T) {
	cam := camera.New(1000, 500)
	h := New(cam)
	morphs := 0
	h.OnMorphComplete(func() { morphs++ })

	cam.Morph(scene.Columbus, 0.5)
	h.Update(0.25)
	if morphs != 0 {
		t.Errorf("expected morph still running")
	}
	h.Update(0.25)
	if morphs != 1 {
		t.Errorf("expected 1 morph complete, got %d", morphs)
	}
	if h.Mode() != scene.Columbus {
		t.Errorf("expected columbus, got %v", h.Mode())
	}
}

func TestResize(t *testing.T) {
	h := New(camera.New(1000, 500))
	resizes := 0
	cancel := h.OnResize(func() { resizes++ })

	h.Resize(1000, 500)
	if resizes != 0 {
		t.Errorf("expected no call for the same size")
	}
	h.Resize(800, 600)
	if resizes != 1 {
		t.Errorf("expected 1 call, got %d", resizes)
	}
	if w, hh := h.CanvasSize(); w != 800 || hh != 600 {
		t.Errorf("expected 800x600, got %vx%v", w, hh)
	}

	cancel()
	h.Resize(640, 480)
	if resizes != 1 {
		t.Errorf("expected no call after cancel, got %d", resizes)
	}
}

func TestRenderRequest(t *testing.T) {
	h := New(camera.New(1000, 500))
	if !h.TakeRenderRequest() {
		t.Errorf("expected an initial render request")
	}
	if h.TakeRenderRequest() {
		t.Errorf("expected request cleared")
	}
	h.RequestRender()
	if !h.TakeRenderRequest() {
		t.Errorf("expected a render request")
	}
}

func TestFlyTo(t *testing.T) {
	cam := camera.New(1000, 500)
	h := New(cam)
	h.FlyTo(scene.RectangleFromDegrees(10, 20, 30, 30), 500*time.Millisecond)

	if !cam.Flying() {
		t.Fatalf("expected the camera to fly")
	}
	h.Update(0.6)
	if cam.Flying() {
		t.Errorf("expected the flight to end after its duration")
	}
}

func regionalRaw() field.Raw {
	const w, h = 4, 4
	raw := field.Raw{
		U:      field.Axis{Array: make([]float32, w*h)},
		V:      field.Axis{Array: make([]float32, w*h)},
		Width:  w,
		Height: h,
		Bounds: field.Bounds{West: -20, East: 20, South: -10, North: 10},
	}
	for i := range raw.U.Array {
		raw.U.Array[i] = float32(i)
	}
	return raw
}

func TestLayerFollowsCamera(t *testing.T) {
	cam := camera.New(720, 360)
	h := New(cam)

	l, err := layer.New(h, regionalRaw(), options.Partial{ParticlesTextureSize: options.Ptr(8)}, particles.Factory, particles.Context{Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Drawables()) != len(l.Drawables()) {
		t.Errorf("expected the layer's drawables in the scene, got %d", len(h.Drawables()))
	}

	before := l.Viewport()
	if before.PixelSize != 1000 {
		t.Errorf("expected full pixel size at the fitted globe, got %v", before.PixelSize)
	}

	// ZoomTo fits the field exactly; zooming in once more shows part of it.
	l.ZoomTo(0)
	h.Update(0)
	if math.Abs(cam.Zoom-18) > 1e-9 {
		t.Errorf("expected zoom 18 after ZoomTo, got %v", cam.Zoom)
	}
	cam.ZoomBy(2)
	h.CheckCamera()
	after := l.Viewport()
	if after.PixelSize >= before.PixelSize {
		t.Errorf("expected the pixel size to drop after zooming in, got %v -> %v", before.PixelSize, after.PixelSize)
	}
	if after.LonRange[0] < -20 || after.LonRange[1] > 20 {
		t.Errorf("expected the window inside the field, got %v", after.LonRange)
	}

	l.Destroy()
	if len(h.Drawables()) != 0 {
		t.Errorf("expected drawables removed on destroy, got %d", len(h.Drawables()))
	}
	cam.Pan(200, 0)
	h.CheckCamera()
	if l.Viewport() != after {
		t.Errorf("expected a destroyed layer to ignore the camera")
	}
}
