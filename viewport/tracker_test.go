package viewport

import (
	"math"
	"testing"

	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/scene"
)

// fakeSurface maps the canvas linearly onto a lon/lat window.
type fakeSurface struct {
	w, h           float64
	west, east     float64
	south, north   float64
	mode           scene.Mode
	missAll        bool
	missBottomLeft bool
}

func (s *fakeSurface) CanvasSize() (float64, float64) { return s.w, s.h }
func (s *fakeSurface) Mode() scene.Mode { return s.mode }

func (s *fakeSurface) PickLonLat(x, y float64) (float64, float64, bool) {
	if s.missAll || (s.missBottomLeft && x == 0 && y == s.h) {
		return 0, 0, false
	}
	lon := s.west + x/s.w*(s.east-s.west)
	lat := s.north - y/s.h*(s.north-s.south)
	return lon, lat, true
}

func (s *fakeSurface) view(west, east, south, north float64) {
	s.west, s.east, s.south, s.north = west, east, south, north
}

type recordingApplier struct {
	states []State
}

func (a *recordingApplier) ApplyViewport(s State) { a.states = append(a.states, s) }

func tenByTen() field.Bounds {
	return field.Bounds{West: 0, East: 10, South: 0, North: 10}
}

func newTestTracker(s *fakeSurface, b field.Bounds) *Tracker {
	return NewTracker(s, func() field.Bounds { return b })
}

func TestTracker_FullyVisibleStaysInsideBounds(t *testing.T) {
	s := &fakeSurface{w: 800, h: 600}
	s.view(-20, 30, -15, 25)
	tr := newTestTracker(s, tenByTen())

	tr.Recompute()
	st := tr.State()

	if st.LonRange != [2]float64{0, 10} {
		t.Errorf("expected lon range [0, 10], got %v", st.LonRange)
	}
	if st.LatRange != [2]float64{0, 10} {
		t.Errorf("expected lat range [0, 10], got %v", st.LatRange)
	}
	if st.PixelSize != 1000 {
		t.Errorf("expected pixel size 1000 when the whole field is visible, got %v", st.PixelSize)
	}
}

func TestTracker_BufferAndClamp(t *testing.T) {
	s := &fakeSurface{w: 800, h: 600}
	s.view(2, 6, 0.1, 4.1)
	tr := newTestTracker(s, tenByTen())

	tr.Recompute()
	st := tr.State()

	// 5% of the 4 degree range on each side; the south edge clamps to 0.
	wantLon := [2]float64{1.8, 6.2}
	wantLat := [2]float64{0, 4.3}
	for i := 0; i < 2; i++ {
		if math.Abs(st.LonRange[i]-wantLon[i]) > 1e-9 {
			t.Errorf("expected lon range %v, got %v", wantLon, st.LonRange)
		}
		if math.Abs(st.LatRange[i]-wantLat[i]) > 1e-9 {
			t.Errorf("expected lat range %v, got %v", wantLat, st.LatRange)
		}
	}

	// lon ratio 0.44, lat ratio 0.43
	if math.Abs(st.PixelSize-430) > 1e-6 {
		t.Errorf("expected pixel size 430, got %v", st.PixelSize)
	}
}

func TestTracker_PixelSizeShrinksWhenZoomingIn(t *testing.T) {
	s := &fakeSurface{w: 800, h: 800}
	tr := newTestTracker(s, tenByTen())

	// pixelSize = MaxPixelSize * visible fraction of the field, so each
	// smaller view must not raise it.
	prev := math.Inf(1)
	for _, half := range []float64{6, 4, 2, 1, 0.5, 0.1} {
		s.view(5-half, 5+half, 5-half, 5+half)
		tr.Recompute()
		ps := tr.State().PixelSize
		if ps < 0 || ps > MaxPixelSize {
			t.Errorf("pixel size %v out of [0, %d]", ps, MaxPixelSize)
		}
		if ps > prev {
			t.Errorf("expected pixel size to shrink with the visible fraction as the view zooms in, got %v after %v", ps, prev)
		}
		prev = ps
	}
}

func TestTracker_OffGlobeKeepsRanges(t *testing.T) {
	s := &fakeSurface{w: 800, h: 600, mode: scene.Scene3D}
	s.view(2, 6, 2, 6)
	tr := newTestTracker(s, tenByTen())
	tr.Recompute()
	before := tr.State()

	s.missBottomLeft = true
	s.mode = scene.Scene2D
	s.view(0, 1, 0, 1)
	tr.Recompute()
	after := tr.State()

	if after.LonRange != before.LonRange || after.LatRange != before.LatRange {
		t.Errorf("expected ranges preserved off globe, got %v/%v want %v/%v",
			after.LonRange, after.LatRange, before.LonRange, before.LatRange)
	}
	if after.PixelSize != before.PixelSize {
		t.Errorf("expected pixel size preserved off globe, got %v want %v", after.PixelSize, before.PixelSize)
	}
	if after.SceneMode != scene.Scene2D {
		t.Errorf("expected scene mode refreshed to 2d, got %v", after.SceneMode)
	}
	if tr.OffGlobe != 1 {
		t.Errorf("expected 1 off-globe tick, got %d", tr.OffGlobe)
	}
}

func TestTracker_InitialOffGlobeKeepsFullGlobe(t *testing.T) {
	s := &fakeSurface{w: 100, h: 100, missAll: true, mode: scene.Columbus}
	tr := newTestTracker(s, tenByTen())
	tr.Recompute()

	want := FullGlobe(scene.Columbus)
	if tr.State() != want {
		t.Errorf("expected %+v, got %+v", want, tr.State())
	}
}

func TestTracker_NoOverlapKeepsRanges(t *testing.T) {
	s := &fakeSurface{w: 100, h: 100}
	s.view(2, 4, 2, 4)
	tr := newTestTracker(s, tenByTen())
	tr.Recompute()
	before := tr.State()

	s.view(50, 60, 50, 60)
	tr.Recompute()
	if tr.State() != before {
		t.Errorf("expected state unchanged when view misses the field, got %+v", tr.State())
	}
}

func TestTracker_AppliesEveryRecompute(t *testing.T) {
	s := &fakeSurface{w: 100, h: 100}
	s.view(0, 10, 0, 10)
	tr := newTestTracker(s, tenByTen())
	a := &recordingApplier{}
	tr.SetApplier(a)

	tr.Recompute()
	s.missAll = true
	tr.Recompute()

	if len(a.states) != 2 {
		t.Fatalf("expected 2 applied states, got %d", len(a.states))
	}
	if a.states[1] != tr.State() {
		t.Errorf("expected last applied state to match tracker state")
	}
}
