package viewport

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/scene"
)

// BufferFraction is how far each visible edge is pushed outward, as a
// fraction of the visible range on that axis.
const BufferFraction = 0.05

// Surface is what the tracker needs from the host.
type Surface interface {
	scene.Projector
	CanvasSize() (width, height float64)
	Mode() scene.Mode
}

// Applier receives the state after every recompute.
type Applier interface {
	ApplyViewport(State)
}

// Tracker recomputes the visible window of a field from the camera. It is the
// only writer of its State. Recompute touches bounds metadata only, never the
// sample arrays, so it is cheap to call on every camera event.
type Tracker struct {
	surface Surface
	bounds  func() field.Bounds
	state   State
	applier Applier

	// OffGlobe counts recomputes where a corner missed the globe.
	OffGlobe int
}

// NewTracker creates a tracker starting from the full-globe state. bounds
// returns the current field's bounds.
func NewTracker(surface Surface, bounds func() field.Bounds) *Tracker {
	return &Tracker{
		surface: surface,
		bounds:  bounds,
		state:   FullGlobe(surface.Mode()),
	}
}

// SetApplier sets the consumer notified after every recompute.
func (t *Tracker) SetApplier(a Applier) {
	t.applier = a
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return t.state
}

// Recompute projects the canvas corners onto the globe and updates the
// visible ranges and pixel size. If any corner misses the globe, or the view
// doesn't overlap the field, the previous ranges and pixel size are kept
// unchanged. A non-positive pixel size also keeps the previous one. The
// scene mode is refreshed either way.
func (t *Tracker) Recompute() {
	t.state.SceneMode = t.surface.Mode()
	defer t.apply()

	w, h := t.surface.CanvasSize()
	corners := [4][2]float64{{0, 0}, {0, h}, {w, 0}, {w, h}}

	minLon, maxLon := 180.0, -180.0
	minLat, maxLat := 90.0, -90.0
	for _, c := range corners {
		lon, lat, ok := t.surface.PickLonLat(c[0], c[1])
		if !ok {
			t.OffGlobe++
			slog.Debug("viewport corner off globe", "x", c[0], "y", c[1])
			return
		}
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
		minLat = math.Min(minLat, lat)
		maxLat = math.Max(maxLat, lat)
	}

	b := t.bounds()
	lon := [2]float64{math.Max(b.West, minLon), math.Min(b.East, maxLon)}
	lat := [2]float64{math.Max(b.South, minLat), math.Min(b.North, maxLat)}
	if !(lon[0] <= lon[1]) || !(lat[0] <= lat[1]) {
		slog.Debug("viewport does not overlap field", "view_lon", [2]float64{minLon, maxLon}, "view_lat", [2]float64{minLat, maxLat})
		return
	}

	lonBuffer := (lon[1] - lon[0]) * BufferFraction
	latBuffer := (lat[1] - lat[0]) * BufferFraction
	lon[0] = math.Max(b.West, lon[0]-lonBuffer)
	lon[1] = math.Min(b.East, lon[1]+lonBuffer)
	lat[0] = math.Max(b.South, lat[0]-latBuffer)
	lat[1] = math.Min(b.North, lat[1]+latBuffer)

	t.state.LonRange = lon
	t.state.LatRange = lat

	lonRatio := (lon[1] - lon[0]) / b.Width()
	latRatio := (lat[1] - lat[0]) / b.Height()
	pixelSize := MaxPixelSize * math.Min(lonRatio, latRatio)
	if pixelSize > 0 {
		t.state.PixelSize = math.Max(0, math.Min(MaxPixelSize, pixelSize))
	}
}

func (t *Tracker) apply() {
	if t.applier != nil {
		t.applier.ApplyViewport(t.state)
	}
}
