// Package camera provides a 2D geographic camera for the wind viewer.
package camera

import (
	"math"

	"github.com/pthm-cable/windlayer/scene"
)

// MercatorLimit is the latitude where the Columbus projection ends.
const MercatorLimit = 85.05112878

// Camera maps screen pixels to longitude/latitude. It supports pan and zoom
// with longitude wrapping, a plate-carrée 2D mode and a Mercator Columbus
// mode.
type Camera struct {
	// Lon, Lat is the view center in degrees. Lon stays in [-180, 180).
	Lon, Lat float64

	// Zoom is pixels per degree.
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	mode   scene.Mode
	morph  *morph
	flight *flight
}

type morph struct {
	to                scene.Mode
	elapsed, duration float64
}

type flight struct {
	fromLon, fromLat, fromZoom float64
	toLon, toLat, toZoom       float64
	elapsed, duration          float64
}

// View is the part of the camera state that moves the picture.
type View struct {
	Lon, Lat, Zoom float64
	Mode           scene.Mode
}

// New creates a 2D camera centered on (0, 0) showing the whole globe.
func New(viewportW, viewportH float64) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MaxZoom:   2000,
		mode:      scene.Scene2D,
	}
	c.updateMinZoom()
	c.Zoom = c.fitZoom()
	return c
}

// fitZoom is the zoom at which the whole globe just fits.
func (c *Camera) fitZoom() float64 {
	return math.Min(c.ViewportW/360, c.ViewportH/180)
}

// updateMinZoom lets the view zoom out to twice the fitted globe, so the
// space around the globe can be seen.
func (c *Camera) updateMinZoom() {
	c.MinZoom = c.fitZoom() / 2
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Mode returns the scene mode, Morphing while a transition runs.
func (c *Camera) Mode() scene.Mode {
	if c.morph != nil {
		return scene.Morphing
	}
	return c.mode
}

// projected is the mode used for projection. During a morph it's the
// target.
func (c *Camera) projected() scene.Mode {
	if c.morph != nil {
		return c.morph.to
	}
	return c.mode
}

func (c *Camera) projectLat(lat float64) float64 {
	if c.projected() != scene.Columbus {
		return lat
	}
	lat = clamp(lat, -MercatorLimit, MercatorLimit)
	r := lat * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4+r/2)) * 180 / math.Pi
}

func (c *Camera) unprojectY(y float64) float64 {
	if c.projected() != scene.Columbus {
		return y
	}
	r := y * math.Pi / 180
	return (2*math.Atan(math.Exp(r)) - math.Pi/2) * 180 / math.Pi
}

// yLimit is the largest projected |y| still on the globe.
func (c *Camera) yLimit() float64 {
	if c.projected() != scene.Columbus {
		return 90
	}
	return 180
}

// LonLatToScreen converts a geographic position to screen coordinates,
// taking the copy of lon nearest the view center.
func (c *Camera) LonLatToScreen(lon, lat float64) (sx, sy float64) {
	dx := wrappedDelta(lon, c.Lon, 360)
	dy := c.projectLat(lat) - c.projectLat(c.Lat)
	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 - dy*c.Zoom
	return sx, sy
}

// ScreenToLonLat converts screen coordinates to geographic ones without
// checking the globe edge. Longitude is continuous from the view center and
// may leave [-180, 180].
func (c *Camera) ScreenToLonLat(sx, sy float64) (lon, lat float64) {
	lon = c.Lon + (sx-c.ViewportW/2)/c.Zoom
	y := c.projectLat(c.Lat) - (sy-c.ViewportH/2)/c.Zoom
	return lon, c.unprojectY(y)
}

// PickLonLat is ScreenToLonLat with ok false when the point is beyond the
// poles.
func (c *Camera) PickLonLat(sx, sy float64) (lon, lat float64, ok bool) {
	lon = c.Lon + (sx-c.ViewportW/2)/c.Zoom
	y := c.projectLat(c.Lat) - (sy-c.ViewportH/2)/c.Zoom
	if math.Abs(y) > c.yLimit() {
		return 0, 0, false
	}
	return lon, c.unprojectY(y), true
}

// CanvasSize returns the viewport size.
func (c *Camera) CanvasSize() (float64, float64) {
	return c.ViewportW, c.ViewportH
}

// Resize updates viewport dimensions and recalculates zoom constraints. It
// reports whether the size changed.
func (c *Camera) Resize(viewportW, viewportH float64) bool {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return false
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	return true
}

// Pan moves the view by a screen delta. Dragging right (positive dx) moves
// the view west.
func (c *Camera) Pan(dx, dy float64) {
	c.flight = nil
	c.Lon = wrapLon(c.Lon - dx/c.Zoom)
	c.Lat = clamp(c.Lat+dy/c.Zoom, -90, 90)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the point under (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float64) {
	c.flight = nil
	lon, lat := c.ScreenToLonLat(sx, sy)
	c.ZoomBy(factor)
	nlon, nlat := c.ScreenToLonLat(sx, sy)
	c.Lon = wrapLon(c.Lon + lon - nlon)
	c.Lat = clamp(c.Lat+lat-nlat, -90, 90)
}

// Reset returns the camera to the fitted globe.
func (c *Camera) Reset() {
	c.flight = nil
	c.Lon = 0
	c.Lat = 0
	c.Zoom = c.fitZoom()
}

// View returns the current view.
func (c *Camera) View() View {
	return View{Lon: c.Lon, Lat: c.Lat, Zoom: c.Zoom, Mode: c.Mode()}
}

// ChangedSince reports whether the view moved by more than threshold, as a
// fraction of the viewport, since prev.
func (c *Camera) ChangedSince(prev View, threshold float64) bool {
	cur := c.View()
	if cur.Mode != prev.Mode {
		return true
	}
	if prev.Zoom <= 0 || math.Abs(math.Log(cur.Zoom/prev.Zoom)) > threshold {
		return true
	}
	dx := math.Abs(wrappedDelta(cur.Lon, prev.Lon, 360)) * cur.Zoom / c.ViewportW
	dy := math.Abs(cur.Lat-prev.Lat) * cur.Zoom / c.ViewportH
	return dx > threshold || dy > threshold
}

// FlyTo animates the view to fit the rectangle over duration seconds. A
// non-positive duration jumps.
func (c *Camera) FlyTo(r scene.Rectangle, duration float64) {
	lon, lat := r.Center()
	w := math.Max(r.East-r.West, 1e-6)
	h := math.Max(c.projectLat(r.North)-c.projectLat(r.South), 1e-6)
	zoom := clamp(math.Min(c.ViewportW/w, c.ViewportH/h), c.MinZoom, c.MaxZoom)

	if duration <= 0 {
		c.flight = nil
		c.Lon, c.Lat, c.Zoom = wrapLon(lon), lat, zoom
		return
	}
	c.flight = &flight{
		fromLon: c.Lon, fromLat: c.Lat, fromZoom: c.Zoom,
		toLon: lon, toLat: lat, toZoom: zoom,
		duration: duration,
	}
}

// Flying reports whether a FlyTo animation is running.
func (c *Camera) Flying() bool {
	return c.flight != nil
}

// Morph starts a transition to mode over duration seconds. Morphing to the
// current mode does nothing.
func (c *Camera) Morph(mode scene.Mode, duration float64) {
	if mode == c.projected() {
		return
	}
	c.morph = &morph{to: mode, duration: math.Max(duration, 0)}
}

// Update advances running animations by dt seconds. It reports whether a
// morph finished during this update.
func (c *Camera) Update(dt float64) (morphed bool) {
	if f := c.flight; f != nil {
		f.elapsed += dt
		t := math.Min(1, f.elapsed/f.duration)
		// smoothstep
		s := t * t * (3 - 2*t)
		c.Lon = wrapLon(f.fromLon + wrappedDelta(f.toLon, f.fromLon, 360)*s)
		c.Lat = f.fromLat + (f.toLat-f.fromLat)*s
		// Interpolate zoom geometrically so the speed looks constant.
		c.Zoom = f.fromZoom * math.Pow(f.toZoom/f.fromZoom, s)
		if t >= 1 {
			c.flight = nil
		}
	}

	if m := c.morph; m != nil {
		m.elapsed += dt
		if m.elapsed >= m.duration {
			c.mode = m.to
			c.morph = nil
			return true
		}
	}
	return false
}

// wrappedDelta computes the shortest signed distance from 'from' to 'to'
// on a circle of the given size.
func wrappedDelta(to, from, size float64) float64 {
	d := math.Mod(to-from, size)
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// wrapLon maps a longitude into [-180, 180).
func wrapLon(lon float64) float64 {
	r := math.Mod(lon+180, 360)
	if r < 0 {
		r += 360
	}
	return r - 180
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
