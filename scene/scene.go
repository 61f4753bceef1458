// Package scene declares the host capabilities the wind layer consumes: a
// screen-to-globe projector, scene/camera change notifications, a drawable
// collection and a camera fly-to.
package scene

import "time"

// Mode is the host's scene projection mode.
type Mode uint8

const (
	Scene3D Mode = iota
	Scene2D
	Columbus
	Morphing
)

func (m Mode) String() string {
	switch m {
	case Scene3D:
		return "3d"
	case Scene2D:
		return "2d"
	case Columbus:
		return "columbus"
	case Morphing:
		return "morphing"
	default:
		return "unknown"
	}
}

// Projector maps a canvas position to a geographic coordinate in degrees.
// ok is false when the ray misses the globe.
type Projector interface {
	PickLonLat(x, y float64) (lon, lat float64, ok bool)
}

// Drawable is an object the host renders. Visibility is the only property
// the layer touches.
type Drawable interface {
	Show() bool
	SetShow(show bool)
}

// Rectangle is a geographic rectangle in degrees.
type Rectangle struct {
	West, South, East, North float64
}

// RectangleFromDegrees builds a rectangle from its edges.
func RectangleFromDegrees(west, south, east, north float64) Rectangle {
	return Rectangle{West: west, South: south, East: east, North: north}
}

// Center returns the rectangle's center as (lon, lat).
func (r Rectangle) Center() (float64, float64) {
	return (r.West + r.East) / 2, (r.South + r.North) / 2
}

// Host is the rendering environment the layer lives in.
type Host interface {
	Projector

	// CanvasSize returns the render surface size in pixels.
	CanvasSize() (width, height float64)
	// Mode returns the current scene mode.
	Mode() Mode

	// OnCameraChanged calls fn whenever the camera moves by more than
	// threshold (a fraction of the view). The returned func unsubscribes.
	OnCameraChanged(threshold float64, fn func()) (cancel func())
	// OnMorphComplete calls fn when a scene mode transition finishes.
	OnMorphComplete(fn func()) (cancel func())
	// OnResize calls fn when the render surface changes size.
	OnResize(fn func()) (cancel func())

	// Add attaches a drawable to the scene.
	Add(d Drawable)
	// Remove detaches a drawable from the scene.
	Remove(d Drawable)
	// RequestRender asks the host to draw a new frame.
	RequestRender()
	// FlyTo moves the camera to show rect over duration.
	FlyTo(rect Rectangle, duration time.Duration)
}
