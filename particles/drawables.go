package particles

import "github.com/pthm-cable/windlayer/field"

// Point is a trail vertex in degrees.
type Point struct {
	Lon, Lat float64
}

// Line is one particle's trail: a run of Points plus its style.
type Line struct {
	Start, End int
	Width      float32
	ColorIndex int
}

// Trails is the drawable holding every visible particle trail. The vertex
// buffer is reused between steps; hosts should read it on their own frame.
type Trails struct {
	show bool

	Points []Point
	Lines  []Line
	// Colors is the ramp ColorIndex points into.
	Colors []string
	// Height is the vertical offset for hosts that draw in 3D.
	Height float64
}

func (t *Trails) Show() bool        { return t.show }
func (t *Trails) SetShow(show bool) { t.show = show }

// Line returns the vertices of line i, newest first.
func (t *Trails) Line(i int) []Point {
	l := t.Lines[i]
	return t.Points[l.Start:l.End]
}

func (t *Trails) reset() {
	t.Points = t.Points[:0]
	t.Lines = t.Lines[:0]
}

// Outline is the drawable for the field's bounding rectangle.
type Outline struct {
	show bool

	Bounds field.Bounds
}

func (o *Outline) Show() bool        { return o.show }
func (o *Outline) SetShow(show bool) { o.show = show }
