// Package field holds geographic vector fields (wind u/v grids), their
// normalization, and point queries against them.
package field

import (
	"errors"
	"log/slog"
	"math"
)

// Sentinel errors returned (wrapped) by Normalize.
var (
	ErrInvalidFieldShape = errors.New("invalid field shape")
	ErrDegenerateBounds  = errors.New("degenerate field bounds")
)

// Bounds is a geographic rectangle in degrees.
type Bounds struct {
	West  float64 `json:"west" msgpack:"west"`
	East  float64 `json:"east" msgpack:"east"`
	South float64 `json:"south" msgpack:"south"`
	North float64 `json:"north" msgpack:"north"`
}

// Width returns the longitude extent.
func (b Bounds) Width() float64 { return b.East - b.West }

// Height returns the latitude extent.
func (b Bounds) Height() float64 { return b.North - b.South }

// Contains reports whether (lon, lat) lies inside the bounds, edges included.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// Valid reports whether west<east and south<north.
func (b Bounds) Valid() bool {
	return b.West < b.East && b.South < b.North
}

// Axis is one row-major sample grid with its value range.
// Min/Max are only meaningful when HasRange is set on raw input.
type Axis struct {
	Array    []float32 `json:"array" msgpack:"array"`
	Min      float32   `json:"min" msgpack:"min"`
	Max      float32   `json:"max" msgpack:"max"`
	HasRange bool      `json:"-" msgpack:"has_range"`
}

// Valid reports whether the axis carries a usable range (min <= max).
// A derived speed axis with no nonzero sample keeps its sentinels and is
// not valid.
func (a Axis) Valid() bool {
	return a.Min <= a.Max
}

// Raw is a vector field as supplied by a caller. Speed and Mask are optional.
type Raw struct {
	U      Axis   `json:"u" msgpack:"u"`
	V      Axis   `json:"v" msgpack:"v"`
	Speed  *Axis  `json:"speed,omitempty" msgpack:"speed,omitempty"`
	Mask   *Axis  `json:"mask,omitempty" msgpack:"mask,omitempty"`
	Width  int    `json:"width" msgpack:"width"`
	Height int    `json:"height" msgpack:"height"`
	Bounds Bounds `json:"bounds" msgpack:"bounds"`
}

// Field is a normalized vector field. Every axis is present, has
// Width*Height samples, and carries its range.
type Field struct {
	U      Axis
	V      Axis
	Speed  Axis
	Mask   Axis
	Width  int
	Height int
	Bounds Bounds
}

// Len returns the number of cells.
func (f *Field) Len() int { return f.Width * f.Height }

// Index returns the row-major index of cell (x, y).
func (f *Field) Index(x, y int) int { return y*f.Width + x }

// Raw converts the field back to a fully specified Raw, sharing arrays.
func (f *Field) Raw() Raw {
	speed := f.Speed
	mask := f.Mask
	return Raw{
		U:      f.U,
		V:      f.V,
		Speed:  &speed,
		Mask:   &mask,
		Width:  f.Width,
		Height: f.Height,
		Bounds: f.Bounds,
	}
}

// LogValue implements slog.LogValuer.
func (f *Field) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("width", f.Width),
		slog.Int("height", f.Height),
		slog.Float64("west", f.Bounds.West),
		slog.Float64("east", f.Bounds.East),
		slog.Float64("south", f.Bounds.South),
		slog.Float64("north", f.Bounds.North),
		slog.Float64("speed_min", float64(f.Speed.Min)),
		slog.Float64("speed_max", float64(f.Speed.Max)),
	)
}

// Value is a wind sample.
type Value struct {
	U, V, Speed float64
}

// Direction returns the meteorological direction the wind blows from,
// in degrees [0, 360).
func (v Value) Direction() float64 {
	dir := 270 - math.Atan2(v.V, v.U)*180/math.Pi
	dir = math.Mod(dir, 360)
	if dir < 0 {
		dir += 360
	}
	return dir
}
