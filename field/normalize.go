package field

import (
	"fmt"
	"math"
)

// Normalize converts a raw field into a fully specified Field.
//
// Missing speed is derived as sqrt(u²+v²) per cell, and cells with exactly
// zero speed are left out of its range so calm regions don't collapse it.
// If no cell has signal, the speed range keeps its sentinels (Min > Max).
// A missing mask becomes all ones with min=max=1. Caller arrays are never
// written; a complete input comes back unchanged.
func Normalize(raw Raw) (*Field, error) {
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidFieldShape, raw.Width, raw.Height)
	}
	n := raw.Width * raw.Height

	if err := checkAxis("u", raw.U, n); err != nil {
		return nil, err
	}
	if err := checkAxis("v", raw.V, n); err != nil {
		return nil, err
	}
	if raw.Speed != nil {
		if err := checkAxis("speed", *raw.Speed, n); err != nil {
			return nil, err
		}
	}
	if raw.Mask != nil {
		if err := checkAxis("mask", *raw.Mask, n); err != nil {
			return nil, err
		}
	}
	if !raw.Bounds.Valid() {
		return nil, fmt.Errorf("%w: west=%g east=%g south=%g north=%g",
			ErrDegenerateBounds, raw.Bounds.West, raw.Bounds.East, raw.Bounds.South, raw.Bounds.North)
	}

	f := &Field{
		U:      withRange(raw.U),
		V:      withRange(raw.V),
		Width:  raw.Width,
		Height: raw.Height,
		Bounds: raw.Bounds,
	}

	// A speed array without its range is treated as stale.
	if raw.Speed == nil || !raw.Speed.HasRange {
		f.Speed = deriveSpeed(raw.U.Array, raw.V.Array)
	} else {
		f.Speed = *raw.Speed
	}

	switch {
	case raw.Mask == nil:
		f.Mask = onesMask(n)
	default:
		f.Mask = withRange(*raw.Mask)
	}

	return f, nil
}

func checkAxis(name string, a Axis, n int) error {
	if len(a.Array) != n {
		return fmt.Errorf("%w: %s has %d samples, want %d", ErrInvalidFieldShape, name, len(a.Array), n)
	}
	return nil
}

// withRange returns the axis with its full min/max filled in if missing.
func withRange(a Axis) Axis {
	if a.HasRange {
		return a
	}
	a.Min, a.Max = fullRange(a.Array)
	a.HasRange = true
	return a
}

func deriveSpeed(u, v []float32) Axis {
	speed := make([]float32, len(u))
	for i := range speed {
		speed[i] = float32(math.Sqrt(float64(u[i])*float64(u[i]) + float64(v[i])*float64(v[i])))
	}
	min, max := signalRange(speed)
	return Axis{Array: speed, Min: min, Max: max, HasRange: true}
}

func onesMask(n int) Axis {
	mask := make([]float32, n)
	for i := range mask {
		mask[i] = 1
	}
	return Axis{Array: mask, Min: 1, Max: 1, HasRange: true}
}

// signalRange returns min/max over nonzero samples. With no nonzero sample
// it returns (MaxFloat32, -MaxFloat32).
func signalRange(a []float32) (min, max float32) {
	min, max = math.MaxFloat32, -math.MaxFloat32
	for _, s := range a {
		if s == 0 {
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}

func fullRange(a []float32) (min, max float32) {
	min, max = math.MaxFloat32, -math.MaxFloat32
	for _, s := range a {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}
