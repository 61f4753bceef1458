package field

import "math"

// Result is the answer to a point query.
type Result struct {
	// Original is the stored sample at the floor grid cell.
	Original Value
	// Interpolated is bilinear u/v with speed recomputed from them.
	Interpolated Value
	// Mask is the mask value at the floor grid cell.
	Mask float64
	// X, Y is the floor grid cell.
	X, Y int
}

// Query returns the field value at (lon, lat). ok is false when the point is
// outside the field bounds.
func Query(f *Field, flipY bool, lon, lat float64) (r Result, ok bool) {
	if f == nil || !f.Bounds.Contains(lon, lat) {
		return Result{}, false
	}

	xNorm := (lon - f.Bounds.West) / f.Bounds.Width() * float64(f.Width-1)
	yNorm := (lat - f.Bounds.South) / f.Bounds.Height() * float64(f.Height-1)
	if flipY {
		yNorm = float64(f.Height-1) - yNorm
	}

	x0 := clampIndex(int(math.Floor(xNorm)), f.Width)
	y0 := clampIndex(int(math.Floor(yNorm)), f.Height)
	x1 := min(x0+1, f.Width-1)
	y1 := min(y0+1, f.Height-1)

	// Weights are 0 on a degenerate (1-wide) axis, collapsing to nearest.
	fx := xNorm - float64(x0)
	fy := yNorm - float64(y0)

	i00 := f.Index(x0, y0)
	i10 := f.Index(x1, y0)
	i01 := f.Index(x0, y1)
	i11 := f.Index(x1, y1)

	r.X, r.Y = x0, y0
	r.Mask = float64(f.Mask.Array[i00])
	r.Original = Value{
		U:     float64(f.U.Array[i00]),
		V:     float64(f.V.Array[i00]),
		Speed: float64(f.Speed.Array[i00]),
	}

	u := bilinear(f.U.Array, i00, i10, i01, i11, fx, fy)
	v := bilinear(f.V.Array, i00, i10, i01, i11, fx, fy)
	r.Interpolated = Value{U: u, V: v, Speed: math.Sqrt(u*u + v*v)}

	return r, true
}

func bilinear(a []float32, i00, i10, i01, i11 int, fx, fy float64) float64 {
	v00, v10 := float64(a[i00]), float64(a[i10])
	v01, v11 := float64(a[i01]), float64(a[i11])
	top := v00*(1-fx) + v10*fx
	bottom := v01*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy
}

// clampIndex guards against floating point overshoot at the far edge.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
