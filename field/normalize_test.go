package field

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func testBounds() Bounds {
	return Bounds{West: 0, East: 10, South: 0, North: 10}
}

func TestNormalize_DerivesSpeed(t *testing.T) {
	raw := Raw{
		U:      Axis{Array: []float32{3, 0, -6, 0}},
		V:      Axis{Array: []float32{4, 0, 8, 1}},
		Width:  2,
		Height: 2,
		Bounds: testBounds(),
	}

	f, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float32{5, 0, 10, 1}
	for i, w := range want {
		if math.Abs(float64(f.Speed.Array[i]-w)) > 1e-6 {
			t.Errorf("speed[%d]: expected %v, got %v", i, w, f.Speed.Array[i])
		}
	}
	if f.Speed.Min != 1 || f.Speed.Max != 10 {
		t.Errorf("expected speed range [1, 10], got [%v, %v]", f.Speed.Min, f.Speed.Max)
	}
}

func TestNormalize_SpeedWithoutRangeIsDerived(t *testing.T) {
	stale := Axis{Array: []float32{99, 99}}
	raw := Raw{
		U:      Axis{Array: []float32{3, 0}},
		V:      Axis{Array: []float32{4, 0}},
		Speed:  &stale,
		Width:  2,
		Height: 1,
		Bounds: testBounds(),
	}

	f, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Speed.Array[0] != 5 || f.Speed.Array[1] != 0 {
		t.Errorf("expected derived speed [5 0], got %v", f.Speed.Array)
	}
	if f.Speed.Min != 5 || f.Speed.Max != 5 {
		t.Errorf("expected speed range [5, 5], got [%v, %v]", f.Speed.Min, f.Speed.Max)
	}
	if stale.Array[0] != 99 {
		t.Error("expected caller speed array to be left untouched")
	}
}

func TestNormalize_SpeedWithRangeKept(t *testing.T) {
	speed := Axis{Array: []float32{7, 1}, Min: 1, Max: 7, HasRange: true}
	f, err := Normalize(Raw{
		U:      Axis{Array: []float32{3, 0}},
		V:      Axis{Array: []float32{4, 0}},
		Speed:  &speed,
		Width:  2,
		Height: 1,
		Bounds: testBounds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Speed.Array[0] != 7 || f.Speed.Min != 1 || f.Speed.Max != 7 {
		t.Errorf("expected supplied speed kept, got %v [%v, %v]", f.Speed.Array, f.Speed.Min, f.Speed.Max)
	}
}

func TestNormalize_ZeroCellsExcludedFromRange(t *testing.T) {
	u := make([]float32, 9)
	v := make([]float32, 9)
	u[4], v[4] = 3, 4

	f, err := Normalize(Raw{U: Axis{Array: u}, V: Axis{Array: v}, Width: 3, Height: 3, Bounds: testBounds()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Speed.Min != 5 || f.Speed.Max != 5 {
		t.Errorf("expected speed min=max=5, got [%v, %v]", f.Speed.Min, f.Speed.Max)
	}
}

func TestNormalize_AllCalm(t *testing.T) {
	f, err := Normalize(Raw{
		U:      Axis{Array: make([]float32, 4)},
		V:      Axis{Array: make([]float32, 4)},
		Width:  2,
		Height: 2,
		Bounds: testBounds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Speed.Valid() {
		t.Errorf("expected invalid speed range for an all-calm field, got [%v, %v]", f.Speed.Min, f.Speed.Max)
	}
	if f.Speed.Min != math.MaxFloat32 || f.Speed.Max != -math.MaxFloat32 {
		t.Errorf("expected sentinel range, got [%v, %v]", f.Speed.Min, f.Speed.Max)
	}
}

func TestNormalize_SynthesizesMask(t *testing.T) {
	f, err := Normalize(Raw{
		U:      Axis{Array: []float32{1, 2}},
		V:      Axis{Array: []float32{1, 2}},
		Width:  2,
		Height: 1,
		Bounds: testBounds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Mask.Min != 1 || f.Mask.Max != 1 {
		t.Errorf("expected mask range [1, 1], got [%v, %v]", f.Mask.Min, f.Mask.Max)
	}
	for i, m := range f.Mask.Array {
		if m != 1 {
			t.Errorf("mask[%d]: expected 1, got %v", i, m)
		}
	}
}

func TestNormalize_MaskRangeKeepsZero(t *testing.T) {
	mask := Axis{Array: []float32{0, 1, 0.5, 1}}
	f, err := Normalize(Raw{
		U:      Axis{Array: []float32{1, 1, 1, 1}},
		V:      Axis{Array: []float32{1, 1, 1, 1}},
		Mask:   &mask,
		Width:  2,
		Height: 2,
		Bounds: testBounds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Mask.Min != 0 || f.Mask.Max != 1 {
		t.Errorf("expected mask range [0, 1], got [%v, %v]", f.Mask.Min, f.Mask.Max)
	}
	if mask.HasRange {
		t.Error("expected caller mask to be left untouched")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := Raw{
		U:      Axis{Array: []float32{1, -2, 0, 4}},
		V:      Axis{Array: []float32{0, 2, 0, -3}},
		Width:  2,
		Height: 2,
		Bounds: testBounds(),
	}
	first, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Normalize(first.Raw())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected normalize of a complete field to be a no-op\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	u := []float32{1, 2, 3, 4}
	v := []float32{4, 3, 2, 1}
	raw := Raw{U: Axis{Array: u}, V: Axis{Array: v}, Width: 2, Height: 2, Bounds: testBounds()}

	if _, err := Normalize(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Speed != nil || raw.Mask != nil {
		t.Error("expected raw speed and mask to stay nil")
	}
	if u[0] != 1 || v[0] != 4 {
		t.Error("expected input arrays to be unchanged")
	}
}

func TestNormalize_Errors(t *testing.T) {
	testCases := []struct {
		name string
		raw  Raw
		want error
	}{
		{
			name: "mismatched axes",
			raw:  Raw{U: Axis{Array: []float32{1, 2, 3, 4}}, V: Axis{Array: []float32{1, 2, 3}}, Width: 2, Height: 2, Bounds: testBounds()},
			want: ErrInvalidFieldShape,
		},
		{
			name: "resolution mismatch",
			raw:  Raw{U: Axis{Array: []float32{1, 2}}, V: Axis{Array: []float32{1, 2}}, Width: 2, Height: 2, Bounds: testBounds()},
			want: ErrInvalidFieldShape,
		},
		{
			name: "zero resolution",
			raw:  Raw{Width: 0, Height: 2, Bounds: testBounds()},
			want: ErrInvalidFieldShape,
		},
		{
			name: "west >= east",
			raw:  Raw{U: Axis{Array: []float32{1}}, V: Axis{Array: []float32{1}}, Width: 1, Height: 1, Bounds: Bounds{West: 5, East: 5, South: 0, North: 1}},
			want: ErrDegenerateBounds,
		},
		{
			name: "south >= north",
			raw:  Raw{U: Axis{Array: []float32{1}}, V: Axis{Array: []float32{1}}, Width: 1, Height: 1, Bounds: Bounds{West: 0, East: 1, South: 2, North: 1}},
			want: ErrDegenerateBounds,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.raw)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
