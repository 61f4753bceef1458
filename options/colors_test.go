package options

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	testCases := []struct {
		in   string
		want color.RGBA
	}{
		{"white", color.RGBA{255, 255, 255, 255}},
		{" Red ", color.RGBA{255, 0, 0, 255}},
		{"#00f", color.RGBA{0, 0, 255, 255}},
		{"#80ff00", color.RGBA{128, 255, 0, 255}},
	}
	for _, tc := range testCases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "#12", "rgb(1,2,3)", "blurple"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestBlend(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	ramp := []color.RGBA{black, white}

	if got := Blend(ramp, 0); got != black {
		t.Errorf("expected black at 0, got %v", got)
	}
	if got := Blend(ramp, 1); got != white {
		t.Errorf("expected white at 1, got %v", got)
	}
	if got := Blend(ramp, 2); got != white {
		t.Errorf("expected clamp to white, got %v", got)
	}
	mid := Blend(ramp, 0.5)
	if mid.R < 50 || mid.R > 200 || absDiff(mid.R, mid.G) > 1 || absDiff(mid.G, mid.B) > 1 {
		t.Errorf("expected a mid gray, got %v", mid)
	}
	if got := Blend(ramp[:1], 0.7); got != black {
		t.Errorf("expected single color ramp to return it, got %v", got)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
