package options

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMerge_NestedRangeKeepsOtherKey(t *testing.T) {
	got := Merge(Defaults(), Partial{LineWidth: &RangePartial{Max: Ptr(5.0)}})

	if got.LineWidth.Max != 5 {
		t.Errorf("expected line width max 5, got %v", got.LineWidth.Max)
	}
	if got.LineWidth.Min != Defaults().LineWidth.Min {
		t.Errorf("expected line width min %v preserved, got %v", Defaults().LineWidth.Min, got.LineWidth.Min)
	}
	if got.LineLength != Defaults().LineLength {
		t.Errorf("expected line length untouched, got %+v", got.LineLength)
	}
}

func TestMerge_DoesNotMutateBase(t *testing.T) {
	base := Defaults()
	base.Domain = &Range{Min: 0, Max: 10}
	before := base.Clone()

	merged := Merge(base, Partial{
		Colors:      []string{"red", "blue"},
		Domain:      &RangePartial{Max: Ptr(20.0)},
		SpeedFactor: Ptr(3.0),
	})

	if !reflect.DeepEqual(base, before) {
		t.Errorf("expected base unchanged, got %+v", base)
	}
	if merged.Domain.Min != 0 || merged.Domain.Max != 20 {
		t.Errorf("expected domain [0, 20], got %+v", *merged.Domain)
	}
	if merged.Domain == base.Domain {
		t.Error("expected merged domain to be a distinct pointer")
	}
	if merged.SpeedFactor != 3 {
		t.Errorf("expected speed factor 3, got %v", merged.SpeedFactor)
	}
	if len(merged.Colors) != 2 || merged.Colors[0] != "red" {
		t.Errorf("expected colors replaced, got %v", merged.Colors)
	}
}

func TestMerge_EmptyPartialIsIdentity(t *testing.T) {
	base := Defaults()
	if got := Merge(base, Partial{}); !reflect.DeepEqual(got, base) {
		t.Errorf("expected empty partial to keep snapshot\nbase: %+v\ngot:  %+v", base, got)
	}
}

func TestMerge_OptionalRanges(t *testing.T) {
	o := Merge(Defaults(), Partial{DisplayRange: &RangePartial{Min: Ptr(2.0), Max: Ptr(8.0)}})
	if o.DisplayRange == nil || o.DisplayRange.Min != 2 || o.DisplayRange.Max != 8 {
		t.Fatalf("expected display range [2, 8], got %+v", o.DisplayRange)
	}

	o = Merge(o, Partial{ClearDisplayRange: true})
	if o.DisplayRange != nil {
		t.Errorf("expected display range cleared, got %+v", *o.DisplayRange)
	}
}

func TestMerge_Booleans(t *testing.T) {
	o := Merge(Defaults(), Partial{Dynamic: Ptr(false), FlipY: Ptr(true)})
	if o.Dynamic {
		t.Error("expected dynamic false")
	}
	if !o.FlipY {
		t.Error("expected flipY true")
	}
	if o.UseViewerBounds != Defaults().UseViewerBounds {
		t.Error("expected useViewerBounds untouched")
	}
}

func TestValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	testCases := []struct {
		name string
		p    Partial
	}{
		{"zero texture", Partial{ParticlesTextureSize: Ptr(0)}},
		{"drop rate above one", Partial{DropRate: Ptr(1.5)}},
		{"inverted line width", Partial{LineWidth: &RangePartial{Min: Ptr(9.0)}}},
		{"empty colors", Partial{Colors: []string{}}},
		{"unknown color", Partial{Colors: []string{"white", "notacolor"}}},
		{"flat domain", Partial{Domain: &RangePartial{Min: Ptr(1.0), Max: Ptr(1.0)}}},
	}
	for _, tc := range testCases {
		if err := FromDefaults(tc.p).Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer.yaml")
	data := []byte("speed_factor: 2.5\nline_width:\n  max: 4\ncolors: [\"#00f\", \"#f00\"]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := LoadPartial(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	o := FromDefaults(p)
	if o.SpeedFactor != 2.5 {
		t.Errorf("expected speed factor 2.5, got %v", o.SpeedFactor)
	}
	if o.LineWidth.Min != 1 || o.LineWidth.Max != 4 {
		t.Errorf("expected line width [1, 4], got %+v", o.LineWidth)
	}
	if len(o.Colors) != 2 {
		t.Errorf("expected 2 colors, got %v", o.Colors)
	}
	if o.DropRate != Defaults().DropRate {
		t.Errorf("expected default drop rate, got %v", o.DropRate)
	}
}
