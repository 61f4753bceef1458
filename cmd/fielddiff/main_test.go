package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/windlayer/field"
)

var defaultTol = Tolerance{Rel: 1e-5, Abs: 1e-8}

func testRaw() field.Raw {
	return field.Raw{
		U:      field.Axis{Array: []float32{1, 2, 3, 4}, Min: 1, Max: 4, HasRange: true},
		V:      field.Axis{Array: []float32{0, -1, 0, 1}},
		Width:  2,
		Height: 2,
		Bounds: field.Bounds{West: 0, East: 10, South: 0, North: 10},
	}
}

func paths(diffs []Difference) map[string]Difference {
	m := make(map[string]Difference, len(diffs))
	for _, d := range diffs {
		m[d.Path] = d
	}
	return m
}

func TestCompare_Equal(t *testing.T) {
	if diffs := compare(testRaw(), testRaw(), defaultTol); len(diffs) != 0 {
		t.Errorf("expected no differences, got %+v", diffs)
	}
}

func TestCompare_WithinTolerance(t *testing.T) {
	b := testRaw()
	b.Bounds.East = 10.00000001
	if diffs := compare(testRaw(), b, defaultTol); len(diffs) != 0 {
		t.Errorf("expected tiny bounds change to be ignored, got %+v", diffs)
	}
}

func TestCompare_Differences(t *testing.T) {
	a := testRaw()
	b := testRaw()
	b.Width, b.Height = 4, 1
	b.Bounds.North = 20
	b.U.Array = []float32{1, 2, 3, 40}
	b.V.HasRange = true
	speed := field.Axis{Array: []float32{1, 1, 1, 1}}
	b.Speed = &speed

	got := paths(compare(a, b, defaultTol))

	for _, want := range []string{"width", "height", "bounds.north", "u.array.mean", "u.array.std", "u.array.max", "v.range", "speed"} {
		if _, ok := got[want]; !ok {
			t.Errorf("expected a difference at %s, got %+v", want, got)
		}
	}
	for _, unwanted := range []string{"u.array.count", "u.array.min", "u.min", "bounds.west", "mask"} {
		if d, ok := got[unwanted]; ok {
			t.Errorf("expected no difference at %s, got %+v", unwanted, d)
		}
	}
	if got["speed"].Kind != "added" {
		t.Errorf("expected speed added, got %q", got["speed"].Kind)
	}
	if got["v.range"].Kind != "added" {
		t.Errorf("expected v range added, got %q", got["v.range"].Kind)
	}
	if d := got["width"]; d.A != "2" || d.B != "4" {
		t.Errorf("expected width 2 vs 4, got %+v", d)
	}
}

func TestCompare_EmptyArray(t *testing.T) {
	b := testRaw()
	b.V.Array = nil
	got := paths(compare(testRaw(), b, defaultTol))
	if d, ok := got["v.array"]; !ok || d.Kind != "empty" {
		t.Errorf("expected empty array difference, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	s := summarize([]float32{2, 4, 4, 4, 5, 5, 7, 9})
	if s.count != 8 || math.Abs(s.mean-5) > 1e-12 || math.Abs(s.std-2) > 1e-12 || s.min != 2 || s.max != 9 {
		t.Errorf("expected count 8, mean 5, std 2, range [2, 9], got %+v", s)
	}
}

func TestRun_AcrossFormats(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "a.json")
	packedPath := filepath.Join(dir, "b.msgpack.zst")
	if err := field.Save(jsonPath, testRaw()); err != nil {
		t.Fatalf("save: %v", err)
	}
	other := testRaw()
	other.V.Array = []float32{0, -1, 0, 5}
	if err := field.Save(packedPath, other); err != nil {
		t.Fatalf("save: %v", err)
	}

	if n, err := run(jsonPath, jsonPath, defaultTol, filepath.Join(dir, "same.csv")); err != nil || n != 0 {
		t.Errorf("expected identical files to match, got n=%d err=%v", n, err)
	}

	out := filepath.Join(dir, "diff.csv")
	n, err := run(jsonPath, packedPath, defaultTol, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected differences")
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var rows []Difference
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != n {
		t.Errorf("expected %d rows, got %d", n, len(rows))
	}
	if _, ok := paths(rows)["v.array.max"]; !ok {
		t.Errorf("expected v max difference, got %+v", rows)
	}
}

func TestRun_MissingFile(t *testing.T) {
	if _, err := run("missing.json", "missing.json", defaultTol, ""); err == nil {
		t.Errorf("expected error for a missing file")
	}
}
