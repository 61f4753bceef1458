// fielddiff compares two wind field files: resolution, bounds and, per axis,
// the sample count, mean, standard deviation, min and max.
//
// Usage: fielddiff [-rtol 1e-5] [-atol 1e-8] [-out diff.csv] baseline.json other.msgpack.zst
//
// Differences are written as CSV. The exit status is 1 when any are found.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/windlayer/field"
)

// Difference is one output row.
type Difference struct {
	Path string `csv:"path"`
	Kind string `csv:"kind"`
	A    string `csv:"a"`
	B    string `csv:"b"`
}

// Tolerance treats a and b as equal when |a-b| <= Abs + Rel*|b|.
type Tolerance struct {
	Rel, Abs float64
}

func (t Tolerance) close(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= t.Abs+t.Rel*math.Abs(b)
}

// axisStats summarizes one axis. Population standard deviation.
type axisStats struct {
	count               int
	mean, std, min, max float64
}

func summarize(a []float32) axisStats {
	if len(a) == 0 {
		return axisStats{}
	}
	x := make([]float64, len(a))
	for i, s := range a {
		x[i] = float64(s)
	}
	mean, std := stat.PopMeanStdDev(x, nil)
	return axisStats{count: len(x), mean: mean, std: std, min: floats.Min(x), max: floats.Max(x)}
}

func main() {
	rtol := flag.Float64("rtol", 1e-5, "Relative tolerance")
	atol := flag.Float64("atol", 1e-8, "Absolute tolerance")
	outPath := flag.String("out", "", "Output CSV (empty = stdout)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: fielddiff [flags] baseline other")
		os.Exit(2)
	}

	n, err := run(flag.Arg(0), flag.Arg(1), Tolerance{Rel: *rtol, Abs: *atol}, *outPath)
	if err != nil {
		slog.Error("fielddiff failed", "error", err)
		os.Exit(2)
	}
	if n > 0 {
		slog.Info("fields differ", "differences", n)
		os.Exit(1)
	}
	slog.Info("fields are equivalent")
}

func run(pathA, pathB string, tol Tolerance, outPath string) (int, error) {
	a, err := field.LoadRaw(pathA)
	if err != nil {
		return 0, err
	}
	b, err := field.LoadRaw(pathB)
	if err != nil {
		return 0, err
	}

	diffs := compare(a, b, tol)

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return 0, fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if len(diffs) > 0 {
		if err := gocsv.Marshal(diffs, out); err != nil {
			return 0, fmt.Errorf("writing differences: %w", err)
		}
	}
	return len(diffs), nil
}

// compare returns the differences of b against the baseline a.
func compare(a, b field.Raw, tol Tolerance) []Difference {
	var diffs []Difference
	ints := func(path string, x, y int) {
		if x != y {
			diffs = append(diffs, Difference{path, "mismatch", strconv.Itoa(x), strconv.Itoa(y)})
		}
	}
	nums := func(path string, x, y float64) {
		if !tol.close(x, y) {
			diffs = append(diffs, Difference{path, "mismatch", format(x), format(y)})
		}
	}

	ints("width", a.Width, b.Width)
	ints("height", a.Height, b.Height)
	nums("bounds.west", a.Bounds.West, b.Bounds.West)
	nums("bounds.east", a.Bounds.East, b.Bounds.East)
	nums("bounds.south", a.Bounds.South, b.Bounds.South)
	nums("bounds.north", a.Bounds.North, b.Bounds.North)

	axis := func(name string, x, y *field.Axis) {
		switch {
		case x == nil && y == nil:
			return
		case x == nil:
			diffs = append(diffs, Difference{name, "added", "", "present"})
			return
		case y == nil:
			diffs = append(diffs, Difference{name, "removed", "present", ""})
			return
		}

		switch {
		case x.HasRange && !y.HasRange:
			diffs = append(diffs, Difference{name + ".range", "removed", "present", ""})
		case !x.HasRange && y.HasRange:
			diffs = append(diffs, Difference{name + ".range", "added", "", "present"})
		case x.HasRange && y.HasRange:
			nums(name+".min", float64(x.Min), float64(y.Min))
			nums(name+".max", float64(x.Max), float64(y.Max))
		}

		if (len(x.Array) == 0) != (len(y.Array) == 0) {
			diffs = append(diffs, Difference{name + ".array", "empty", strconv.Itoa(len(x.Array)), strconv.Itoa(len(y.Array))})
			return
		}
		if len(x.Array) == 0 {
			return
		}
		sx, sy := summarize(x.Array), summarize(y.Array)
		ints(name+".array.count", sx.count, sy.count)
		nums(name+".array.mean", sx.mean, sy.mean)
		nums(name+".array.std", sx.std, sy.std)
		nums(name+".array.min", sx.min, sy.min)
		nums(name+".array.max", sx.max, sy.max)
	}

	axis("u", &a.U, &b.U)
	axis("v", &a.V, &b.V)
	axis("speed", a.Speed, b.Speed)
	axis("mask", a.Mask, b.Mask)
	return diffs
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
