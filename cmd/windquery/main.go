// windquery samples a wind field at a list of points.
//
// Usage: windquery -field wind.json [-flip-y] < points.csv > results.csv
//
// The input CSV has lon and lat columns. Each output row carries the
// interpolated and original samples, the mask and the grid cell.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/windlayer/field"
)

// Point is one input row.
type Point struct {
	Lon float64 `csv:"lon"`
	Lat float64 `csv:"lat"`
}

// Row is one output row.
type Row struct {
	Lon       float64 `csv:"lon"`
	Lat       float64 `csv:"lat"`
	InBounds  bool    `csv:"in_bounds"`
	U         float64 `csv:"u"`
	V         float64 `csv:"v"`
	Speed     float64 `csv:"speed"`
	Direction float64 `csv:"direction"`
	OrigU     float64 `csv:"original_u"`
	OrigV     float64 `csv:"original_v"`
	OrigSpeed float64 `csv:"original_speed"`
	Mask      float64 `csv:"mask"`
	X         int     `csv:"x"`
	Y         int     `csv:"y"`
}

func main() {
	fieldPath := flag.String("field", "", "Wind field file (.json, .msgpack, .msgpack.zst)")
	flipY := flag.Bool("flip-y", false, "Rows are stored north to south")
	inPath := flag.String("in", "", "Input CSV (empty = stdin)")
	outPath := flag.String("out", "", "Output CSV (empty = stdout)")
	flag.Parse()

	if *fieldPath == "" {
		fmt.Fprintln(os.Stderr, "-field is required")
		os.Exit(2)
	}

	if err := run(*fieldPath, *flipY, *inPath, *outPath); err != nil {
		slog.Error("windquery failed", "error", err)
		os.Exit(1)
	}
}

func run(fieldPath string, flipY bool, inPath, outPath string) error {
	f, err := field.Load(fieldPath)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if inPath != "" {
		file, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer file.Close()
		in = file
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer file.Close()
		out = file
	}

	n, err := query(f, flipY, in, out)
	if err != nil {
		return err
	}
	slog.Info("points queried", "points", n, "field", f)
	return nil
}

// query answers every point in in and writes one row per point to out.
func query(f *field.Field, flipY bool, in io.Reader, out io.Writer) (int, error) {
	var points []Point
	if err := gocsv.Unmarshal(in, &points); err != nil {
		return 0, fmt.Errorf("reading points: %w", err)
	}

	rows := make([]Row, 0, len(points))
	for _, p := range points {
		row := Row{Lon: p.Lon, Lat: p.Lat}
		if r, ok := field.Query(f, flipY, p.Lon, p.Lat); ok {
			row.InBounds = true
			row.U, row.V, row.Speed = r.Interpolated.U, r.Interpolated.V, r.Interpolated.Speed
			row.Direction = r.Interpolated.Direction()
			row.OrigU, row.OrigV, row.OrigSpeed = r.Original.U, r.Original.V, r.Original.Speed
			row.Mask = r.Mask
			row.X, row.Y = r.X, r.Y
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(rows, out); err != nil {
		return 0, fmt.Errorf("writing results: %w", err)
	}
	return len(rows), nil
}
