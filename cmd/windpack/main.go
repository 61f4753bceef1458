// windpack converts wind field files to zstd-compressed msgpack and prints
// speed statistics for each.
//
// Usage: windpack [-out dir] [-normalized] [-stats stats.csv] wind1.json wind2.json ...
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/windlayer/field"
)

// FileStats is one row of the stats output.
type FileStats struct {
	Path   string `csv:"path"`
	Output string `csv:"output"`
	Width  int    `csv:"width"`
	Height int    `csv:"height"`
	Bytes  int64  `csv:"bytes"`
	field.Stats
}

func main() {
	outDir := flag.String("out", "", "Output directory (empty = next to each input)")
	normalized := flag.Bool("normalized", false, "Store the derived speed and mask axes")
	statsPath := flag.String("stats", "", "Stats CSV (empty = stdout)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: windpack [flags] files...")
		os.Exit(2)
	}

	var rows []FileStats
	for _, path := range flag.Args() {
		start := time.Now()
		row, err := pack(path, *outDir, *normalized)
		if err != nil {
			slog.Error("pack failed", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("packed", "path", path, "output", row.Output, "bytes", row.Bytes, "elapsed", time.Since(start))
		rows = append(rows, row)
	}

	var out io.Writer = os.Stdout
	if *statsPath != "" {
		f, err := os.Create(*statsPath)
		if err != nil {
			slog.Error("creating stats file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		slog.Error("writing stats", "error", err)
		os.Exit(1)
	}
}

// outputPath replaces the input's field extension with .msgpack.zst.
func outputPath(path, outDir string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range []string{".msgpack.zst", ".msgpack", ".json"} {
		if strings.HasSuffix(lower, ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	return filepath.Join(dir, base+".msgpack.zst")
}

// pack validates path, writes its packed copy and returns its stats.
func pack(path, outDir string, normalized bool) (FileStats, error) {
	raw, err := field.LoadRaw(path)
	if err != nil {
		return FileStats{}, err
	}
	f, err := field.Normalize(raw)
	if err != nil {
		return FileStats{}, fmt.Errorf("%s: %w", path, err)
	}
	if normalized {
		raw = f.Raw()
	}

	out := outputPath(path, outDir)
	if out == path {
		return FileStats{}, fmt.Errorf("%s: output would overwrite input", path)
	}
	if err := field.Save(out, raw); err != nil {
		return FileStats{}, err
	}
	info, err := os.Stat(out)
	if err != nil {
		return FileStats{}, fmt.Errorf("reading output size: %w", err)
	}

	return FileStats{
		Path:   path,
		Output: out,
		Width:  f.Width,
		Height: f.Height,
		Bytes:  info.Size(),
		Stats:  field.ComputeStats(f),
	}, nil
}
