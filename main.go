package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/config"
	"github.com/pthm-cable/windlayer/logging"
	"github.com/pthm-cable/windlayer/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config or time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [field files...]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := logging.New(cfg.Log, cfg.Derived.LogLevel)
	logger.Install()
	defer logger.Close()

	opts := viewer.Options{
		Files:     flag.Args(),
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := viewer.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxFrames > 0 && v.Frame() >= *maxFrames {
			slog.Info("max frames reached", "frame", v.Frame())
			break
		}
	}
}
