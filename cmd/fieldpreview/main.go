// Field preview tool - speed heatmap of a wind field with color domain
// sliders.
//
// Usage: go run ./cmd/fieldpreview [-config config.yaml] wind.json
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/config"
	"github.com/pthm-cable/windlayer/field"
	"github.com/pthm-cable/windlayer/options"
)

const (
	windowWidth  = 1100
	windowHeight = 640
	previewW     = 720
	previewH     = 360
	panelWidth   = windowWidth - previewW - 30
)

// Domain is the speed range mapped onto the ramp.
type Domain struct {
	Min, Max float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fieldpreview [-config config.yaml] field-file")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	f, err := field.Load(flag.Arg(0))
	if err != nil {
		slog.Error("failed to load field", "error", err)
		os.Exit(1)
	}
	ramp, err := cfg.Derived.Options.Ramp()
	if err != nil {
		slog.Error("invalid color ramp", "error", err)
		os.Exit(1)
	}
	stats := field.ComputeStats(f)
	flipY := cfg.Derived.Options.FlipY

	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(f.Width, f.Height, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	fieldDomain := Domain{Min: f.Speed.Min, Max: f.Speed.Max}
	domain := fieldDomain
	if d := cfg.Derived.Options.Domain; d != nil {
		domain = Domain{Min: float32(d.Min), Max: float32(d.Max)}
	}
	sliderMax := f.Speed.Max * 1.5
	if sliderMax <= 0 {
		sliderMax = 1
	}
	pixels := make([]color.RGBA, f.Len())

	needsRegen := true
	for !rl.WindowShouldClose() {
		if needsRegen {
			fillPixels(pixels, f, domain, ramp, flipY)
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(f.Width), Height: float32(f.Height)},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		// Stats and hover readout
		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("%dx%d  W %.1f E %.1f S %.1f N %.1f", f.Width, f.Height,
			f.Bounds.West, f.Bounds.East, f.Bounds.South, f.Bounds.North), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Speed min %.2f  max %.2f  mean %.2f  p90 %.2f  calm %d  valid %d/%d",
			stats.SpeedMin, stats.SpeedMax, stats.SpeedMean, stats.SpeedP90,
			stats.CalmCells, stats.ValidCells, stats.Cells), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(hoverText(f, flipY, rl.GetMousePosition()), 15, statsY+40, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Color Domain", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Domain min (slowest color)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newMin := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprintf("%.0f", sliderMax),
			domain.Min, 0, sliderMax,
		)
		rl.DrawText(fmt.Sprintf("%.2f", domain.Min), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newMin != domain.Min && newMin < domain.Max {
			domain.Min = newMin
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Domain max (fastest color)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newMax := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprintf("%.0f", sliderMax),
			domain.Max, 0, sliderMax,
		)
		rl.DrawText(fmt.Sprintf("%.2f", domain.Max), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newMax != domain.Max && newMax > domain.Min {
			domain.Max = newMax
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Field Range") {
			domain = fieldDomain
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "P10 - P90") {
			domain = Domain{Min: float32(stats.SpeedP10), Max: float32(stats.SpeedP90)}
			needsRegen = true
		}
		panelY += 55

		// Ramp swatches
		for i, c := range ramp {
			rl.DrawRectangle(int32(panelX)+int32(i)*24, int32(panelY), 22, 16, rl.NewColor(c.R, c.G, c.B, 255))
		}
		panelY += 30

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range domainYAML(domain) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range domainYAML(domain) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func domainYAML(d Domain) []string {
	return []string{
		"layer:",
		"  domain:",
		fmt.Sprintf("    min: %.2f", d.Min),
		fmt.Sprintf("    max: %.2f", d.Max),
	}
}

// fillPixels colors every cell by speed over the domain. Image row 0 is
// north. Masked cells are transparent gray.
func fillPixels(pixels []color.RGBA, f *field.Field, d Domain, ramp []color.RGBA, flipY bool) {
	span := d.Max - d.Min
	for row := 0; row < f.Height; row++ {
		y := f.Height - 1 - row
		if flipY {
			y = row
		}
		for x := 0; x < f.Width; x++ {
			i := f.Index(x, y)
			if f.Mask.Array[i] == 0 {
				pixels[row*f.Width+x] = color.RGBA{R: 128, G: 128, B: 128, A: 80}
				continue
			}
			t := 0.0
			if span > 0 {
				t = float64((f.Speed.Array[i] - d.Min) / span)
			}
			pixels[row*f.Width+x] = options.Blend(ramp, t)
		}
	}
}

// hoverText describes the field under the cursor.
func hoverText(f *field.Field, flipY bool, mouse rl.Vector2) string {
	px := (float64(mouse.X) - 10) / previewW
	py := (float64(mouse.Y) - 10) / previewH
	if px < 0 || px > 1 || py < 0 || py > 1 {
		return ""
	}
	lon := f.Bounds.West + px*f.Bounds.Width()
	lat := f.Bounds.North - py*f.Bounds.Height()
	r, ok := field.Query(f, flipY, lon, lat)
	if !ok {
		return ""
	}
	iv := r.Interpolated
	return fmt.Sprintf("%.2f, %.2f  u %.2f  v %.2f  speed %.2f  from %.0f  mask %.0f",
		lon, lat, iv.U, iv.V, iv.Speed, iv.Direction(), r.Mask)
}
