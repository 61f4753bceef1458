package viewer

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/options"
)

// panel is the options panel. Each control writes a one-field partial
// through Layer.UpdateOptions.
type panel struct {
	x, y, width float32
	height      float32
	visible     bool
}

func newPanel(x, y, width float32) *panel {
	return &panel{x: x, y: y, width: width, visible: true}
}

func (p *panel) contains(pt rl.Vector2) bool {
	return p.visible && rl.CheckCollisionPointRec(pt, rl.Rectangle{X: p.x, Y: p.y, Width: p.width, Height: p.height})
}

// Draw renders the panel and applies any change.
func (p *panel) Draw(v *Viewer) {
	if !p.visible {
		return
	}
	o := v.layer.Options()

	const (
		pad    = 8
		rowH   = 20
		labelH = 16
	)
	if p.height > 0 {
		rl.DrawRectangle(int32(p.x), int32(p.y), int32(p.width), int32(p.height), rl.NewColor(10, 14, 24, 210))
	}

	x := p.x + pad
	y := p.y + pad
	w := p.width - 2*pad - 50

	rl.DrawText("Wind layer", int32(x), int32(y), 16, rl.White)
	y += 26

	slider := func(label, lo, hi string, value, min, max float32, format string) float32 {
		rl.DrawText(label, int32(x), int32(y), 12, rl.Gray)
		y += labelH
		nv := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: w, Height: rowH}, lo, hi, value, min, max)
		rl.DrawText(fmt.Sprintf(format, value), int32(x+w+6), int32(y+3), 14, rl.LightGray)
		y += rowH + 8
		return nv
	}
	toggle := func(label string, on bool) bool {
		text := "[ ] " + label
		if on {
			text = "[x] " + label
		}
		clicked := gui.Button(rl.Rectangle{X: x, Y: y, Width: p.width - 2*pad, Height: rowH}, text)
		y += rowH + 4
		return clicked
	}

	var partial options.Partial
	changed := false

	if sf := slider("Speed factor", "0.1", "5", float32(o.SpeedFactor), 0.1, 5, "%.2f"); sf != float32(o.SpeedFactor) {
		partial.SpeedFactor = options.Ptr(float64(sf))
		changed = true
	}
	if ts := slider("Texture size", "8", "256", float32(o.ParticlesTextureSize), 8, 256, "%.0f"); int(ts) != o.ParticlesTextureSize {
		partial.ParticlesTextureSize = options.Ptr(int(ts))
		changed = true
	}
	if dr := slider("Drop rate", "0", "0.05", float32(o.DropRate), 0, 0.05, "%.3f"); dr != float32(o.DropRate) {
		partial.DropRate = options.Ptr(float64(dr))
		changed = true
	}
	if lw := slider("Max line width", "1", "6", float32(o.LineWidth.Max), 1, 6, "%.1f"); lw != float32(o.LineWidth.Max) {
		partial.LineWidth = &options.RangePartial{Max: options.Ptr(float64(lw))}
		changed = true
	}
	if ll := slider("Max line length", "20", "128", float32(o.LineLength.Max), 20, 128, "%.0f"); ll != float32(o.LineLength.Max) {
		partial.LineLength = &options.RangePartial{Max: options.Ptr(float64(ll))}
		changed = true
	}

	if toggle("Dynamic", o.Dynamic) {
		partial.Dynamic = options.Ptr(!o.Dynamic)
		changed = true
	}
	if toggle("Use viewer bounds", o.UseViewerBounds) {
		partial.UseViewerBounds = options.Ptr(!o.UseViewerBounds)
		changed = true
	}
	if toggle("Flip Y", o.FlipY) {
		partial.FlipY = options.Ptr(!o.FlipY)
		changed = true
	}
	if toggle("Show layer", v.layer.Show()) {
		v.layer.SetShow(!v.layer.Show())
	}

	y += 4
	bw := (p.width - 3*pad) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: rowH}, "Zoom to data") {
		v.layer.ZoomTo(v.flyDuration())
	}
	if gui.Button(rl.Rectangle{X: x + bw + pad, Y: y, Width: bw, Height: rowH}, "Next step") {
		v.stepBy(1)
	}
	y += rowH + pad

	p.height = y - p.y

	if changed {
		if err := v.layer.UpdateOptions(partial); err != nil {
			slog.Warn("rejected options from panel", "error", err)
		}
	}
}
