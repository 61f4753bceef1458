// Package renderer draws the wind layer's drawables with raylib.
package renderer

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/options"
	"github.com/pthm-cable/windlayer/particles"
)

// Projection maps geographic coordinates to the screen.
type Projection interface {
	LonLatToScreen(lon, lat float64) (x, y float64)
}

// FlowRenderer renders particle trails with fading tails.
type FlowRenderer struct {
	colors []string
	ramp   []rl.Color

	// MaxJump is the longest screen segment drawn; longer ones cross the
	// antimeridian seam and are skipped.
	MaxJump float32
}

// NewFlowRenderer creates a new flow renderer.
func NewFlowRenderer(screenW int32) *FlowRenderer {
	return &FlowRenderer{MaxJump: float32(screenW) / 2}
}

// refreshRamp reparses the color ramp when the trail colors changed.
func (r *FlowRenderer) refreshRamp(colors []string) {
	if slices.Equal(r.colors, colors) {
		return
	}
	r.colors = slices.Clone(colors)
	r.ramp = r.ramp[:0]
	for _, s := range colors {
		c, err := options.ParseColor(s)
		if err != nil {
			// Options were validated; only reachable with a hand-built Trails.
			c.R, c.G, c.B, c.A = 255, 255, 255, 255
		}
		r.ramp = append(r.ramp, rl.NewColor(c.R, c.G, c.B, c.A))
	}
}

// Draw renders every trail with additive blending.
func (r *FlowRenderer) Draw(t *particles.Trails, proj Projection) int {
	if !t.Show() {
		return 0
	}
	r.refreshRamp(t.Colors)

	rl.BeginBlendMode(rl.BlendAdditive)
	drawn := 0
	for i, line := range t.Lines {
		pts := t.Line(i)
		if len(pts) < 2 {
			continue
		}
		base := rl.White
		if line.ColorIndex < len(r.ramp) {
			base = r.ramp[line.ColorIndex]
		}

		x0, y0 := proj.LonLatToScreen(pts[0].Lon, pts[0].Lat)
		prev := rl.Vector2{X: float32(x0), Y: float32(y0)}
		for j := 1; j < len(pts); j++ {
			x, y := proj.LonLatToScreen(pts[j].Lon, pts[j].Lat)
			cur := rl.Vector2{X: float32(x), Y: float32(y)}

			dx := cur.X - prev.X
			if dx > r.MaxJump || dx < -r.MaxJump {
				prev = cur
				continue
			}

			// Quadratic falloff toward the tail
			fade := 1 - float32(j-1)/float32(len(pts)-1)
			fade *= fade
			c := base
			c.A = uint8(float32(base.A) * fade)
			if c.A >= 1 {
				rl.DrawLineEx(prev, cur, line.Width, c)
			}
			prev = cur
		}
		drawn++
	}
	rl.EndBlendMode()
	return drawn
}

// DrawOutline renders the field's bounding rectangle.
func DrawOutline(o *particles.Outline, proj Projection) {
	if !o.Show() {
		return
	}
	b := o.Bounds
	corners := [5][2]float64{
		{b.West, b.North}, {b.East, b.North}, {b.East, b.South}, {b.West, b.South}, {b.West, b.North},
	}
	color := rl.NewColor(255, 200, 80, 160)
	for i := 0; i < 4; i++ {
		x0, y0 := proj.LonLatToScreen(corners[i][0], corners[i][1])
		x1, y1 := proj.LonLatToScreen(corners[i+1][0], corners[i+1][1])
		rl.DrawLineEx(
			rl.Vector2{X: float32(x0), Y: float32(y0)},
			rl.Vector2{X: float32(x1), Y: float32(y1)},
			1.5,
			color,
		)
	}
}
