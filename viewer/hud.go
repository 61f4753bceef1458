package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/field"
)

type hoverState struct {
	onGlobe  bool
	lon, lat float64
	inField  bool
	result   field.Result
}

// hud draws the status lines and the hover readout in the bottom-left
// corner.
type hud struct {
	visible bool
	hover   hoverState
	lines   int

	// status is rebuilt only when the host asked for a render.
	status []string
}

func (h *hud) refresh(v *Viewer) {
	vp := v.layer.Viewport()
	o := v.layer.Options()
	h.status = []string{
		fmt.Sprintf("Step %d/%d  %s", v.step+1, len(v.files), v.files[v.step]),
		fmt.Sprintf("Mode %s  Pixel size %.0f  Lon [%.1f, %.1f]  Lat [%.1f, %.1f]",
			vp.SceneMode, vp.PixelSize, vp.LonRange[0], vp.LonRange[1], vp.LatRange[0], vp.LatRange[1]),
		fmt.Sprintf("Particles %d  Speed factor %.2f  Show %v", o.ParticleCount(), o.SpeedFactor, v.layer.Show()),
	}
}

func (h *hud) Draw(v *Viewer) {
	rl.DrawFPS(int32(v.cam.ViewportW)-90, 10)
	if !h.visible {
		return
	}

	lines := append([]string(nil), h.status...)
	lines = append(lines, fmt.Sprintf("Trails %d", h.lines))
	if v.paused {
		lines = append(lines, "PAUSED")
	}
	lines = append(lines, h.hoverText())

	const lineHeight = 18
	x := int32(10)
	y := int32(v.cam.ViewportH) - int32(len(lines))*lineHeight - 10
	rl.DrawRectangle(x-5, y-5, 560, int32(len(lines))*lineHeight+10, rl.NewColor(0, 0, 0, 150))
	for _, line := range lines {
		rl.DrawText(line, x, y, 14, rl.LightGray)
		y += lineHeight
	}
}

func (h *hud) hoverText() string {
	switch {
	case !h.hover.onGlobe:
		return "Cursor off globe"
	case !h.hover.inField:
		return fmt.Sprintf("%.2f, %.2f  outside data", h.hover.lon, h.hover.lat)
	}
	r := h.hover.result
	iv := r.Interpolated
	text := fmt.Sprintf("%.2f, %.2f  cell (%d, %d)  u %.2f  v %.2f  speed %.2f  from %.0f°",
		h.hover.lon, h.hover.lat, r.X, r.Y, iv.U, iv.V, iv.Speed, iv.Direction())
	if r.Mask == 0 {
		text += "  masked"
	}
	return text
}
