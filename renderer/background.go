package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/camera"
)

// BackgroundRenderer fills the globe and draws a graticule.
type BackgroundRenderer struct {
	Space    rl.Color
	Globe    rl.Color
	Grid     rl.Color
	GridStep float64
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer() *BackgroundRenderer {
	return &BackgroundRenderer{
		Space:    rl.NewColor(8, 10, 18, 255),
		Globe:    rl.NewColor(20, 34, 52, 255),
		Grid:     rl.NewColor(60, 80, 110, 90),
		GridStep: 30,
	}
}

// Draw renders every visible copy of the globe and its graticule.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.Space)

	// The antimeridian copy nearest the center; the globe repeats every w.
	seam, top := cam.LonLatToScreen(180, 90)
	_, bottom := cam.LonLatToScreen(180, -90)
	w := 360 * cam.Zoom
	h := bottom - top

	for k := -2.0; k <= 1; k++ {
		rl.DrawRectangle(int32(seam+k*w), int32(top), int32(w), int32(h), b.Globe)
	}

	for lon := -180.0; lon < 180; lon += b.GridStep {
		x, _ := cam.LonLatToScreen(lon, 0)
		for k := -1.0; k <= 1; k++ {
			rl.DrawLine(int32(x+k*w), int32(top), int32(x+k*w), int32(bottom), b.Grid)
		}
	}
	for lat := -90.0 + b.GridStep; lat < 90; lat += b.GridStep {
		_, y := cam.LonLatToScreen(0, lat)
		rl.DrawLine(0, int32(y), int32(cam.ViewportW), int32(y), b.Grid)
	}
}
