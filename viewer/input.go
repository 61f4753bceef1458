package viewer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windlayer/scene"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	// Window resize propagation
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		v.panel.visible = !v.panel.visible
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.hud.visible = !v.hud.visible
	}

	// Layer controls
	if rl.IsKeyPressed(rl.KeyS) {
		v.layer.SetShow(!v.layer.Show())
	}
	if rl.IsKeyPressed(rl.KeyZ) {
		v.layer.ZoomTo(v.flyDuration())
	}
	if rl.IsKeyPressed(rl.KeyM) {
		v.toggleMode()
	}

	// Time steps with [ and ]
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		v.stepBy(1)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		v.stepBy(-1)
	}

	v.handleCameraInput()
	v.updateHover()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := rl.GetScreenWidth()
	h := rl.GetScreenHeight()
	v.host.Resize(float64(w), float64(h))
	v.flow.MaxJump = float32(w) / 2
}

// toggleMode morphs between the 2D and Columbus views.
func (v *Viewer) toggleMode() {
	if v.cam.Mode() == scene.Morphing {
		return
	}
	target := scene.Columbus
	if v.cam.Mode() == scene.Columbus {
		target = scene.Scene2D
	}
	v.cam.Morph(target, v.cfg.Camera.MorphDuration)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	mouse := rl.GetMousePosition()
	overPanel := v.panel.contains(mouse)

	// Arrow key panning, in screen pixels
	const panStep = 8.0
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(-panStep, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(panStep, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, -panStep)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, panStep)
	}

	// Drag to pan; a drag that starts on the panel belongs to the panel.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.dragging = !overPanel
	}
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		v.dragging = false
	}
	if v.dragging {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			v.cam.Pan(float64(d.X), float64(d.Y))
		}
	}

	// Wheel zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		factor := math.Pow(v.cfg.Camera.ZoomStep, float64(wheel))
		v.cam.ZoomAt(factor, float64(mouse.X), float64(mouse.Y))
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(v.cfg.Camera.ZoomStep)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(1 / v.cfg.Camera.ZoomStep)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// updateHover queries the wind under the cursor.
func (v *Viewer) updateHover() {
	mouse := rl.GetMousePosition()
	lon, lat, ok := v.cam.PickLonLat(float64(mouse.X), float64(mouse.Y))
	if !ok {
		v.hud.hover.onGlobe = false
		return
	}
	// Picks are continuous from the view center; bring lon back into the
	// field's copy of the globe.
	west := v.layer.WindData().Bounds.West
	lon -= 360 * math.Floor((lon-west)/360)
	r, inField := v.layer.DataAtLonLat(lon, lat)
	v.hud.hover = hoverState{onGlobe: true, lon: lon, lat: lat, inField: inField, result: r}
}
