package game

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/ui"
)

// keyFor maps a configured key name to a raylib key code. Unknown names fall
// back to the grave accent.
func keyFor(name string) int32 {
	switch strings.ToLower(name) {
	case "`", "grave", "":
		return rl.KeyGrave
	case "f1":
		return rl.KeyF1
	case "tab":
		return rl.KeyTab
	}
	if len(name) == 1 {
		c := strings.ToUpper(name)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return int32(c)
		}
	}
	return rl.KeyGrave
}

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Keys typed into an expression box are not overlay toggles.
	if g.overlays != nil && !g.panel.Editing() {
		if id, on, ok := g.overlays.HandleKeys(rl.IsKeyPressed); ok && id == ui.OverlayControls {
			g.panel.SetVisible(on)
		}
	}

	g.handlePointer()
}

// handlePointer tracks the drag gesture that steers the field target.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		overPanel := g.panel != nil && g.panel.IsVisible() && g.panel.Contains(mouse.X, mouse.Y)
		inside := mouse.X >= 0 && mouse.Y >= 0 && mouse.X <= g.screenWidth && mouse.Y <= g.screenHeight
		if !overPanel && inside {
			g.dragging = true
			g.controls.SetPointer(mouse.X, mouse.Y)
		}
	}

	if g.dragging {
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			g.controls.SetPointer(mouse.X, mouse.Y)
		} else {
			g.dragging = false
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.resize(w, h)
}

// resize recentres the pointer and respawns the population across the new
// visible area.
func (g *Game) resize(w, h float32) {
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.controls.SetViewport(w, h)
	g.controls.CenterPointer()
	g.field.SetBounds(g.spawnBounds())
	g.field.Respawn()
}
