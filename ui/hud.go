package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Particles        int
	Tick             int64
	Elapsed          float64
	FPS              int32
	State            string
	RadialFaults     uint64
	TangentialFaults uint64
	ScreenHeight     int32
	PanelVisible     bool
	ToggleKey        string
}

// HUD renders the heads-up display in the bottom-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	fs := h.renderer.Theme.FontSize
	y := data.ScreenHeight - 3*h.renderer.Theme.LineHeight - 6

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Tick: %d | t: %.1fs | FPS: %d", data.Particles, data.Tick, data.Elapsed, data.FPS),
		10, y, fs, rl.Gray,
	)
	y += h.renderer.Theme.LineHeight

	faults := fmt.Sprintf("Profiles: %s", data.State)
	if data.RadialFaults > 0 || data.TangentialFaults > 0 {
		faults += fmt.Sprintf(" | faults r=%d t=%d", data.RadialFaults, data.TangentialFaults)
	}
	rl.DrawText(faults, 10, y, fs, rl.Gray)
	y += h.renderer.Theme.LineHeight

	if !data.PanelVisible {
		rl.DrawText(fmt.Sprintf("[%s] controls", data.ToggleKey), 10, y, fs, rl.DarkGray)
	}
}
