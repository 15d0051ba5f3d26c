package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/config"
	"github.com/pthm-cable/folio/systems"
)

const (
	maxExprLen  = 128
	maxNoise    = 1.0
	maxFriction = 1.0
)

// ControlsPanel edits the force expressions and field parameters.
type ControlsPanel struct {
	renderer *Renderer
	controls *systems.Controls
	x, y     int32
	width    int32
	height   int32
	visible  bool
	step     float64

	radial, tangential         string
	editRadial, editTangential bool

	status      string
	statusIsErr bool
}

// NewControlsPanel creates a hidden panel bound to controls, seeded with the
// configured expressions.
func NewControlsPanel(controls *systems.Controls, cfg config.ControlsConfig, x, y int32) *ControlsPanel {
	return &ControlsPanel{
		renderer:   NewRenderer(),
		controls:   controls,
		x:          x,
		y:          y,
		width:      int32(cfg.PanelWidth),
		step:       cfg.Step,
		radial:     cfg.Radial,
		tangential: cfg.Tangential,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
	if !visible {
		c.editRadial, c.editTangential = false, false
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.SetVisible(!c.visible)
	return c.visible
}

// Editing reports whether a text box currently has keyboard focus.
func (c *ControlsPanel) Editing() bool {
	return c.visible && (c.editRadial || c.editTangential)
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height)
}

// Expressions returns the current text box contents.
func (c *ControlsPanel) Expressions() (radial, tangential string) {
	return c.radial, c.tangential
}

// Apply compiles the text box contents into the field and updates the status line.
func (c *ControlsPanel) Apply() error {
	if err := c.controls.Apply(c.radial, c.tangential); err != nil {
		c.status, c.statusIsErr = err.Error(), true
		return err
	}
	c.status, c.statusIsErr = "Applied", false
	return nil
}

// Draw renders the panel and handles its widgets.
func (c *ControlsPanel) Draw() {
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	fh := float32(r.Theme.FieldHeight)
	x := c.x + pad
	inner := float32(c.width - 2*pad)

	// Height from the previous frame; the first visible frame draws with an estimate.
	if c.height == 0 {
		c.height = 420
	}
	r.DrawPanel(c.x, c.y, c.width, c.height)

	y := c.y + pad
	y = r.DrawSectionHeader(x, y, "Force field")

	y = r.DrawLabel(x, y, "Radial force f(x, t)")
	if gui.TextBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: fh}, &c.radial, maxExprLen, c.editRadial) {
		c.editRadial = !c.editRadial
		if c.editRadial {
			c.editTangential = false
		}
	}
	y += r.Theme.FieldHeight + 6

	y = r.DrawLabel(x, y, "Tangential force f(x, t)")
	if gui.TextBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: fh}, &c.tangential, maxExprLen, c.editTangential) {
		c.editTangential = !c.editTangential
		if c.editTangential {
			c.editRadial = false
		}
	}
	y += r.Theme.FieldHeight + 8

	half := (inner - float32(pad)) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: fh}, "Apply") {
		c.editRadial, c.editTangential = false, false
		_ = c.Apply()
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + float32(pad), Y: float32(y), Width: half, Height: fh}, "Reset") {
		c.controls.Reset()
		c.status, c.statusIsErr = "Particles reset", false
	}
	y += r.Theme.FieldHeight + 10

	params := c.controls.Params()
	y = c.slider(x, y, inner, "Noise", params.Noise, maxNoise, c.controls.SetNoise)
	y = c.slider(x, y, inner, "Friction", params.Friction, maxFriction, c.controls.SetFriction)

	y = r.DrawLabelValue(x, y, "State", c.controls.State().String())
	if c.status != "" {
		color := r.Theme.OKColor
		if c.statusIsErr {
			color = r.Theme.ErrorColor
		}
		y = r.DrawWrapped(x, y, int32(inner), c.status, color)
	}
	y = r.DrawLabel(x, y+4, "x: distance to pointer   t: seconds")

	c.height = y - c.y + pad
}

// slider draws a labelled, snapped slider and returns the new Y position.
func (c *ControlsPanel) slider(x, y int32, width float32, label string, value, maxValue float64, set func(float64)) int32 {
	r := c.renderer
	r.DrawLabelValue(x, y, label, fmt.Sprintf("%.2f", value))
	y += r.Theme.LineHeight

	got := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: width, Height: 16},
		"", "",
		float32(value), 0, float32(maxValue),
	)
	if v, changed := systems.SliderChange(got, value, c.step, 0, maxValue); changed {
		set(v)
	}
	return y + 26
}
