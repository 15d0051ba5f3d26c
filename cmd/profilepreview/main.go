// Force profile preview tool - plots radial and tangential profiles over distance.
//
// Usage: go run ./cmd/profilepreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/folio/forcefn"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	plotX        = 20
	plotY        = 20
	plotWidth    = 600
	plotHeight   = 420
	panelX       = plotX + plotWidth + 20
	panelWidth   = windowWidth - panelX - 20
	samples      = 300
)

var (
	radialColor     = color.RGBA{R: 230, G: 90, B: 70, A: 255}
	tangentialColor = color.RGBA{R: 70, G: 140, B: 230, A: 255}
)

// curve is one profile sampled over distance.
type curve struct {
	src  string
	prog *forcefn.Program
	err  error
	ys   []float64
}

func (c *curve) compile() {
	prog, err := forcefn.Compile(c.src)
	c.err = err
	if err == nil {
		c.prog = prog
	}
}

// sample evaluates the last good program. Non-finite results are stored as NaN
// and skipped when plotting.
func (c *curve) sample(maxX, t float64) {
	if c.ys == nil {
		c.ys = make([]float64, samples)
	}
	for i := range c.ys {
		x := maxX * float64(i) / float64(samples-1)
		y := math.NaN()
		if c.prog != nil {
			if v, err := c.prog.Eval(x, t); err == nil && !math.IsInf(v, 0) {
				y = v
			}
		}
		c.ys[i] = y
	}
}

func finiteRange(sets ...[]float64) (lo, hi float64) {
	var vals []float64
	for _, ys := range sets {
		for _, y := range ys {
			if !math.IsNaN(y) {
				vals = append(vals, y)
			}
		}
	}
	if len(vals) == 0 {
		return -1, 1
	}
	lo, hi = floats.Min(vals), floats.Max(vals)
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Force Profile Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	radial := &curve{src: "sin(2t - x)"}
	tangential := &curve{src: "0"}
	radial.compile()
	tangential.compile()

	var t float32
	maxX := float32(40)
	animating := false
	editRadial, editTangential := false, false

	for !rl.WindowShouldClose() {
		if animating {
			t += rl.GetFrameTime()
		}

		radial.sample(float64(maxX), float64(t))
		tangential.sample(float64(maxX), float64(t))
		lo, hi := finiteRange(radial.ys, tangential.ys)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Plot frame and zero line
		rl.DrawRectangleLines(plotX, plotY, plotWidth, plotHeight, rl.DarkGray)
		toScreen := func(i int, y float64) rl.Vector2 {
			sx := float32(plotX) + float32(i)/float32(samples-1)*plotWidth
			sy := float32(plotY+plotHeight) - float32((y-lo)/(hi-lo))*plotHeight
			return rl.Vector2{X: sx, Y: sy}
		}
		if lo < 0 && hi > 0 {
			z := toScreen(0, 0)
			rl.DrawLine(plotX, int32(z.Y), plotX+plotWidth, int32(z.Y), rl.LightGray)
		}
		for _, c := range []struct {
			ys  []float64
			col color.RGBA
		}{{radial.ys, radialColor}, {tangential.ys, tangentialColor}} {
			for i := 1; i < samples; i++ {
				if math.IsNaN(c.ys[i-1]) || math.IsNaN(c.ys[i]) {
					continue
				}
				rl.DrawLineEx(toScreen(i-1, c.ys[i-1]), toScreen(i, c.ys[i]), 2, c.col)
			}
		}

		statsY := int32(plotY + plotHeight + 10)
		rl.DrawText(fmt.Sprintf("y: %.3f .. %.3f", lo, hi), plotX, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("x: 0 .. %.1f   t: %.2f", maxX, t), plotX, statsY+20, 16, rl.DarkGray)

		// Control panel
		y := float32(plotY)
		rl.DrawText("Force Profiles", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		rl.DrawText("Radial f(x, t)", panelX, int32(y), 14, radialColor)
		y += 18
		if gui.TextBox(rl.Rectangle{X: panelX, Y: y, Width: panelWidth, Height: 24}, &radial.src, 128, editRadial) {
			editRadial = !editRadial
			if !editRadial {
				radial.compile()
			}
		}
		y += 28
		y = drawError(radial.err, y)

		rl.DrawText("Tangential g(x, t)", panelX, int32(y), 14, tangentialColor)
		y += 18
		if gui.TextBox(rl.Rectangle{X: panelX, Y: y, Width: panelWidth, Height: 24}, &tangential.src, 128, editTangential) {
			editTangential = !editTangential
			if !editTangential {
				tangential.compile()
			}
		}
		y += 28
		y = drawError(tangential.err, y)

		rl.DrawText("Time t", panelX, int32(y), 14, rl.Gray)
		y += 18
		t = gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 60, Height: 20}, "", fmt.Sprintf("%.2f", t), t, 0, 20)
		y += 30

		rl.DrawText("Max distance", panelX, int32(y), 14, rl.Gray)
		y += 18
		maxX = gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 60, Height: 20}, "", fmt.Sprintf("%.0f", maxX), maxX, 1, 100)
		y += 35

		label := "Animate"
		if animating {
			label = "Pause"
		}
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 100, Height: 28}, label) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 110, Y: y, Width: 100, Height: 28}, "t = 0") {
			t = 0
		}

		rl.EndDrawing()
	}
}

// drawError shows the last compile error under a text box and returns the next y.
func drawError(err error, y float32) float32 {
	if err == nil {
		return y + 6
	}
	rl.DrawText(err.Error(), panelX, int32(y), 12, rl.Red)
	return y + 22
}
