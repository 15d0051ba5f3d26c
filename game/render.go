package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/folio/telemetry"
	"github.com/pthm-cable/folio/ui"
)

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// camera3D converts the simulation camera into raylib's representation.
func (g *Game) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(g.camera.Position),
		Target:     vec3(g.camera.Target),
		Up:         vec3(g.camera.Up),
		Fovy:       float32(g.camera.FovY),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the last captured frame, the HUD and the controls panel.
func (g *Game) Draw() {
	if g.unloaded || g.headless {
		return
	}
	g.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	bg := g.cfg.Render.Background
	rl.ClearBackground(rl.NewColor(bg[0], bg[1], bg[2], 255))

	rl.BeginMode3D(g.camera3D())
	g.spheres.Draw(g.frame)
	rl.EndMode3D()

	if g.overlays.IsEnabled(ui.OverlayTarget) {
		g.drawTarget()
	}

	radialFaults, tangentialFaults := g.field.TotalFaults()
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(ui.HUDData{
			Particles:        g.field.Count(),
			Tick:             g.field.Tick(),
			Elapsed:          g.field.Elapsed(),
			FPS:              rl.GetFPS(),
			State:            g.field.State().String(),
			RadialFaults:     radialFaults,
			TangentialFaults: tangentialFaults,
			ScreenHeight:     int32(g.screenHeight),
			PanelVisible:     g.panel.IsVisible(),
			ToggleKey:        g.cfg.Controls.ToggleKey,
		})
	}
	g.panel.Draw()

	rl.EndDrawing()
	g.perf.EndFrame()
}

// drawTarget marks the pointer the field is pulled toward.
func (g *Game) drawTarget() {
	p := g.controls.Pointer()
	rl.DrawCircleLines(int32(p.X), int32(p.Y), 8, rl.Gray)
	rl.DrawLine(int32(p.X)-12, int32(p.Y), int32(p.X)+12, int32(p.Y), rl.Gray)
	rl.DrawLine(int32(p.X), int32(p.Y)-12, int32(p.X), int32(p.Y)+12, rl.Gray)
}
