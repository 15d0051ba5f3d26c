package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/bridge"
	"github.com/pthm-cable/folio/config"
)

//go:embed shaders/instanced.vs
var instancedVS string

//go:embed shaders/lambert.fs
var lambertFS string

// SphereBatch draws every particle as a lit sphere in a single instanced call.
type SphereBatch struct {
	mesh     rl.Mesh
	material rl.Material
	shader   rl.Shader

	lightPosLoc int32
	ambientLoc  int32

	transforms  []rl.Matrix
	initialized bool
}

// NewSphereBatch creates a sphere batch. Call Init after the window exists.
func NewSphereBatch() *SphereBatch {
	return &SphereBatch{}
}

// Init uploads the sphere mesh and compiles the instancing shader.
func (s *SphereBatch) Init(cfg config.RenderConfig) {
	if s.initialized {
		return
	}

	s.mesh = rl.GenMeshSphere(cfg.SphereRadius, cfg.SphereRings, cfg.SphereSlices)

	s.shader = rl.LoadShaderFromMemory(instancedVS, lambertFS)
	s.shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(s.shader, "mvp"))
	s.shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(s.shader, "instanceTransform"))
	s.lightPosLoc = rl.GetShaderLocation(s.shader, "lightPos")
	s.ambientLoc = rl.GetShaderLocation(s.shader, "ambient")

	rl.SetShaderValue(s.shader, s.lightPosLoc, cfg.LightPos[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.ambientLoc, []float32{cfg.Ambient}, rl.ShaderUniformFloat)

	s.material = rl.LoadMaterialDefault()
	s.material.Shader = s.shader
	c := cfg.SphereColor
	s.material.GetMap(rl.MapDiffuse).Color = rl.Color{R: c[0], G: c[1], B: c[2], A: 255}

	s.initialized = true
}

// Draw renders the captured frame. Must be called inside BeginMode3D.
func (s *SphereBatch) Draw(frame *bridge.Frame) {
	if !s.initialized || frame.Len() == 0 {
		return
	}

	s.transforms = Transforms(s.transforms, frame.Translations())
	rl.DrawMeshInstanced(s.mesh, s.material, s.transforms, len(s.transforms))
}

// Transforms converts instance translations into model matrices, reusing dst.
func Transforms(dst []rl.Matrix, src []bridge.Translation) []rl.Matrix {
	if cap(dst) < len(src) {
		dst = make([]rl.Matrix, len(src))
	}
	dst = dst[:len(src)]
	for i, t := range src {
		dst[i] = rl.MatrixTranslate(t.X, t.Y, t.Z)
	}
	return dst
}

// Unload releases GPU resources.
func (s *SphereBatch) Unload() {
	if !s.initialized {
		return
	}
	rl.UnloadShader(s.shader)
	rl.UnloadMesh(&s.mesh)
	s.initialized = false
}
