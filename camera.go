package fireworks

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a fixed perspective camera looking at Target with +Y up.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	FovY     float32 // degrees
	Near     float32
	Far      float32
}

func DefaultCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{1.5, 0, 6},
		Target:   mgl32.Vec3{0, 0, 0},
		FovY:     25,
		Near:     0.1,
		Far:      100,
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix maps depth to [0,1] as webgpu expects.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	// Remap OpenGL clip depth [-1,1] to [0,1].
	depthFix := mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0.5, 0,
		0, 0, 0.5, 1,
	}
	return depthFix.Mul4(mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far))
}

// EffectivePixelRatio caps the display pixel ratio at 2.
func EffectivePixelRatio(ratio float32) float32 {
	if ratio <= 0 {
		return 1
	}
	return min(ratio, 2)
}
