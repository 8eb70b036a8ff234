package fireworks

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// project returns the normalized device coordinates of p and whether it lies in
// front of the camera.
func project(c *Camera, p mgl32.Vec3, aspect float32) (mgl32.Vec3, bool) {
	clip := c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl32.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

func TestCamera_OriginProjectsToCenter(t *testing.T) {
	cam := DefaultCamera()
	ndc, ok := project(cam, mgl32.Vec3{0, 0, 0}, 16.0/9.0)

	assert.True(t, ok)
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
}

func TestCamera_PointBehindIsRejected(t *testing.T) {
	cam := DefaultCamera()
	_, ok := project(cam, mgl32.Vec3{3, 0, 12}, 1)

	assert.False(t, ok)
}

func TestCamera_DepthRange(t *testing.T) {
	cam := &Camera{Position: mgl32.Vec3{0, 0, 5}, FovY: 45, Near: 1, Far: 10}

	near, _ := project(cam, mgl32.Vec3{0, 0, 4}, 1)
	far, _ := project(cam, mgl32.Vec3{0, 0, -5}, 1)
	assert.InDelta(t, 0, near.Z(), 1e-5)
	assert.InDelta(t, 1, far.Z(), 1e-4)
}

func TestEffectivePixelRatio(t *testing.T) {
	assert.Equal(t, float32(1), EffectivePixelRatio(0))
	assert.Equal(t, float32(1.5), EffectivePixelRatio(1.5))
	assert.Equal(t, float32(2), EffectivePixelRatio(3))
}
