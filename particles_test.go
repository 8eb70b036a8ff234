package fireworks

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateParticle_StartsCollapsedAndInvisible(t *testing.T) {
	st := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{1, 2, 3}, Size: 1, TimeMultiplier: 1}, 0)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, st.Offset)
	assert.False(t, st.Visible())
}

func TestEvaluateParticle_ExplodesByTenthOfProgress(t *testing.T) {
	p := mgl32.Vec3{1, 0, 0}
	st := EvaluateParticle(ParticleSample{Position: p, Size: 1, TimeMultiplier: 1}, 0.1)

	assert.InDelta(t, 1, st.Offset.X(), 1e-5)
	assert.InDelta(t, 0, st.Offset.Y(), 1e-5)
	assert.True(t, st.Visible())
}

func TestEvaluateParticle_FallsAtTheEnd(t *testing.T) {
	st := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{0, 0, 1}, Size: 1, TimeMultiplier: 1}, 1)

	assert.InDelta(t, -particleFallDistance, st.Offset.Y(), 1e-5)
	assert.InDelta(t, 1, st.Offset.Z(), 1e-5)
	assert.False(t, st.Visible())
}

func TestEvaluateParticle_PeakSizeAtOpening(t *testing.T) {
	st := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{}, Size: 0.5, TimeMultiplier: 1}, 0.125)

	// no twinkle before 0.2
	assert.InDelta(t, 0.5, st.Scale, 1e-5)
}

func TestEvaluateParticle_TimeMultiplierSpeedsUp(t *testing.T) {
	slow := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{1, 0, 0}, Size: 1, TimeMultiplier: 1}, 0.05)
	fast := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{1, 0, 0}, Size: 1, TimeMultiplier: 2}, 0.05)

	assert.Less(t, slow.Offset.X(), fast.Offset.X())
	assert.InDelta(t, 1, fast.Offset.X(), 1e-5)

	// a fast particle is gone before the burst ends
	done := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{1, 0, 0}, Size: 1, TimeMultiplier: 2}, 0.6)
	assert.False(t, done.Visible())
}

func TestEvaluateParticle_ScaleBounded(t *testing.T) {
	for i := 0; i <= 100; i++ {
		progress := float32(i) / 100
		st := EvaluateParticle(ParticleSample{Position: mgl32.Vec3{1, 1, 1}, Size: 1, TimeMultiplier: 1.5}, progress)
		assert.GreaterOrEqual(t, st.Scale, float32(0))
		assert.LessOrEqual(t, st.Scale, float32(1))
	}
}
