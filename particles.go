package fireworks

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Falling distance applied over the tail of a burst, in world units.
const particleFallDistance = 0.2

// ParticleInstance is one evaluated particle, laid out like the GPU instance data.
type ParticleInstance struct {
	Pos   [3]float32
	Size  float32
	Color [4]float32
}

// ParticleSample is the immutable per-particle input of the decay stage.
type ParticleSample struct {
	Position       mgl32.Vec3
	Size           float32
	TimeMultiplier float32
}

// ParticleState is the decay stage output: an offset from the burst origin and a
// size factor in [0,1] applied on top of the base size.
type ParticleState struct {
	Offset mgl32.Vec3
	Scale  float32
}

func (s ParticleState) Visible() bool {
	return s.Scale > 0
}

// EvaluateParticle mirrors vs_main in shaders/fireworks.wgsl. The time multiplier
// makes a particle run through the phases faster than the burst progress:
// explode (0..0.1), fall (0.1..1), grow (0..0.125) then shrink, twinkle (0.2..0.8).
func EvaluateParticle(s ParticleSample, burstProgress float32) ParticleState {
	progress := burstProgress * s.TimeMultiplier

	exploding := EaseOutCubic(clamp01(remap(progress, 0, 0.1, 0, 1)))
	offset := s.Position.Mul(exploding)

	falling := EaseOutCubic(clamp01(remap(progress, 0.1, 1, 0, 1)))
	offset[1] -= falling * particleFallDistance

	opening := remap(progress, 0, 0.125, 0, 1)
	closing := remap(progress, 0.125, 1, 1, 0)
	sizeProgress := clamp01(min(opening, closing))

	twinkling := clamp01(remap(progress, 0.2, 0.8, 0, 1))
	twinkle := float32(math.Sin(float64(progress*30)))*0.5 + 0.5
	sizeTwinkle := 1 - twinkling*twinkle

	return ParticleState{
		Offset: offset,
		Scale:  s.Size * sizeProgress * sizeTwinkle,
	}
}

// appendDrawableInstances packs the visible particles of d in world space.
func appendDrawableInstances(instances []ParticleInstance, d *Drawable) []ParticleInstance {
	g := &d.Geometry
	if !g.Consistent() {
		return instances
	}
	for i := 0; i < g.Count(); i++ {
		st := EvaluateParticle(ParticleSample{
			Position:       g.Position(i),
			Size:           g.Sizes[i],
			TimeMultiplier: g.TimeMultipliers[i],
		}, d.Material.Progress)
		if !st.Visible() {
			continue
		}
		p := d.Position.Add(st.Offset)
		c := g.Color(i)
		instances = append(instances, ParticleInstance{
			Pos:   [3]float32{p.X(), p.Y(), p.Z()},
			Size:  d.Material.BaseSize * st.Scale,
			Color: [4]float32{c[0], c[1], c[2], 1},
		})
	}
	return instances
}
