package fireworks

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/skyburst/fireworks/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStep = 100 * time.Millisecond

// stepsPerBurst is how many testStep frames a default burst lives.
const stepsPerBurst = int(BurstDuration / testStep)

type burstFixture struct {
	app    *App
	cmd    *Commands
	scene  *SceneRenderer
	deps   BurstDeps
	events *BurstEvents
}

func newBurstFixture(t *testing.T) *burstFixture {
	t.Helper()
	app := NewApp()
	app.UseModules(
		TimeModule{FixedStep: testStep},
		TweenModule{},
		TexturesModule{Size: 8, Count: 2},
	)
	app.UseHeadless()
	app.UseModules(FireworksModule{})

	scene, ok := Resource[RendererState](app).Renderer.(*SceneRenderer)
	require.True(t, ok)
	events := Resource[BurstEvents](app)
	return &burstFixture{
		app:   app,
		cmd:   app.Commands(),
		scene: scene,
		deps: BurstDeps{
			Renderer: scene,
			Animator: Resource[Animator](app),
			Events:   events,
		},
		events: events,
	}
}

func (f *burstFixture) spawn(t *testing.T, params BurstParams) *BurstHandle {
	t.Helper()
	h, err := SpawnBurst(f.cmd, f.deps, params)
	require.NoError(t, err)
	require.NotNil(t, h)
	return h
}

func (f *burstFixture) step(n int) {
	for i := 0; i < n; i++ {
		f.app.Step()
	}
}

func sphereParams(count int) BurstParams {
	return BurstParams{
		Count:       count,
		Origin:      mgl32.Vec3{0, 0, 0},
		BaseSize:    0.15,
		Texture:     1,
		Extent:      1,
		Shape:       shape.Sphere,
		ColorPolicy: ColorPerParticle,
	}
}

func TestSpawnBurst_SphereBuffers(t *testing.T) {
	f := newBurstFixture(t)
	h := f.spawn(t, sphereParams(100))

	assert.Equal(t, shape.Sphere, h.Shape)
	assert.Equal(t, 100, h.Count)
	assert.Equal(t, float32(0), h.Progress())
	assert.False(t, h.Done())
	assert.Equal(t, 1, f.scene.Attached())
	assert.True(t, f.scene.IsAttached(h.Drawable()))

	g := h.Drawable().Geometry
	require.Len(t, g.Positions, 300)
	require.Len(t, g.Colors, 300)
	require.Len(t, g.Sizes, 100)
	require.Len(t, g.TimeMultipliers, 100)

	for i := 0; i < 100; i++ {
		r := g.Position(i).Len()
		assert.GreaterOrEqual(t, r, float32(0.75)-1e-4)
		assert.LessOrEqual(t, r, float32(1)+1e-4)

		assert.GreaterOrEqual(t, g.Sizes[i], float32(0))
		assert.Less(t, g.Sizes[i], float32(1))
		assert.GreaterOrEqual(t, g.TimeMultipliers[i], float32(1))
		assert.Less(t, g.TimeMultipliers[i], float32(2))

		for _, c := range g.Color(i) {
			assert.GreaterOrEqual(t, c, float32(0)-1e-4)
			assert.LessOrEqual(t, c, float32(1)+1e-4)
		}
	}
}

func TestSpawnBurst_Material(t *testing.T) {
	f := newBurstFixture(t)
	h := f.spawn(t, sphereParams(10))

	m := h.Drawable().Material
	assert.False(t, m.DepthWrite)
	assert.True(t, m.Transparent)
	assert.Equal(t, BlendAdditive, m.Blending)
	assert.Equal(t, float32(0.15), m.BaseSize)
	assert.Equal(t, 1, m.Texture)
}

func TestSpawnBurst_SharedColor(t *testing.T) {
	f := newBurstFixture(t)
	params := sphereParams(50)
	params.ColorPolicy = ColorShared
	h := f.spawn(t, params)

	g := h.Drawable().Geometry
	first := g.Color(0)
	for i := 1; i < g.Count(); i++ {
		assert.Equal(t, first, g.Color(i))
	}
	assert.Equal(t, ColorShared, h.ColorPolicy)
}

func TestSpawnBurst_RandomChoicesResolve(t *testing.T) {
	f := newBurstFixture(t)
	params := sphereParams(5)
	params.Shape = 0
	params.ColorPolicy = ColorRandom
	h := f.spawn(t, params)

	assert.True(t, h.Shape.Valid())
	assert.Contains(t, []ColorPolicy{ColorShared, ColorPerParticle}, h.ColorPolicy)
}

func TestSpawnBurst_CubeExtent(t *testing.T) {
	f := newBurstFixture(t)
	params := sphereParams(200)
	params.Shape = shape.Cube
	params.Extent = 2
	h := f.spawn(t, params)

	g := h.Drawable().Geometry
	for i := 0; i < g.Count(); i++ {
		r := g.Position(i).Len()
		// between the face center and the corner of a cube with half side 1
		assert.GreaterOrEqual(t, r, float32(1)-1e-4)
		assert.LessOrEqual(t, r, float32(1.7321))
	}
}

func TestBurstLifecycle_DisposedAfterDuration(t *testing.T) {
	f := newBurstFixture(t)
	h := f.spawn(t, sphereParams(100))
	f.app.FlushCommands()
	require.Equal(t, 1, ActiveBursts(f.cmd))
	require.True(t, f.app.ecs.hasEntity(h.Entity))

	f.step(stepsPerBurst - 1)
	assert.Equal(t, 1, f.scene.Attached())
	assert.False(t, h.Done())
	assert.InDelta(t, float32(stepsPerBurst-1)/float32(stepsPerBurst), h.Progress(), 1e-5)

	f.step(1)
	assert.True(t, h.Done())
	assert.Equal(t, float32(1), h.Progress())
	assert.Equal(t, 0, f.scene.Attached())
	assert.Equal(t, 1, f.scene.BuffersReleased)
	assert.Equal(t, 1, f.scene.ProgramsReleased)
	assert.Equal(t, 0, ActiveBursts(f.cmd))
	assert.False(t, f.app.ecs.hasEntity(h.Entity))
	assert.Equal(t, 0, f.deps.Animator.Active())

	require.Len(t, f.events.Finished, 1)
	assert.Equal(t, h.Id, f.events.Finished[0].Id)
	assert.Equal(t, 1, f.events.TotalFinished)
}

func TestBurstLifecycle_ProgressMonotonic(t *testing.T) {
	f := newBurstFixture(t)
	h := f.spawn(t, sphereParams(20))

	last := h.Progress()
	for i := 0; i < stepsPerBurst+5; i++ {
		f.app.Step()
		p := h.Progress()
		assert.GreaterOrEqual(t, p, last)
		assert.LessOrEqual(t, p, float32(1))
		last = p
	}
	assert.Equal(t, float32(1), last)
}

func TestBurstLifecycle_IndependentBursts(t *testing.T) {
	f := newBurstFixture(t)
	first := f.spawn(t, sphereParams(30))
	f.step(10)
	second := f.spawn(t, sphereParams(40))
	assert.Equal(t, 2, f.scene.Attached())

	f.step(stepsPerBurst - 10)
	assert.True(t, first.Done())
	assert.False(t, second.Done())
	assert.Equal(t, 1, f.scene.Attached())
	assert.True(t, f.scene.IsAttached(second.Drawable()))
	assert.InDelta(t, float32(stepsPerBurst-10)/float32(stepsPerBurst), second.Progress(), 1e-5)

	f.step(10)
	assert.True(t, second.Done())
	assert.Equal(t, 0, f.scene.Attached())
	assert.Equal(t, 2, f.scene.BuffersReleased)
	assert.Equal(t, 2, f.events.TotalFinished)
}

func TestBurstLifecycle_ZeroCount(t *testing.T) {
	f := newBurstFixture(t)
	h := f.spawn(t, sphereParams(0))

	assert.Equal(t, 0, h.Count)
	assert.Empty(t, h.Drawable().Geometry.Positions)
	assert.Empty(t, f.scene.Snapshot())
	assert.Equal(t, 1, f.scene.Attached())

	f.step(stepsPerBurst)
	assert.True(t, h.Done())
	assert.Equal(t, 0, f.scene.Attached())
}

func TestDisposeBurst_Idempotent(t *testing.T) {
	f := newBurstFixture(t)
	h := f.spawn(t, sphereParams(10))

	DisposeBurst(f.cmd, f.deps, h)
	assert.NotPanics(t, func() { DisposeBurst(f.cmd, f.deps, h) })
	assert.NotPanics(t, func() { DisposeBurst(f.cmd, f.deps, nil) })
	f.app.FlushCommands()

	assert.True(t, h.Done())
	assert.Equal(t, 0, f.scene.Attached())
	assert.Equal(t, 1, f.scene.BuffersReleased)
	assert.Equal(t, 1, f.scene.ProgramsReleased)
	assert.Equal(t, 1, f.events.TotalFinished)
	assert.False(t, f.app.ecs.hasEntity(h.Entity))

	// disposal cancels the decay, so nothing fires later
	assert.Equal(t, 0, f.deps.Animator.Active())
	f.step(stepsPerBurst)
	assert.Equal(t, 1, f.scene.BuffersReleased)
	assert.Equal(t, 1, f.events.TotalFinished)
}

type failingRenderer struct {
	*SceneRenderer
}

func (failingRenderer) Attach(*Drawable) error {
	return errors.New("out of device memory")
}

func TestSpawnBurst_AttachFailureLeavesNothing(t *testing.T) {
	f := newBurstFixture(t)
	deps := f.deps
	deps.Renderer = failingRenderer{f.scene}

	h, err := SpawnBurst(f.cmd, deps, sphereParams(10))
	require.Error(t, err)
	assert.ErrorContains(t, err, "out of device memory")
	assert.Nil(t, h)

	f.app.FlushCommands()
	assert.Equal(t, 0, ActiveBursts(f.cmd))
	assert.Equal(t, 0, f.deps.Animator.Active())
	assert.Equal(t, 0, f.events.TotalSpawned)

	f.step(stepsPerBurst + 1)
	assert.Equal(t, 0, f.events.TotalFinished)
	assert.Equal(t, 0, f.scene.BuffersReleased)
}

func TestSpawnBurst_DecayFailurePublishesNothing(t *testing.T) {
	f := newBurstFixture(t)
	params := sphereParams(10)
	params.Duration = -time.Second

	h, err := SpawnBurst(f.cmd, f.deps, params)
	require.Error(t, err)
	assert.Nil(t, h)

	f.app.FlushCommands()
	assert.Equal(t, 0, f.scene.Attached())
	assert.Equal(t, 0, ActiveBursts(f.cmd))
	assert.Equal(t, 0, f.events.TotalSpawned)
	assert.Equal(t, 0, f.events.TotalFinished)
	assert.Equal(t, 0, f.scene.BuffersReleased)
	assert.Equal(t, 0, f.scene.ProgramsReleased)
}

func TestSpawnBurst_SnapshotFollowsDecay(t *testing.T) {
	f := newBurstFixture(t)
	params := sphereParams(100)
	params.Origin = mgl32.Vec3{0.5, 0.25, -0.5}
	f.spawn(t, params)

	assert.Empty(t, f.scene.Snapshot(), "collapsed at progress 0")

	f.step(1)
	visible := f.scene.Snapshot()
	assert.NotEmpty(t, visible)
	for _, inst := range visible {
		d := mgl32.Vec3{inst.Pos[0], inst.Pos[1], inst.Pos[2]}.Sub(params.Origin).Len()
		assert.LessOrEqual(t, d, float32(1.3))
		assert.LessOrEqual(t, inst.Size, params.BaseSize)
	}
}

func TestRandomBurstParams_Jitter(t *testing.T) {
	settings := DefaultFireworkSettings()
	pool := &TexturePool{Ids: []AssetId{"a", "b", "c"}}

	for i := 0; i < 100; i++ {
		p := RandomBurstParams(&settings, pool)
		assert.GreaterOrEqual(t, p.Count, 400)
		assert.LessOrEqual(t, p.Count, 1400)
		assert.GreaterOrEqual(t, p.BaseSize, float32(0.1))
		assert.LessOrEqual(t, p.BaseSize, float32(0.2))
		assert.GreaterOrEqual(t, p.Extent, float32(0.5))
		assert.LessOrEqual(t, p.Extent, float32(1.5))
		assert.LessOrEqual(t, abs32(p.Origin.X()), float32(1))
		assert.LessOrEqual(t, abs32(p.Origin.Y()), float32(0.5))
		assert.LessOrEqual(t, abs32(p.Origin.Z()), float32(1))
		assert.GreaterOrEqual(t, p.Texture, 0)
		assert.Less(t, p.Texture, 3)
		assert.Equal(t, shape.Kind(0), p.Shape)
		assert.Equal(t, BurstDuration, p.Duration)
	}
}

func TestRandomBurstParams_FixedKnobs(t *testing.T) {
	settings := DefaultFireworkSettings()
	settings.CountJitter = 0
	settings.Shape = "sphere"
	settings.ColorPolicy = "shared"
	settings.Lightness = 0.5

	p := RandomBurstParams(&settings, &TexturePool{})
	assert.Equal(t, 400, p.Count)
	assert.Equal(t, shape.Sphere, p.Shape)
	assert.Equal(t, ColorShared, p.ColorPolicy)
	assert.Equal(t, Palette{Saturation: 1, Lightness: 0.5}, p.Palette)
	assert.Equal(t, 0, p.Texture)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
