package fireworks

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skyburst/fireworks/shape"
)

// BurstDuration is how long a burst takes to decay and dispose itself.
const BurstDuration = 3 * time.Second

type ColorPolicy int

const (
	// ColorRandom flips a coin per burst between the two concrete policies.
	ColorRandom ColorPolicy = iota
	ColorShared
	ColorPerParticle
)

func (p ColorPolicy) String() string {
	switch p {
	case ColorRandom:
		return "random"
	case ColorShared:
		return "shared"
	case ColorPerParticle:
		return "perParticle"
	}
	return fmt.Sprintf("ColorPolicy(%d)", int(p))
}

func ParseColorPolicy(name string) (ColorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "random":
		return ColorRandom, nil
	case "shared":
		return ColorShared, nil
	case "perparticle", "per-particle":
		return ColorPerParticle, nil
	}
	return 0, fmt.Errorf("unknown color policy %q", name)
}

func (p ColorPolicy) resolve() ColorPolicy {
	if p != ColorRandom {
		return p
	}
	if rand.Float32() < 0.5 {
		return ColorShared
	}
	return ColorPerParticle
}

// Palette is the saturation and lightness burst hues are drawn with.
type Palette struct {
	Saturation float32
	Lightness  float32
}

var DefaultPalette = Palette{Saturation: 1, Lightness: 0.7}

func (p Palette) randomColor() [3]float32 {
	c := colorful.Hsl(rand.Float64()*360, float64(p.Saturation), float64(p.Lightness))
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// BurstParams describes one burst. Zero Shape, ColorPolicy, Palette and Duration
// mean random shape, coin-flip colors, DefaultPalette and BurstDuration.
type BurstParams struct {
	Count       int
	Origin      mgl32.Vec3
	BaseSize    float32
	Texture     int
	Extent      float32
	Shape       shape.Kind
	ColorPolicy ColorPolicy
	Palette     Palette
	Duration    time.Duration
}

// RandomBurstParams samples a spawn from the knobs.
func RandomBurstParams(settings *FireworkSettings, textures *TexturePool) BurstParams {
	kind, _ := settings.ShapeKind()
	policy, _ := ParseColorPolicy(settings.ColorPolicy)

	count := settings.Count
	if settings.CountJitter > 0 {
		count += int(math.Round(float64(rand.Float32() * float32(settings.CountJitter))))
	}

	return BurstParams{
		Count: count,
		Origin: mgl32.Vec3{
			(rand.Float32() - 0.5) * settings.Spread[0],
			(rand.Float32() - 0.5) * settings.Spread[1],
			(rand.Float32() - 0.5) * settings.Spread[2],
		},
		BaseSize:    settings.Size + rand.Float32()*settings.SizeJitter,
		Texture:     textures.Pick(),
		Extent:      settings.Extent + rand.Float32()*settings.ExtentJitter,
		Shape:       kind,
		ColorPolicy: policy,
		Palette:     Palette{Saturation: settings.Saturation, Lightness: settings.Lightness},
		Duration:    BurstDuration,
	}
}

// BurstComponent is attached to every live burst entity.
type BurstComponent struct {
	Burst *BurstHandle
}

// TransformComponent places a burst in world space. Moving it moves the
// drawable on the next PostUpdate.
type TransformComponent struct {
	Position mgl32.Vec3
}

// BurstHandle is the caller's read-only view of a spawned burst.
type BurstHandle struct {
	Id          uuid.UUID
	Entity      EntityId
	Shape       shape.Kind
	Count       int
	Extent      float32
	ColorPolicy ColorPolicy
	Tween       TweenId

	drawable *Drawable
	done     bool
}

func (h *BurstHandle) Progress() float32 { return h.drawable.Material.Progress }
func (h *BurstHandle) Done() bool        { return h.done }
func (h *BurstHandle) Drawable() *Drawable {
	return h.drawable
}

// BurstDeps are the collaborators a burst needs for its whole life.
type BurstDeps struct {
	Renderer Renderer
	Animator *Animator
	Events   *BurstEvents
}

// BuildBurstGeometry fills the four attribute buffers for count points of kind.
func BuildBurstGeometry(kind shape.Kind, count int, extent float32, policy ColorPolicy, palette Palette) Geometry {
	points := shape.Generate(kind, count, extent)
	g := NewGeometry(len(points))

	shared := palette.randomColor()
	for i, p := range points {
		g.SetPosition(i, p)
		g.Sizes[i] = rand.Float32()
		g.TimeMultipliers[i] = 1 + rand.Float32()
		if policy == ColorShared {
			g.SetColor(i, shared)
		} else {
			g.SetColor(i, palette.randomColor())
		}
	}
	return g
}

// SpawnBurst builds a burst, attaches it and starts its decay. The burst disposes
// itself when the decay tween completes.
func SpawnBurst(cmd *Commands, deps BurstDeps, params BurstParams) (*BurstHandle, error) {
	kind := params.Shape
	if !kind.Valid() {
		kind = shape.RandomKind()
	}
	policy := params.ColorPolicy.resolve()
	palette := params.Palette
	if palette == (Palette{}) {
		palette = DefaultPalette
	}
	duration := params.Duration
	if duration == 0 {
		duration = BurstDuration
	}

	drawable := NewDrawable(params.Origin, BuildBurstGeometry(kind, params.Count, params.Extent, policy, palette), PointsMaterial{
		Texture:     params.Texture,
		BaseSize:    params.BaseSize,
		Progress:    0,
		DepthWrite:  false,
		Transparent: true,
		Blending:    BlendAdditive,
	})

	h := &BurstHandle{
		Id:          drawable.Id,
		Shape:       kind,
		Count:       drawable.Geometry.Count(),
		Extent:      params.Extent,
		ColorPolicy: policy,
		drawable:    drawable,
	}

	tweenId, err := deps.Animator.Animate(&drawable.Material.Progress, 1, duration, EaseLinear, func() {
		DisposeBurst(cmd, deps, h)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start burst decay: %w", err)
	}
	h.Tween = tweenId

	if err := deps.Renderer.Attach(drawable); err != nil {
		deps.Animator.Cancel(tweenId)
		return nil, fmt.Errorf("failed to attach burst: %w", err)
	}
	h.Entity = cmd.AddEntity(
		&TransformComponent{Position: params.Origin},
		&BurstComponent{Burst: h},
	)

	if deps.Events != nil {
		deps.Events.publishSpawned(h, params.Origin)
	}
	return h, nil
}

// DisposeBurst detaches and releases a burst. Repeated calls are no-ops.
func DisposeBurst(cmd *Commands, deps BurstDeps, h *BurstHandle) {
	if h == nil || h.done {
		return
	}
	h.done = true
	deps.Animator.Cancel(h.Tween)
	deps.Renderer.Detach(h.drawable)
	deps.Renderer.ReleaseBuffers(h.drawable)
	deps.Renderer.ReleaseProgram(h.drawable)
	cmd.RemoveEntity(h.Entity)

	if deps.Events != nil {
		deps.Events.publishFinished(h, h.drawable.Position)
	}
}

// ActiveBursts counts live burst entities.
func ActiveBursts(cmd *Commands) int {
	return MakeQuery1[BurstComponent](cmd).Count()
}
