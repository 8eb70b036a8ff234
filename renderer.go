package fireworks

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Renderer is the collaborator bursts hand their drawables to. Attach fails
// when the drawable cannot be uploaded. Release calls must be idempotent.
type Renderer interface {
	Attach(d *Drawable) error
	Detach(d *Drawable)
	IsAttached(d *Drawable) bool
	ReleaseBuffers(d *Drawable)
	ReleaseProgram(d *Drawable)
	Attached() int
}

type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
)

// Geometry holds per-particle attributes. Positions and Colors are packed xyz /
// rgb triples; Sizes and TimeMultipliers hold one value per particle.
type Geometry struct {
	Positions       []float32
	Colors          []float32
	Sizes           []float32
	TimeMultipliers []float32
}

func NewGeometry(count int) Geometry {
	count = max(count, 0)
	return Geometry{
		Positions:       make([]float32, 3*count),
		Colors:          make([]float32, 3*count),
		Sizes:           make([]float32, count),
		TimeMultipliers: make([]float32, count),
	}
}

func (g Geometry) Count() int {
	return len(g.Sizes)
}

// Consistent reports whether all four buffers describe the same particle count.
func (g Geometry) Consistent() bool {
	n := len(g.Sizes)
	return len(g.TimeMultipliers) == n && len(g.Positions) == 3*n && len(g.Colors) == 3*n
}

func (g Geometry) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.Positions[3*i], g.Positions[3*i+1], g.Positions[3*i+2]}
}

func (g Geometry) SetPosition(i int, p mgl32.Vec3) {
	copy(g.Positions[3*i:3*i+3], p[:])
}

func (g Geometry) Color(i int) [3]float32 {
	return [3]float32{g.Colors[3*i], g.Colors[3*i+1], g.Colors[3*i+2]}
}

func (g Geometry) SetColor(i int, c [3]float32) {
	copy(g.Colors[3*i:3*i+3], c[:])
}

// PointsMaterial carries the uniforms of the particle shader stage.
type PointsMaterial struct {
	Texture     int
	BaseSize    float32
	Progress    float32
	DepthWrite  bool
	Transparent bool
	Blending    BlendMode
}

// Drawable is a textured point cloud positioned in world space.
type Drawable struct {
	Id       uuid.UUID
	Position mgl32.Vec3
	Geometry Geometry
	Material PointsMaterial

	buffersReleased bool
	programReleased bool
}

func NewDrawable(position mgl32.Vec3, geometry Geometry, material PointsMaterial) *Drawable {
	return &Drawable{
		Id:       uuid.New(),
		Position: position,
		Geometry: geometry,
		Material: material,
	}
}

func (d *Drawable) BuffersReleased() bool { return d.buffersReleased }
func (d *Drawable) ProgramReleased() bool { return d.programReleased }

// MarkBuffersReleased flips the released flag and reports whether this call did it.
func (d *Drawable) MarkBuffersReleased() bool {
	if d.buffersReleased {
		return false
	}
	d.buffersReleased = true
	return true
}

func (d *Drawable) MarkProgramReleased() bool {
	if d.programReleased {
		return false
	}
	d.programReleased = true
	return true
}

// SceneRenderer keeps the attached drawables in memory. It is the headless
// renderer and the reference for leak accounting.
type SceneRenderer struct {
	drawables []*Drawable

	BuffersReleased  int
	ProgramsReleased int
	Resolution       [2]float32
}

func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{Resolution: [2]float32{1280, 720}}
}

func (r *SceneRenderer) indexOf(d *Drawable) int {
	for i, x := range r.drawables {
		if x == d {
			return i
		}
	}
	return -1
}

func (r *SceneRenderer) Attach(d *Drawable) error {
	if d == nil || r.indexOf(d) >= 0 {
		return nil
	}
	r.drawables = append(r.drawables, d)
	return nil
}

func (r *SceneRenderer) Detach(d *Drawable) {
	if i := r.indexOf(d); i >= 0 {
		r.drawables = append(r.drawables[:i], r.drawables[i+1:]...)
	}
}

func (r *SceneRenderer) IsAttached(d *Drawable) bool {
	return r.indexOf(d) >= 0
}

func (r *SceneRenderer) ReleaseBuffers(d *Drawable) {
	if d == nil || !d.MarkBuffersReleased() {
		return
	}
	d.Geometry = Geometry{}
	r.BuffersReleased++
}

func (r *SceneRenderer) ReleaseProgram(d *Drawable) {
	if d == nil || !d.MarkProgramReleased() {
		return
	}
	r.ProgramsReleased++
}

func (r *SceneRenderer) Attached() int {
	return len(r.drawables)
}

// Snapshot evaluates every attached particle at its drawable's progress.
func (r *SceneRenderer) Snapshot() []ParticleInstance {
	instances := make([]ParticleInstance, 0, 1024)
	for _, d := range r.drawables {
		instances = appendDrawableInstances(instances, d)
	}
	return instances
}

// HeadlessRendererModule installs a SceneRenderer as the active renderer.
type HeadlessRendererModule struct{}

func (HeadlessRendererModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&RendererState{
		Name:     RendererHeadless,
		Renderer: NewSceneRenderer(),
	})
}
