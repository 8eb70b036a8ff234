package fireworks

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/skyburst/fireworks/gpu"
)

// GpuRendererModule renders bursts through webgpu into the window.
type GpuRendererModule struct {
	PixelRatio float32
}

// gpuRenderer adapts Drawables to gpu point clouds.
type gpuRenderer struct {
	ctx      *gpu.Context
	pass     *gpu.PointsPass
	textures *gpu.TextureArray

	clouds   map[*Drawable]*gpu.PointCloud
	attached []*Drawable
	logger   Logger
}

func newGpuRenderer(ws *WindowState, server *AssetServer, pool *TexturePool, logger Logger) (*gpuRenderer, error) {
	ctx, err := gpu.NewContext(ws.Glfw())
	if err != nil {
		return nil, err
	}

	layers := make([][]byte, 0, pool.Len())
	for _, id := range pool.Ids {
		tex, ok := server.Texture(id)
		if !ok {
			ctx.Release()
			return nil, fmt.Errorf("texture %s is not loaded", id)
		}
		layers = append(layers, tex.Texels)
	}
	textures, err := gpu.NewTextureArray(ctx.Device, ctx.Queue, pool.Size, layers)
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("upload particle textures: %w", err)
	}

	pass, err := gpu.NewPointsPass(ctx.Device, ctx.Format(), textures)
	if err != nil {
		textures.Release()
		ctx.Release()
		return nil, fmt.Errorf("create points pass: %w", err)
	}

	return &gpuRenderer{
		ctx:      ctx,
		pass:     pass,
		textures: textures,
		clouds:   make(map[*Drawable]*gpu.PointCloud),
		logger:   logger,
	}, nil
}

func (r *gpuRenderer) indexOf(d *Drawable) int {
	for i, x := range r.attached {
		if x == d {
			return i
		}
	}
	return -1
}

func (r *gpuRenderer) Attach(d *Drawable) error {
	if d == nil || r.indexOf(d) >= 0 {
		return nil
	}
	if _, ok := r.clouds[d]; !ok {
		g := &d.Geometry
		pc, err := r.pass.NewPointCloud(gpu.Cloud{
			Origin:          d.Position,
			Positions:       g.Positions,
			Colors:          g.Colors,
			Sizes:           g.Sizes,
			TimeMultipliers: g.TimeMultipliers,
			BaseSize:        d.Material.BaseSize,
			Texture:         d.Material.Texture,
		})
		if err != nil {
			return fmt.Errorf("upload drawable %s: %w", d.Id, err)
		}
		r.clouds[d] = pc
	}
	r.attached = append(r.attached, d)
	return nil
}

func (r *gpuRenderer) IsAttached(d *Drawable) bool {
	return r.indexOf(d) >= 0
}

func (r *gpuRenderer) Detach(d *Drawable) {
	if i := r.indexOf(d); i >= 0 {
		r.attached = append(r.attached[:i], r.attached[i+1:]...)
	}
}

func (r *gpuRenderer) ReleaseBuffers(d *Drawable) {
	if d == nil || !d.MarkBuffersReleased() {
		return
	}
	if pc, ok := r.clouds[d]; ok {
		pc.ReleaseBuffers()
	}
	d.Geometry = Geometry{}
	r.forget(d)
}

func (r *gpuRenderer) ReleaseProgram(d *Drawable) {
	if d == nil || !d.MarkProgramReleased() {
		return
	}
	if pc, ok := r.clouds[d]; ok {
		pc.ReleaseProgram()
	}
	r.forget(d)
}

func (r *gpuRenderer) forget(d *Drawable) {
	if d.BuffersReleased() && d.ProgramReleased() {
		delete(r.clouds, d)
	}
}

func (r *gpuRenderer) Attached() int {
	return len(r.attached)
}

func (r *gpuRenderer) render(ws *WindowState, camera *Camera, pixelRatio float32) {
	if ws.Resized {
		r.ctx.Resize(ws.FramebufferWidth, ws.FramebufferHeight)
	}
	if ws.FramebufferWidth <= 0 || ws.FramebufferHeight <= 0 {
		return
	}

	width, height := float32(ws.WindowWidth), float32(ws.WindowHeight)
	err := r.pass.UpdateCamera(r.ctx.Queue, gpu.CameraUniform{
		View:       camera.ViewMatrix(),
		Proj:       camera.ProjectionMatrix(width / height),
		Resolution: [2]float32{width * pixelRatio, height * pixelRatio},
		PixelRatio: pixelRatio,
	})
	if err != nil {
		r.logger.Errorf("Camera uniform: %v", err)
		return
	}

	clouds := make([]*gpu.PointCloud, 0, len(r.attached))
	for _, d := range r.attached {
		pc, ok := r.clouds[d]
		if !ok {
			continue
		}
		if err := pc.Update(r.ctx.Queue, d.Position, d.Material.Progress); err != nil {
			r.logger.Errorf("Drawable %s: %v", d.Id, err)
			continue
		}
		clouds = append(clouds, pc)
	}

	err = r.ctx.Frame(func(pass *wgpu.RenderPassEncoder) {
		r.pass.Draw(pass, clouds)
	})
	if err != nil {
		r.logger.Errorf("Frame: %v", err)
	}
}

func (r *gpuRenderer) release() {
	for d, pc := range r.clouds {
		pc.ReleaseBuffers()
		pc.ReleaseProgram()
		delete(r.clouds, d)
	}
	r.attached = nil
	r.pass.Release()
	r.textures.Release()
	r.ctx.Release()
}

func (mod GpuRendererModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()
	ws := Resource[WindowState](app)
	server := Resource[AssetServer](app)
	pool := Resource[TexturePool](app)
	if ws == nil || server == nil || pool == nil {
		panic("GpuRendererModule requires WindowModule and TexturesModule")
	}

	renderer, err := newGpuRenderer(ws, server, pool, logger)
	if err != nil {
		logger.Errorf("GPU renderer: %v", err)
		panic(err)
	}
	app.UseCleanup(renderer.release)

	camera := Resource[Camera](app)
	if camera == nil {
		camera = DefaultCamera()
		cmd.AddResources(camera)
	}
	pixelRatio := EffectivePixelRatio(mod.PixelRatio)

	cmd.AddResources(&RendererState{Name: RendererWGPU, Renderer: renderer})
	app.UseSystem(
		System(func(ws *WindowState, camera *Camera) {
			renderer.render(ws, camera, pixelRatio)
		}).InStage(Render),
	)
}
