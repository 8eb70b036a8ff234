package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Context owns the webgpu device and the window surface.
type Context struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	ClearColor wgpu.Color
}

func NewContext(window *glfw.Window) (*Context, error) {
	c := &Context{ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1}}
	c.Instance = wgpu.CreateInstance(nil)
	c.Surface = c.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := c.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	c.Adapter = adapter

	c.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Fireworks Device",
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	c.Queue = c.Device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := c.Surface.GetCapabilities(adapter)
	c.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
	return c, nil
}

func (c *Context) Format() wgpu.TextureFormat {
	return c.Config.Format
}

// Resize reconfigures the surface. Zero sizes (minimized window) are ignored.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Config.Width = uint32(width)
	c.Config.Height = uint32(height)
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
}

// Frame clears the next surface texture, records draw into a single render
// pass and presents.
func (c *Context) Frame(draw func(pass *wgpu.RenderPassEncoder)) error {
	nextTexture, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: c.ClearColor,
		}},
	})
	draw(pass)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	c.Queue.Submit(cmd)
	c.Surface.Present()
	return nil
}

func (c *Context) Release() {
	if c.Queue != nil {
		c.Queue.Release()
		c.Queue = nil
	}
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
	if c.Adapter != nil {
		c.Adapter.Release()
		c.Adapter = nil
	}
	if c.Surface != nil {
		c.Surface.Release()
		c.Surface = nil
	}
	if c.Instance != nil {
		c.Instance.Release()
		c.Instance = nil
	}
}
