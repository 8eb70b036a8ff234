package fireworks

import "fmt"

// RendererName identifies a concrete renderer module.
type RendererName string

const (
	RendererHeadless RendererName = "headless"
	RendererWGPU     RendererName = "wgpu"
)

// RendererState is the resource bursts use to reach the active renderer.
type RendererState struct {
	Name     RendererName
	Renderer Renderer
}

// UseRenderer installs exactly one renderer module. mod must add a *RendererState.
// A second call panics, since bursts already hold on to the first renderer.
func (app *App) UseRenderer(name RendererName, mod Module) *App {
	if rs := Resource[RendererState](app); rs != nil {
		msg := fmt.Sprintf("Multiple renderers installed: %s and %s", rs.Name, name)
		app.Logger().Errorf("%s", msg)
		panic(msg)
	}
	app.Logger().Infof("Renderer selected: %s", name)
	app.UseModules(mod)
	if Resource[RendererState](app) == nil {
		panic("renderer module " + string(name) + " did not provide a RendererState")
	}
	return app
}

func (app *App) UseHeadless() *App {
	return app.UseRenderer(RendererHeadless, HeadlessRendererModule{})
}

// UseWGPU opens the window and installs the webgpu point renderer.
func (app *App) UseWGPU(window WindowConfig) *App {
	ensureWindowResource(app, window.Width, window.Height, window.Title)
	return app.UseRenderer(RendererWGPU, GpuRendererModule{PixelRatio: window.PixelRatio})
}
