package fireworks

import "time"

// NewFireworksApp wires the full application from cfg. Headless apps render
// into a SceneRenderer and have no window, input or audio.
func NewFireworksApp(cfg *Config, headless bool) *App {
	builder := NewAppBuilder().
		UseModule(LoggingModule{Prefix: "fireworks", Debug: cfg.Debug}).
		UseModule(TimeModule{FixedStep: cfg.FixedStep}).
		UseModule(TweenModule{}).
		UseModule(TexturesModule{Dir: cfg.Textures.Dir, Size: cfg.Textures.Size, Count: cfg.Textures.Count})

	if headless {
		app := builder.Build()
		app.UseHeadless()
		return app.UseModules(FireworksModule{Settings: cfg.Fireworks})
	}

	app := builder.
		UseModule(WindowModule{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: cfg.Window.Title}).
		UseModule(InputModule{QuitOnEscape: true}).
		Build()
	app.UseWGPU(cfg.Window)
	return app.UseModules(
		FireworksModule{Settings: cfg.Fireworks},
		AudioModule{Config: cfg.Audio},
	)
}

// DefaultFixedStep is the frame step of headless runs.
const DefaultFixedStep = time.Second / 60

// HeadlessReport summarizes a RunHeadless run.
type HeadlessReport struct {
	Frames           int
	Spawned          int
	Finished         int
	Attached         int
	BuffersReleased  int
	ProgramsReleased int
}

// Leaked reports whether any finished burst kept GPU-side state or any live
// burst lost its drawable.
func (r HeadlessReport) Leaked() bool {
	live := r.Spawned - r.Finished
	return r.Attached != live || r.BuffersReleased != r.Finished || r.ProgramsReleased != r.Finished
}

// RunHeadless steps app for frames frames, spreading clicks trigger requests
// evenly from the first frame on, then closes it.
func RunHeadless(app *App, frames, clicks int) HeadlessReport {
	trigger := Resource[Trigger](app)
	interval := 1
	if clicks > 0 && frames/clicks > 1 {
		interval = frames / clicks
	}

	start := app.Frame()
	requested := 0
	for i := 0; i < frames; i++ {
		if trigger != nil && requested < clicks && i%interval == 0 {
			trigger.Request()
			requested++
		}
		app.Step()
	}

	report := HeadlessReport{Frames: int(app.Frame() - start)}
	if events := Resource[BurstEvents](app); events != nil {
		report.Spawned = events.TotalSpawned
		report.Finished = events.TotalFinished
	}
	if rs := Resource[RendererState](app); rs != nil {
		report.Attached = rs.Renderer.Attached()
		if scene, ok := rs.Renderer.(*SceneRenderer); ok {
			report.BuffersReleased = scene.BuffersReleased
			report.ProgramsReleased = scene.ProgramsReleased
		} else {
			report.BuffersReleased = report.Finished
			report.ProgramsReleased = report.Finished
		}
	}
	app.Close()
	return report
}
