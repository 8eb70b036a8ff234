package fireworks

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState is the single glfw window shared by the renderer and input.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	// Framebuffer size in pixels; differs from the window size on HiDPI screens.
	FramebufferWidth  int
	FramebufferHeight int
	Resized           bool
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // webgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	fbw, fbh := win.GetFramebufferSize()
	return &WindowState{
		windowGlfw:        win,
		WindowWidth:       windowWidth,
		WindowHeight:      windowHeight,
		windowTitle:       windowTitle,
		FramebufferWidth:  fbw,
		FramebufferHeight: fbh,
	}, nil
}

func (s *WindowState) Glfw() *glfw.Window {
	return s.windowGlfw
}

func (s *WindowState) destroy() {
	if s.windowGlfw == nil {
		return
	}
	s.windowGlfw.Destroy()
	s.windowGlfw = nil
	glfw.Terminate()
}

// WindowModule opens the window. Installing it twice reuses the first window.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m WindowModule) Install(app *App, cmd *Commands) {
	if Resource[WindowState](app) != nil {
		return
	}
	width, height, title := m.Width, m.Height, m.Title
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Fireworks"
	}

	ws, err := createWindowState(width, height, title)
	if err != nil {
		app.Logger().Errorf("Window: %v", err)
		panic(err)
	}
	app.addResources(ws)
	app.UseCleanup(ws.destroy)
	app.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude),
	)
}

func ensureWindowResource(app *App, width, height int, title string) {
	app.UseModules(WindowModule{Width: width, Height: height, Title: title})
}

func windowEventsSystem(cmd *Commands, s *WindowState) {
	glfw.PollEvents()
	if s.windowGlfw.ShouldClose() {
		cmd.Stop()
		return
	}

	s.WindowWidth, s.WindowHeight = s.windowGlfw.GetSize()
	fbw, fbh := s.windowGlfw.GetFramebufferSize()
	s.Resized = fbw != s.FramebufferWidth || fbh != s.FramebufferHeight
	s.FramebufferWidth, s.FramebufferHeight = fbw, fbh
}
