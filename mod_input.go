package fireworks

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeySpace int = iota
	KeyEscape
	KeyD
	MouseButtonLeft
)

type InputModule struct {
	// QuitOnEscape stops the app when Escape is pressed.
	QuitOnEscape bool
}

type Input struct {
	Pressed [16]bool

	JustPressed  [16]bool
	JustReleased [16]bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
	if mod.QuitOnEscape {
		app.UseSystem(
			System(quitOnEscapeSystem).
				InStage(PreUpdate),
		)
	}
}

// setButton records the current state of one key or button and derives the
// edge flags from the previous frame.
func (input *Input) setButton(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		input.setButton(key, s.windowGlfw.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.setButton(btn, s.windowGlfw.GetMouseButton(glfwBtn) == glfw.Press)
	}
}

func quitOnEscapeSystem(cmd *Commands, input *Input) {
	if input.JustPressed[KeyEscape] {
		cmd.Logger().Infof("Escape pressed, stopping")
		cmd.Stop()
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyD:      glfw.KeyD,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft: glfw.MouseButtonLeft,
}
