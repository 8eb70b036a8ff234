package fireworks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_SetButtonEdges(t *testing.T) {
	input := &Input{}

	input.setButton(MouseButtonLeft, true)
	assert.True(t, input.Pressed[MouseButtonLeft])
	assert.True(t, input.JustPressed[MouseButtonLeft])

	input.setButton(MouseButtonLeft, true)
	assert.True(t, input.Pressed[MouseButtonLeft])
	assert.False(t, input.JustPressed[MouseButtonLeft])

	input.setButton(MouseButtonLeft, false)
	assert.False(t, input.Pressed[MouseButtonLeft])
	assert.True(t, input.JustReleased[MouseButtonLeft])

	input.setButton(MouseButtonLeft, false)
	assert.False(t, input.JustReleased[MouseButtonLeft])
}

func TestQuitOnEscape(t *testing.T) {
	app := NewApp()
	input := &Input{}
	app.addResources(input)
	app.UseSystem(System(quitOnEscapeSystem))
	app.running = true

	app.Step()
	assert.True(t, app.running)

	input.JustPressed[KeyEscape] = true
	app.Step()
	assert.False(t, app.running)
}
