package fireworks

import (
	"time"
)

// Time is the frame clock. With FixedStep set every frame advances by exactly
// that amount regardless of wall time.
type Time struct {
	Time      time.Time
	Dt        time.Duration
	Elapsed   time.Duration
	FixedStep time.Duration
}

func (t *Time) advance(now time.Time) {
	if t.FixedStep > 0 {
		t.Dt = t.FixedStep
		t.Time = t.Time.Add(t.FixedStep)
	} else {
		t.Dt = now.Sub(t.Time)
		t.Time = now
	}
	t.Elapsed += t.Dt
}

type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time:      time.Now(),
		Dt:        0,
		FixedStep: mod.FixedStep,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	timeResource.advance(time.Now())
}
