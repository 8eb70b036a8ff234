package fireworks

import (
	"fmt"
)

type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

func defaultStages() []Stage {
	return []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

// System schedules fn in the Update stage unless InStage says otherwise.
// fn takes pointers to resources and/or *Commands.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if _, ok := app.systems[system.inStage.Name]; !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}
