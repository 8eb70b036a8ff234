package fireworks

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs

	running  bool
	frame    uint64
	cleanups []func()

	// Command Buffering
	pendingAdditions []pendingAdd
	pendingRemovals  []EntityId
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

func NewApp() *App {
	ecs := MakeEcs()
	app := &App{
		stages:    defaultStages(),
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		ecs:       &ecs,
	}
	for _, stage := range app.stages {
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	return app
}

// UseCleanup registers fn to run when Run returns. Cleanups run last-in first-out.
func (app *App) UseCleanup(fn func()) *App {
	app.cleanups = append(app.cleanups, fn)
	return app
}

// Run steps frames until a system calls Commands.Stop.
func (app *App) Run() {
	app.running = true
	app.Logger().Infof("Running %d stages", len(app.stages))
	for app.running {
		app.Step()
	}
	app.Close()
}

// Step executes every stage once.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
	app.frame++
}

func (app *App) Stop() {
	app.running = false
}

// Close runs the registered cleanups once.
func (app *App) Close() {
	for i := len(app.cleanups) - 1; i >= 0; i-- {
		app.cleanups[i]()
	}
	app.cleanups = nil
}

func (app *App) Frame() uint64 {
	return app.frame
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(t reflect.Type) bool {
	_, ok := app.resources[t]
	return ok
}

// Resource returns the installed *T, or nil when no module provided it.
func Resource[T any](app *App) *T {
	if r, ok := app.resources[typeOf[T]()]; ok {
		return r.(*T)
	}
	return nil
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType reflect.Type, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 {
		return
	}

	// Additions go first so an entity spawned and retired within one stage
	// does not outlive the flush.
	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]
}
