package fireworks

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/skyburst/fireworks/shape"
)

type BurstEvent struct {
	Id     uuid.UUID
	Entity EntityId
	Shape  shape.Kind
	Count  int
	Origin mgl32.Vec3
}

// BurstEvents collects the bursts spawned and finished during the current frame.
// The per-frame slices are cleared in Prelude; the totals are never reset.
type BurstEvents struct {
	Spawned  []BurstEvent
	Finished []BurstEvent

	TotalSpawned  int
	TotalFinished int
}

func (e *BurstEvents) Reset() {
	e.Spawned = e.Spawned[:0]
	e.Finished = e.Finished[:0]
}

func (e *BurstEvents) publishSpawned(h *BurstHandle, origin mgl32.Vec3) {
	e.Spawned = append(e.Spawned, BurstEvent{Id: h.Id, Entity: h.Entity, Shape: h.Shape, Count: h.Count, Origin: origin})
	e.TotalSpawned++
}

func (e *BurstEvents) publishFinished(h *BurstHandle, origin mgl32.Vec3) {
	e.Finished = append(e.Finished, BurstEvent{Id: h.Id, Entity: h.Entity, Shape: h.Shape, Count: h.Count, Origin: origin})
	e.TotalFinished++
}

// Trigger queues burst requests from anything that is not a mouse click.
type Trigger struct {
	pending int
}

func (t *Trigger) Request() {
	t.pending++
}

// Take returns the number of queued requests and clears the queue.
func (t *Trigger) Take() int {
	n := t.pending
	t.pending = 0
	return n
}

// FireworksModule spawns one burst per click or Trigger request.
// Install InputModule before it to get click handling.
type FireworksModule struct {
	Settings FireworkSettings
}

func (m FireworksModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()

	settings := m.Settings
	if settings == (FireworkSettings{}) {
		settings = DefaultFireworkSettings()
	}
	if err := settings.Validate(); err != nil {
		logger.Errorf("Invalid firework settings, using defaults: %v", err)
		settings = DefaultFireworkSettings()
	}
	cmd.AddResources(&settings, &BurstEvents{}, &Trigger{})

	app.UseSystem(
		System(burstEventsResetSystem).
			InStage(Prelude),
	)
	if app.hasResource(typeOf[Input]()) {
		app.UseSystem(
			System(clickTriggerSystem).
				InStage(Update),
		)
		app.UseSystem(
			System(makeDebugToggleSystem(logger)).
				InStage(Update),
		)
	}
	app.UseSystem(
		System(makeBurstTriggerSystem(logger)).
			InStage(Update),
	)
	app.UseSystem(
		System(burstTransformSystem).
			InStage(PostUpdate),
	)
	app.UseSystem(
		System(makeBurstLogSystem(logger)).
			InStage(PostUpdate),
	)
	app.UseSystem(
		System(makeBurstAuditSystem(logger)).
			InStage(PostUpdate),
	)
}

func burstEventsResetSystem(events *BurstEvents) {
	events.Reset()
}

func clickTriggerSystem(input *Input, trigger *Trigger) {
	if input.JustPressed[MouseButtonLeft] {
		trigger.Request()
	}
	if input.JustPressed[KeySpace] {
		trigger.Request()
	}
}

func makeDebugToggleSystem(logger Logger) func(*Input) {
	return func(input *Input) {
		if input.JustPressed[KeyD] {
			logger.SetDebug(!logger.DebugEnabled())
			logger.Infof("Debug logging: %v", logger.DebugEnabled())
		}
	}
}

func makeBurstTriggerSystem(logger Logger) func(*Commands, *FireworkSettings, *Trigger, *TexturePool, *RendererState, *Animator, *BurstEvents) {
	return func(cmd *Commands, settings *FireworkSettings, trigger *Trigger, textures *TexturePool, rs *RendererState, animator *Animator, events *BurstEvents) {
		n := trigger.Take()
		if n == 0 {
			return
		}
		deps := BurstDeps{
			Renderer: rs.Renderer,
			Animator: animator,
			Events:   events,
		}
		for i := 0; i < n; i++ {
			if _, err := SpawnBurst(cmd, deps, RandomBurstParams(settings, textures)); err != nil {
				logger.Errorf("Burst spawn failed: %v", err)
			}
		}
	}
}

// burstTransformSystem copies each burst's transform onto its drawable.
func burstTransformSystem(cmd *Commands) {
	MakeQuery2[BurstComponent, TransformComponent](cmd).Map(func(_ EntityId, b *BurstComponent, tr *TransformComponent) bool {
		b.Burst.drawable.Position = tr.Position
		return true
	})
}

// The audit runs after Update has flushed, when every attached drawable must
// belong to a live burst entity and every live burst must still be drawable.
func makeBurstAuditSystem(logger Logger) func(*Commands, *RendererState) {
	return func(cmd *Commands, rs *RendererState) {
		MakeQuery2[BurstComponent, TransformComponent](cmd).Map(func(eid EntityId, b *BurstComponent, _ *TransformComponent) bool {
			d := b.Burst.drawable
			switch {
			case d.BuffersReleased() || d.ProgramReleased():
				logger.Errorf("Burst %s on entity %d was released while live", b.Burst.Id, eid)
			case !rs.Renderer.IsAttached(d):
				logger.Errorf("Burst %s on entity %d is not attached to %s renderer", b.Burst.Id, eid, rs.Name)
			}
			return true
		})
		if attached, live := rs.Renderer.Attached(), ActiveBursts(cmd); attached != live {
			logger.Errorf("Burst leak: %d drawables attached to %s renderer, %d live bursts", attached, rs.Name, live)
		}
	}
}
