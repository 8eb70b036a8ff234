package fireworks

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// AddEntity reserves an id now; the entity becomes visible to queries at the
// next flush.
func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

func (cmd *Commands) Stop() {
	cmd.app.Stop()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
