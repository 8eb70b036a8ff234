package fireworks

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type set[T comparable] = map[T]struct{}

// Ecs keeps one sparse store per component type. Components live behind stable
// pointers so systems may hold on to them for the duration of a frame.
type Ecs struct {
	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	entities map[EntityId]set[reflect.Type]
	stores   map[reflect.Type]map[EntityId]any
}

func MakeEcs() Ecs {
	return Ecs{
		entities: make(map[EntityId]set[reflect.Type]),
		stores:   make(map[reflect.Type]map[EntityId]any),
	}
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	if !ecs.hasEntity(entityId) {
		ecs.entities[entityId] = make(set[reflect.Type])
	}
	ecs.addComponents(entityId, components...)
	return entityId
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entities[entityId]
	return ok
}

// removeEntity drops the entity and all of its components. Unknown ids are ignored.
func (ecs *Ecs) removeEntity(entityId EntityId) {
	types, ok := ecs.entities[entityId]
	if !ok {
		return
	}
	for t := range types {
		delete(ecs.stores[t], entityId)
	}
	delete(ecs.entities, entityId)
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	types, ok := ecs.entities[entityId]
	if !ok {
		return
	}
	for _, component := range components {
		t, ptr := componentPointer(component)
		store, ok := ecs.stores[t]
		if !ok {
			store = make(map[EntityId]any)
			ecs.stores[t] = store
		}
		store[entityId] = ptr
		types[t] = struct{}{}
	}
}

// getComponent returns the stored *T as any, or nil.
func (ecs *Ecs) getComponent(entityId EntityId, t reflect.Type) any {
	return ecs.stores[t][entityId]
}

// sortedIds returns the ids holding a component of type t in ascending order,
// which keeps query iteration deterministic.
func (ecs *Ecs) sortedIds(t reflect.Type) []EntityId {
	store := ecs.stores[t]
	ids := make([]EntityId, 0, len(store))
	for id := range store {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("component is nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected Component to be a struct or a pointer to a struct, got %s", t.Kind()))
	}
	return t
}

// componentPointer copies the component into fresh storage and returns a *T.
func componentPointer(component any) (reflect.Type, any) {
	t := componentType(component)
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(value)
	return t, ptr.Interface()
}
