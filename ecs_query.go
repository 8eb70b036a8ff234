package fireworks

import (
	"reflect"
)

type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (q Query1[A]) Count() int {
	return len(q.ecs.stores[typeOf[A]()])
}

// Map visits entities holding both A and B in ascending id order until m
// returns false.
func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	ta, tb := typeOf[A](), typeOf[B]()
	for _, eid := range q.ecs.sortedIds(ta) {
		b, ok := q.ecs.getComponent(eid, tb).(*B)
		if !ok {
			continue
		}
		if !m(eid, q.ecs.getComponent(eid, ta).(*A), b) {
			return
		}
	}
}
