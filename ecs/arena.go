package ecs

// Arena hands out generation-checked handles for values of T. A handle
// stops resolving as soon as its value is removed, even if the slot is
// reused later.
type Arena[T any] struct {
	store  entityStore
	values SparseSet[T]
}

func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Entity {
	if a == nil {
		return 0
	}
	e := a.store.create()
	a.values.Set(int(e.id()), v)
	return e
}

// Get resolves a handle. Stale or zero handles report false.
func (a *Arena[T]) Get(e Entity) (T, bool) {
	if a == nil || !a.store.isAlive(e) {
		var zero T
		return zero, false
	}
	return a.values.Get(int(e.id()))
}

// Set replaces the value behind a live handle.
func (a *Arena[T]) Set(e Entity, v T) bool {
	if a == nil || !a.store.isAlive(e) {
		return false
	}
	a.values.Set(int(e.id()), v)
	return true
}

// Remove invalidates the handle. It returns false for stale handles.
func (a *Arena[T]) Remove(e Entity) bool {
	if a == nil || !a.store.destroy(e) {
		return false
	}
	a.values.Remove(int(e.id()))
	return true
}

func (a *Arena[T]) Alive(e Entity) bool {
	return a != nil && a.store.isAlive(e)
}

func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.values.Len()
}

// Each visits every live value. fn must not insert or remove.
func (a *Arena[T]) Each(fn func(Entity, T)) {
	if a == nil || fn == nil {
		return
	}
	for _, id := range a.values.IDs() {
		v, _ := a.values.Get(id)
		fn(a.store.current(entityID(id)), v)
	}
}
