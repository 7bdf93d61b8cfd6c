package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
)

// minTopNormal is how far the character->platform normal must point down
// for a one-way platform contact to be solid.
const minTopNormal = 0.7

func (w *World) setupHandlers() {
	if w.handlersReady || w.space == nil {
		return
	}

	platformHandler := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypePlatform)
	platformHandler.UserData = w
	platformHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		w.recordContact(arb, ContactEnter)
		return true
	}
	platformHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		ch, other, n, ok := w.resolvePair(arb)
		if !ok {
			return true
		}
		if w.ignoredPairs[pairKey{character: ch.entity, other: other}] {
			return false
		}
		// One-way: only solid when landing on top.
		if n.Y > -minTopNormal {
			return arb.Ignore()
		}
		return true
	}
	platformHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		w.recordContact(arb, ContactExit)
	}

	solidHandler := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeSolid)
	solidHandler.UserData = w
	solidHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		w.recordContact(arb, ContactEnter)
		return true
	}
	solidHandler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		w.recordContact(arb, ContactExit)
	}

	w.handlersReady = true
}

// resolvePair finds the character side of an arbiter and returns the
// contact normal pointing from the character to the other collider.
func (w *World) resolvePair(arb *cp.Arbiter) (*CharacterBody, ecs.Entity, cp.Vector, bool) {
	shapeA, shapeB := arb.Shapes()
	n := arb.Normal()

	otherShape := shapeB
	ch := w.characterFor(shapeA)
	if ch == nil {
		ch = w.characterFor(shapeB)
		if ch == nil {
			return nil, 0, cp.Vector{}, false
		}
		otherShape = shapeA
		n = n.Neg()
	}
	other, ok := w.shapeToEntity[otherShape]
	if !ok {
		return nil, 0, cp.Vector{}, false
	}
	return ch, other, n, true
}

func (w *World) characterFor(shape *cp.Shape) *CharacterBody {
	e, ok := w.shapeToEntity[shape]
	if !ok {
		return nil
	}
	c, ok := w.colliders.Get(e)
	if !ok {
		return nil
	}
	return c.character
}

func (w *World) recordContact(arb *cp.Arbiter, kind ContactKind) {
	ch, other, n, ok := w.resolvePair(arb)
	if !ok {
		return
	}
	layer, _ := w.LayerOf(other)
	ch.contacts.Push(ContactEvent{Kind: kind, Collider: other, Layer: layer, Normal: n})
}
