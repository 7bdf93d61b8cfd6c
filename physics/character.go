package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
)

// CharacterBody is one character's dynamic body. It implements Backend and
// PairSuppressor.
type CharacterBody struct {
	world    *World
	entity   ecs.Entity
	body     *cp.Body
	shape    *cp.Shape
	size     cp.Vector
	group    uint
	hitSelf  bool
	contacts ecs.Queue[ContactEvent]
}

var (
	_ Backend        = (*CharacterBody)(nil)
	_ PairSuppressor = (*CharacterBody)(nil)
)

// Entity returns the character's own collider handle.
func (c *CharacterBody) Entity() ecs.Entity {
	if c == nil {
		return 0
	}
	return c.entity
}

func (c *CharacterBody) Size() cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	return c.size
}

func (c *CharacterBody) Err() error {
	if c == nil || c.world == nil || !c.world.Alive(c.entity) {
		return ErrDisposed
	}
	return nil
}

func (c *CharacterBody) BoxCast(origin, size, dir cp.Vector, distance float64, q Query) (Hit, bool) {
	if c.Err() != nil {
		return Hit{}, false
	}
	return c.world.boxCast(c, origin, size, dir, distance, q)
}

func (c *CharacterBody) RayCast(origin, dir cp.Vector, distance float64, q Query) (Hit, bool) {
	if c.Err() != nil {
		return Hit{}, false
	}
	return c.world.rayCast(c, origin, dir, distance, q)
}

func (c *CharacterBody) QueriesHitSelf() bool {
	return c != nil && c.hitSelf
}

func (c *CharacterBody) SetQueriesHitSelf(hit bool) {
	if c == nil {
		return
	}
	c.hitSelf = hit
}

func (c *CharacterBody) Bounds() cp.BB {
	if c.Err() != nil {
		return cp.BB{}
	}
	return boxBB(fromSpace(c.body.Position()), c.size)
}

func (c *CharacterBody) Position() cp.Vector {
	if c.Err() != nil {
		return cp.Vector{}
	}
	return fromSpace(c.body.Position())
}

func (c *CharacterBody) SetPosition(pos cp.Vector) {
	if c.Err() != nil {
		return
	}
	c.body.SetPosition(toSpace(pos))
}

func (c *CharacterBody) Velocity() cp.Vector {
	if c.Err() != nil {
		return cp.Vector{}
	}
	return fromSpace(c.body.Velocity())
}

func (c *CharacterBody) SetVelocity(v cp.Vector) {
	if c.Err() != nil {
		return
	}
	c.body.SetVelocityVector(toSpace(v))
}

func (c *CharacterBody) Contacts() []ContactEvent {
	if c == nil {
		return nil
	}
	return c.contacts.Drain()
}

func (c *CharacterBody) Alive(e ecs.Entity) bool {
	if c == nil {
		return false
	}
	return c.world.Alive(e)
}

// SetCollisionIgnored toggles collision between this character and one
// collider. Other colliders are unaffected.
func (c *CharacterBody) SetCollisionIgnored(other ecs.Entity, ignored bool) error {
	if err := c.Err(); err != nil {
		return err
	}
	if ignored && !c.world.Alive(other) {
		return nil
	}
	c.world.setIgnored(c.entity, other, ignored)
	return nil
}

func (c *CharacterBody) CollisionIgnored(other ecs.Entity) bool {
	if c.Err() != nil {
		return false
	}
	return c.world.ignoredPairs[pairKey{character: c.entity, other: other}]
}

// Remove takes the body out of the world. The character reports
// ErrDisposed afterwards.
func (c *CharacterBody) Remove() bool {
	if c == nil || c.world == nil {
		return false
	}
	return c.world.Remove(c.entity)
}
