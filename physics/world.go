package physics

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlatform
	collisionTypeCharacter
)

const allCategories = ^uint(0)

// spaceScale converts world units (tiles) to Chipmunk units. Chipmunk's
// collision slop is tuned for pixel-sized units.
const spaceScale = 32.0

func toSpace(v cp.Vector) cp.Vector {
	return v.Mult(spaceScale)
}

func fromSpace(v cp.Vector) cp.Vector {
	return v.Mult(1 / spaceScale)
}

func scaleBB(bb cp.BB) cp.BB {
	return cp.BB{L: bb.L * spaceScale, B: bb.B * spaceScale, R: bb.R * spaceScale, T: bb.T * spaceScale}
}

// A character that Chipmunk leaves sunk into ground below it is lifted back
// onto the surface after each step, as long as it is no deeper than
// settleDepth, overlaps the ground horizontally by at least settleOverlap
// and by no less than the depth, and is not moving up away from it faster
// than settleSpeed.
const (
	settleDepth   = 0.45
	settleOverlap = 0.02
	settleSpeed   = 0.5
)

type collider struct {
	shape *cp.Shape
	body  *cp.Body
	// local is the collider box in world units relative to the body.
	local     cp.BB
	layer     Layer
	character *CharacterBody
}

func (c *collider) bounds() cp.BB {
	return offsetBB(c.local, fromSpace(c.body.Position()))
}

type pairKey struct {
	character ecs.Entity
	other     ecs.Entity
}

// World owns the Chipmunk space and every collider the movement core can
// see. Gravity is zero: the character controller integrates its own.
type World struct {
	space         *cp.Space
	colliders     *ecs.Arena[*collider]
	shapeToEntity map[*cp.Shape]ecs.Entity
	ignoredPairs  map[pairKey]bool
	movers        []*Mover
	nextGroup     uint
	handlersReady bool

	// Verbose logs suppression toggles and collider removal.
	Verbose bool
}

func NewWorld() *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	w := &World{
		space:         space,
		colliders:     ecs.NewArena[*collider](),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
		ignoredPairs:  make(map[pairKey]bool),
	}
	w.setupHandlers()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AddSolid adds a static box collider.
func (w *World) AddSolid(bb cp.BB) (ecs.Entity, error) {
	return w.addStatic(bb, LayerSolid, collisionTypeSolid)
}

// AddPlatform adds a static one-way platform.
func (w *World) AddPlatform(bb cp.BB) (ecs.Entity, error) {
	return w.addStatic(bb, LayerPlatform, collisionTypePlatform)
}

func (w *World) addStatic(bb cp.BB, layer Layer, ct cp.CollisionType) (ecs.Entity, error) {
	if w == nil || w.space == nil {
		return 0, ErrDisposed
	}
	if bb.R <= bb.L || bb.T <= bb.B {
		return 0, fmt.Errorf("physics: empty %s box %v", layer, bb)
	}
	shape := cp.NewBox2(w.space.StaticBody, scaleBB(bb), 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(ct)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(layer), Mask: allCategories})
	w.space.AddShape(shape)

	e := w.colliders.Insert(&collider{shape: shape, body: w.space.StaticBody, local: bb, layer: layer})
	w.shapeToEntity[shape] = e
	return e, nil
}

// AddMovingPlatform adds a kinematic one-way platform that ping-pongs
// between bb and bb shifted by delta, taking duration seconds each way.
func (w *World) AddMovingPlatform(bb cp.BB, delta cp.Vector, duration float64) (ecs.Entity, error) {
	if w == nil || w.space == nil {
		return 0, ErrDisposed
	}
	if bb.R <= bb.L || bb.T <= bb.B {
		return 0, fmt.Errorf("physics: empty platform box %v", bb)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("physics: moving platform duration must be > 0, got %v", duration)
	}
	width, height := bb.R-bb.L, bb.T-bb.B
	center := cp.Vector{X: bb.L + width/2, Y: bb.B + height/2}

	body := cp.NewKinematicBody()
	body.SetPosition(toSpace(center))
	shape := cp.NewBox(body, width*spaceScale, height*spaceScale, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypePlatform)
	shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(LayerPlatform), Mask: allCategories})
	w.space.AddBody(body)
	w.space.AddShape(shape)

	local := cp.BB{L: -width / 2, B: -height / 2, R: width / 2, T: height / 2}
	e := w.colliders.Insert(&collider{shape: shape, body: body, local: local, layer: LayerPlatform})
	w.shapeToEntity[shape] = e
	w.movers = append(w.movers, newMover(e, body, toSpace(center), toSpace(delta), duration))
	return e, nil
}

// AddCharacter adds a dynamic, non-rotating character body centred at pos.
func (w *World) AddCharacter(pos, size cp.Vector) (*CharacterBody, error) {
	if w == nil || w.space == nil {
		return nil, ErrDisposed
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("physics: character size must be positive, got %v", size)
	}
	w.nextGroup++

	body := cp.NewBody(1, cp.INFINITY)
	body.SetPosition(toSpace(pos))
	shape := cp.NewBox(body, size.X*spaceScale, size.Y*spaceScale, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFilter(cp.ShapeFilter{Group: w.nextGroup, Categories: uint(LayerCharacter), Mask: allCategories})
	w.space.AddBody(body)
	w.space.AddShape(shape)

	cb := &CharacterBody{world: w, body: body, shape: shape, size: size, group: w.nextGroup}
	local := cp.BB{L: -size.X / 2, B: -size.Y / 2, R: size.X / 2, T: size.Y / 2}
	cb.entity = w.colliders.Insert(&collider{shape: shape, body: body, local: local, layer: LayerCharacter, character: cb})
	w.shapeToEntity[shape] = cb.entity
	return cb, nil
}

// Alive reports whether a collider handle still resolves.
func (w *World) Alive(e ecs.Entity) bool {
	return w != nil && w.space != nil && w.colliders.Alive(e)
}

// LayerOf returns the layer of a live collider.
func (w *World) LayerOf(e ecs.Entity) (Layer, bool) {
	if w == nil {
		return 0, false
	}
	c, ok := w.colliders.Get(e)
	if !ok {
		return 0, false
	}
	return c.layer, true
}

// BoundsOf returns the current box of a live collider.
func (w *World) BoundsOf(e ecs.Entity) (cp.BB, bool) {
	if w == nil {
		return cp.BB{}, false
	}
	c, ok := w.colliders.Get(e)
	if !ok {
		return cp.BB{}, false
	}
	return c.bounds(), true
}

// Each visits every live collider except characters.
func (w *World) Each(fn func(e ecs.Entity, layer Layer, bb cp.BB)) {
	if w == nil || fn == nil {
		return
	}
	w.colliders.Each(func(e ecs.Entity, c *collider) {
		if c.character != nil {
			return
		}
		fn(e, c.layer, c.bounds())
	})
}

// Remove destroys a collider. Handles to it stop resolving immediately.
// It must not be called during Step.
func (w *World) Remove(e ecs.Entity) bool {
	if w == nil || w.space == nil {
		return false
	}
	c, ok := w.colliders.Get(e)
	if !ok {
		return false
	}
	w.space.RemoveShape(c.shape)
	if c.body != w.space.StaticBody {
		w.space.RemoveBody(c.body)
	}
	delete(w.shapeToEntity, c.shape)
	w.colliders.Remove(e)

	for key := range w.ignoredPairs {
		if key.character == e || key.other == e {
			delete(w.ignoredPairs, key)
		}
	}
	movers := w.movers[:0]
	for _, m := range w.movers {
		if m.platform != e {
			movers = append(movers, m)
		}
	}
	w.movers = movers

	if w.Verbose {
		log.Printf("physics: removed %s collider %s", c.layer, e)
	}
	return true
}

// Step advances moving platforms and the simulation.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	for _, m := range w.movers {
		m.advance(dt)
	}
	w.space.Step(dt)
	w.colliders.Each(func(_ ecs.Entity, c *collider) {
		if c.character != nil {
			w.settle(c.character)
		}
	})
}

// settle lifts ch out of the ground collider it has sunk into the most.
// Suppressed pairs are skipped. Velocity into the surface is dropped and a
// moving platform's vertical velocity is carried over.
func (w *World) settle(ch *CharacterBody) {
	bb := boxBB(fromSpace(ch.body.Position()), ch.size)
	vel := fromSpace(ch.body.Velocity())

	lift := 0.0
	var carry cp.Vector
	w.colliders.Each(func(e ecs.Entity, c *collider) {
		if c.character != nil || !LayerGround.Has(c.layer) || w.ignoredPairs[pairKey{character: ch.entity, other: e}] {
			return
		}
		ground := c.bounds()
		overlap := math.Min(bb.R, ground.R) - math.Max(bb.L, ground.L)
		depth := ground.T - bb.B
		// Deeper than wide means the body ran into the side.
		if overlap < settleOverlap || overlap < depth {
			return
		}
		if depth <= 0 || depth > settleDepth || depth <= lift {
			return
		}
		support := fromSpace(c.body.Velocity())
		if vel.Y-support.Y > settleSpeed {
			return
		}
		lift, carry = depth, support
	})
	if lift == 0 {
		return
	}

	ch.body.SetPosition(ch.body.Position().Add(cp.Vector{Y: lift * spaceScale}))
	if vel.Y < carry.Y {
		ch.body.SetVelocityVector(toSpace(cp.Vector{X: vel.X, Y: carry.Y}))
	}
}

// Close disposes the world. Every CharacterBody reports ErrDisposed after.
func (w *World) Close() {
	if w == nil || w.space == nil {
		return
	}
	w.space = nil
	w.colliders = ecs.NewArena[*collider]()
	w.shapeToEntity = map[*cp.Shape]ecs.Entity{}
	w.ignoredPairs = map[pairKey]bool{}
	w.movers = nil
}

func (w *World) setIgnored(character, other ecs.Entity, ignored bool) {
	key := pairKey{character: character, other: other}
	if ignored {
		w.ignoredPairs[key] = true
	} else {
		delete(w.ignoredPairs, key)
	}
	if w.Verbose {
		log.Printf("physics: character %s ignore %s = %v", character, other, ignored)
	}
}

func (w *World) boxCast(self *CharacterBody, origin, size, dir cp.Vector, distance float64, q Query) (Hit, bool) {
	if w == nil || w.space == nil || distance < 0 {
		return Hit{}, false
	}
	delta := dir.Normalize().Mult(distance)
	half := cp.Vector{X: size.X / 2, Y: size.Y / 2}

	best := Hit{Distance: distance}
	found := false
	w.colliders.Each(func(e ecs.Entity, c *collider) {
		if !q.Mask.Has(c.layer) || e == q.Ignore {
			return
		}
		if self != nil && c.character == self && !self.hitSelf {
			return
		}
		t, normal, ok := sweepBox(origin, half, delta, c.bounds())
		if !ok {
			return
		}
		d := t * distance
		if found && d >= best.Distance {
			return
		}
		found = true
		best = Hit{
			Collider: e,
			Layer:    c.layer,
			Point:    origin.Add(delta.Mult(t)),
			Normal:   normal,
			Distance: d,
		}
	})
	return best, found
}

// rayCast walks Chipmunk segment queries, stepping past an ignored collider
// when one is hit first.
func (w *World) rayCast(self *CharacterBody, origin, dir cp.Vector, distance float64, q Query) (Hit, bool) {
	if w == nil || w.space == nil || distance <= 0 {
		return Hit{}, false
	}
	const skip = 1e-4

	dir = dir.Normalize()
	end := origin.Add(dir.Mult(distance))
	filter := cp.ShapeFilter{Group: 0, Categories: allCategories, Mask: uint(q.Mask)}
	if self != nil && !self.hitSelf {
		filter.Group = self.group
	}

	start := origin
	travelled := 0.0
	for i := 0; i < 4; i++ {
		info := w.space.SegmentQueryFirst(toSpace(start), toSpace(end), 0, filter)
		if info.Shape == nil {
			return Hit{}, false
		}
		e := w.shapeToEntity[info.Shape]
		hitDist := travelled + info.Alpha*(distance-travelled)
		if e != q.Ignore || !q.Ignore.Valid() {
			layer, _ := w.LayerOf(e)
			return Hit{
				Collider: e,
				Layer:    layer,
				Point:    fromSpace(info.Point),
				Normal:   info.Normal,
				Distance: hitDist,
			}, true
		}
		travelled = hitDist + skip
		if travelled >= distance {
			return Hit{}, false
		}
		start = origin.Add(dir.Mult(travelled))
	}
	return Hit{}, false
}
