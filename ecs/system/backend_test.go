package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/milk9111/movecore/physics"
)

const testDT = 1.0 / 64

type fakeCollider struct {
	bb    cp.BB
	layer physics.Layer
}

// fakeBackend is a tiny AABB world with one character. Step integrates
// velocity with axis-separated resolution and emits platform contacts.
type fakeBackend struct {
	colliders *ecs.Arena[*fakeCollider]
	ignored   map[ecs.Entity]bool
	touching  map[ecs.Entity]bool
	contacts  ecs.Queue[physics.ContactEvent]

	pos, vel cp.Vector
	size     cp.Vector
	hitSelf  bool
	err      error
}

var (
	_ physics.Backend        = (*fakeBackend)(nil)
	_ physics.PairSuppressor = (*fakeBackend)(nil)
)

func newFakeBackend(pos cp.Vector) *fakeBackend {
	return &fakeBackend{
		colliders: ecs.NewArena[*fakeCollider](),
		ignored:   map[ecs.Entity]bool{},
		touching:  map[ecs.Entity]bool{},
		pos:       pos,
		size:      cp.Vector{X: 0.8, Y: 1},
	}
}

// plainBackend hides PairSuppressor.
type plainBackend struct {
	physics.Backend
}

func (f *fakeBackend) add(bb cp.BB, layer physics.Layer) ecs.Entity {
	return f.colliders.Insert(&fakeCollider{bb: bb, layer: layer})
}

func (f *fakeBackend) remove(e ecs.Entity) {
	f.colliders.Remove(e)
	delete(f.ignored, e)
	delete(f.touching, e)
}

func (f *fakeBackend) half() cp.Vector {
	return cp.Vector{X: f.size.X / 2, Y: f.size.Y / 2}
}

func (f *fakeBackend) Bounds() cp.BB {
	h := f.half()
	return cp.BB{L: f.pos.X - h.X, B: f.pos.Y - h.Y, R: f.pos.X + h.X, T: f.pos.Y + h.Y}
}

func (f *fakeBackend) BoxCast(origin, size, dir cp.Vector, distance float64, q physics.Query) (physics.Hit, bool) {
	half := cp.Vector{X: size.X / 2, Y: size.Y / 2}
	delta := dir.Normalize().Mult(distance)
	best := physics.Hit{Distance: math.Inf(1)}
	found := false
	consider := func(e ecs.Entity, bb cp.BB, layer physics.Layer) {
		t, ok := sweepAABB(origin, half, delta, bb)
		if !ok || t*distance >= best.Distance {
			return
		}
		found = true
		best = physics.Hit{Collider: e, Layer: layer, Point: origin.Add(delta.Mult(t)), Distance: t * distance}
	}
	f.colliders.Each(func(e ecs.Entity, c *fakeCollider) {
		if q.Mask.Has(c.layer) && e != q.Ignore {
			consider(e, c.bb, c.layer)
		}
	})
	if f.hitSelf {
		consider(0, f.Bounds(), physics.LayerCharacter)
	}
	return best, found
}

func (f *fakeBackend) RayCast(origin, dir cp.Vector, distance float64, q physics.Query) (physics.Hit, bool) {
	dir = dir.Normalize()
	best := physics.Hit{Distance: math.Inf(1)}
	found := false
	consider := func(e ecs.Entity, bb cp.BB, layer physics.Layer) {
		t, ok := rayAABB(origin, dir, distance, bb)
		if !ok || t >= best.Distance {
			return
		}
		found = true
		best = physics.Hit{Collider: e, Layer: layer, Point: origin.Add(dir.Mult(t)), Distance: t}
	}
	f.colliders.Each(func(e ecs.Entity, c *fakeCollider) {
		if q.Mask.Has(c.layer) && e != q.Ignore {
			consider(e, c.bb, c.layer)
		}
	})
	if f.hitSelf {
		// Rays start inside the body, so a self hit is reported at 0.
		if bb := f.Bounds(); origin.X >= bb.L && origin.X <= bb.R && origin.Y >= bb.B && origin.Y <= bb.T {
			best = physics.Hit{Layer: physics.LayerCharacter, Point: origin}
			found = true
		}
	}
	return best, found
}

func (f *fakeBackend) QueriesHitSelf() bool      { return f.hitSelf }
func (f *fakeBackend) SetQueriesHitSelf(hit bool) { f.hitSelf = hit }
func (f *fakeBackend) Position() cp.Vector        { return f.pos }
func (f *fakeBackend) SetPosition(p cp.Vector)    { f.pos = p }
func (f *fakeBackend) Velocity() cp.Vector        { return f.vel }
func (f *fakeBackend) SetVelocity(v cp.Vector)    { f.vel = v }
func (f *fakeBackend) Err() error                 { return f.err }

func (f *fakeBackend) Contacts() []physics.ContactEvent {
	return f.contacts.Drain()
}

func (f *fakeBackend) Alive(e ecs.Entity) bool {
	return f.colliders.Alive(e)
}

func (f *fakeBackend) SetCollisionIgnored(other ecs.Entity, ignored bool) error {
	if ignored {
		f.ignored[other] = true
	} else {
		delete(f.ignored, other)
	}
	return nil
}

func (f *fakeBackend) CollisionIgnored(other ecs.Entity) bool {
	return f.ignored[other]
}

// step moves the body by vel*dt, x first, then y.
func (f *fakeBackend) step(dt float64) {
	h := f.half()

	f.pos.X += f.vel.X * dt
	f.colliders.Each(func(e ecs.Entity, c *fakeCollider) {
		if c.layer != physics.LayerSolid || !overlaps(f.Bounds(), c.bb) {
			return
		}
		if f.vel.X > 0 {
			f.pos.X = c.bb.L - h.X
		} else {
			f.pos.X = c.bb.R + h.X
		}
		f.vel.X = 0
	})

	prevBottom := f.pos.Y - h.Y
	f.pos.Y += f.vel.Y * dt
	f.colliders.Each(func(e ecs.Entity, c *fakeCollider) {
		if !overlaps(f.Bounds(), c.bb) || f.ignored[e] {
			return
		}
		switch c.layer {
		case physics.LayerSolid:
			if f.vel.Y > 0 {
				f.pos.Y = c.bb.B - h.Y
			} else {
				f.pos.Y = c.bb.T + h.Y
			}
			f.vel.Y = 0
		case physics.LayerPlatform:
			if f.vel.Y <= 0 && prevBottom >= c.bb.T-1e-9 {
				f.pos.Y = c.bb.T + h.Y
				f.vel.Y = 0
			}
		}
	})

	bb := f.Bounds()
	f.colliders.Each(func(e ecs.Entity, c *fakeCollider) {
		if c.layer != physics.LayerPlatform {
			return
		}
		on := !f.ignored[e] && math.Abs(bb.B-c.bb.T) < 1e-9 && bb.R > c.bb.L && bb.L < c.bb.R
		switch {
		case on && !f.touching[e]:
			f.touching[e] = true
			f.contacts.Push(physics.ContactEvent{Kind: physics.ContactEnter, Collider: e, Layer: c.layer, Normal: cp.Vector{Y: -1}})
		case !on && f.touching[e]:
			delete(f.touching, e)
			f.contacts.Push(physics.ContactEvent{Kind: physics.ContactExit, Collider: e, Layer: c.layer, Normal: cp.Vector{Y: -1}})
		}
	})
}

func overlaps(a, b cp.BB) bool {
	const eps = 1e-9
	return a.L < b.R-eps && a.R > b.L+eps && a.B < b.T-eps && a.T > b.B+eps
}

func sweepAABB(center, half, delta cp.Vector, bb cp.BB) (float64, bool) {
	lo := cp.Vector{X: bb.L - half.X, Y: bb.B - half.Y}
	hi := cp.Vector{X: bb.R + half.X, Y: bb.T + half.Y}
	return slab(center, delta, lo, hi, 1)
}

func rayAABB(origin, dir cp.Vector, distance float64, bb cp.BB) (float64, bool) {
	if origin.X > bb.L && origin.X < bb.R && origin.Y > bb.B && origin.Y < bb.T {
		return 0, false
	}
	t, ok := slab(origin, dir.Mult(distance), cp.Vector{X: bb.L, Y: bb.B}, cp.Vector{X: bb.R, Y: bb.T}, 1)
	return t * distance, ok
}

// slab intersects p + d*t, t in [0,limit], with the box [lo,hi]. Motion
// along a face does not count.
func slab(p, d, lo, hi cp.Vector, limit float64) (float64, bool) {
	tmin, tmax := 0.0, limit
	axes := [2][4]float64{{p.X, d.X, lo.X, hi.X}, {p.Y, d.Y, lo.Y, hi.Y}}
	for _, a := range axes {
		o, v, l, h := a[0], a[1], a[2], a[3]
		if v == 0 {
			if o <= l || o >= h {
				return 0, false
			}
			continue
		}
		t1, t2 := (l-o)/v, (h-o)/v
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}
	if tmin > tmax || tmax <= 0 {
		return 0, false
	}
	return tmin, true
}
