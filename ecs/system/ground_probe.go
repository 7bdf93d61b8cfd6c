package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/physics"
)

// probeSkin shrinks the probe box so walls and ceilings the body rests
// against are not read as ground.
const probeSkin = 0.02

// sinkTolerance is how far the feet may sit below a platform top and still
// stand on it. Backends that resolve contacts softly leave the body inside.
const sinkTolerance = 0.1

var down = cp.Vector{Y: -1}

// withoutSelfQueries disables self hits on b and returns the restore func.
func withoutSelfQueries(b physics.Backend) func() {
	prev := b.QueriesHitSelf()
	b.SetQueriesHitSelf(false)
	return func() { b.SetQueriesHitSelf(prev) }
}

// GroundProbeSystem decides grounded state with a downward box-cast the size
// of the collider.
type GroundProbeSystem struct{}

func NewGroundProbeSystem() *GroundProbeSystem {
	return &GroundProbeSystem{}
}

// Probe reports whether a box of size centered on position hits anything
// within castDistance below it. Colliders on the exclude layers and ignore
// are skipped. A platform counts when its top is below the feet, or at most
// sinkTolerance above them.
func (g *GroundProbeSystem) Probe(b physics.Backend, position, size cp.Vector, castDistance float64, exclude physics.Layer, ignore ecs.Entity) bool {
	return g.check(b, position, size, castDistance, exclude, ignore, sinkTolerance)
}

func (g *GroundProbeSystem) check(b physics.Backend, position, size cp.Vector, castDistance float64, exclude physics.Layer, ignore ecs.Entity, sink float64) bool {
	if b == nil || castDistance < 0 {
		return false
	}
	restore := withoutSelfQueries(b)
	defer restore()

	box := cp.Vector{X: size.X - 2*probeSkin, Y: size.Y - 2*probeSkin}
	if box.X <= 0 || box.Y <= 0 {
		box = size
	}
	dist := castDistance + (size.Y-box.Y)/2

	mask := physics.LayerAll &^ exclude
	if _, ok := b.BoxCast(position, box, down, dist, physics.Query{Mask: mask &^ physics.LayerPlatform, Ignore: ignore}); ok {
		return true
	}
	if !mask.Has(physics.LayerPlatform) {
		return false
	}
	// Cast from sink higher up: a platform the raised box still overlaps is
	// one the body is passing through, not standing on.
	origin := cp.Vector{X: position.X, Y: position.Y + sink}
	hit, ok := b.BoxCast(origin, box, down, dist+sink, physics.Query{Mask: physics.LayerPlatform, Ignore: ignore})
	return ok && hit.Distance > 0
}

// Update runs the probe for the character and applies the ground
// transitions: landing re-arms coyote time, leaving stamps the time.
func (g *GroundProbeSystem) Update(b physics.Backend, st *component.CharacterState, timers *component.JumpTimers, cfg component.MovementConfig, now float64, ignore ecs.Entity) bool {
	if b == nil || st == nil || timers == nil {
		return false
	}
	bb := b.Bounds()
	// Rising through a platform never lands on it.
	sink := 0.0
	if st.Velocity.Y <= 0 {
		sink = sinkTolerance
	}
	grounded := g.check(b, bbCenter(bb), bbSize(bb), cfg.GrounderDistance, physics.LayerCharacter, ignore, sink)

	switch {
	case grounded && !st.Grounded:
		timers.CoyoteAvailable = true
	case !grounded && st.Grounded:
		timers.TimeLeftGrounded = now
	}
	st.Grounded = grounded
	return grounded
}

func bbCenter(bb cp.BB) cp.Vector {
	return cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}

func bbSize(bb cp.BB) cp.Vector {
	return cp.Vector{X: bb.R - bb.L, Y: bb.T - bb.B}
}
