package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/common"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/physics"
)

// rayInset starts rays slightly inside the collider so a body sunk a little
// into the ground still sees it.
const rayInset = 0.02

var (
	up    = cp.Vector{Y: 1}
	left  = cp.Vector{X: -1}
	right = cp.Vector{X: 1}
)

// CollisionCorrectionSystem applies the three ray based corrections: the
// crouch ledge block, ceiling corner nudges and falling ledge catches.
type CollisionCorrectionSystem struct {
	// Mask is what the rays treat as terrain.
	Mask physics.Layer
}

func NewCollisionCorrectionSystem() *CollisionCorrectionSystem {
	return &CollisionCorrectionSystem{Mask: physics.LayerGround}
}

func (c *CollisionCorrectionSystem) cast(b physics.Backend, origin, dir cp.Vector, distance float64) bool {
	_, ok := b.RayCast(origin, dir, distance, physics.Query{Mask: c.Mask})
	return ok
}

// LedgeRays returns the outer and inner ray origins for the ledge block on
// one side. side is -1 for left and 1 for right. The outer ray sits on the
// collider edge and the inner one lands just past it.
func LedgeRays(bb cp.BB, side float64, cfg component.MovementConfig) (outer, inner cp.Vector) {
	center := bbCenter(bb)
	half := (bb.R - bb.L) / 2
	y := bb.B + rayInset

	edge := bb.R - rayInset
	if side < 0 {
		edge = bb.L + rayInset
	}
	return cp.Vector{X: edge, Y: y}, cp.Vector{X: center.X + side*(half*cfg.InnerRayOffset+cfg.RayOffsetX), Y: y}
}

// BlockLedge stops a crouching, grounded character from walking off a ledge.
// Velocity is zeroed only when moving toward the side with the ledge.
func (c *CollisionCorrectionSystem) BlockLedge(b physics.Backend, st *component.CharacterState, cfg component.MovementConfig) bool {
	if b == nil || st == nil || !st.Crouching || !st.Grounded || st.Velocity.X == 0 {
		return false
	}
	restore := withoutSelfQueries(b)
	defer restore()

	side := common.Sign(st.Velocity.X)
	outer, inner := LedgeRays(b.Bounds(), side, cfg)
	dist := cfg.LedgeCheckDistance + rayInset
	if !c.cast(b, outer, down, dist) || c.cast(b, inner, down, dist) {
		return false
	}
	st.Velocity.X = 0
	return true
}

// CeilingRays returns the four upward ray origins, left to right.
func CeilingRays(bb cp.BB, cfg component.MovementConfig) [4]cp.Vector {
	center := bbCenter(bb)
	half := (bb.R - bb.L) / 2
	y := bb.T - rayInset
	return [4]cp.Vector{
		{X: bb.L - cfg.OuterRayOffset, Y: y},
		{X: center.X - half*cfg.InnerRayOffset, Y: y},
		{X: center.X + half*cfg.InnerRayOffset, Y: y},
		{X: bb.R + cfg.OuterRayOffset, Y: y},
	}
}

// CorrectCeiling nudges an ascending character sideways when only one outer
// corner ray meets the ceiling and the head is otherwise clear.
func (c *CollisionCorrectionSystem) CorrectCeiling(b physics.Backend, st *component.CharacterState, cfg component.MovementConfig) bool {
	if b == nil || st == nil || !st.Ascending() {
		return false
	}
	restore := withoutSelfQueries(b)
	defer restore()

	rays := CeilingRays(b.Bounds(), cfg)
	dist := cfg.CeilingCheckDistance + rayInset
	var hits [4]bool
	for i, origin := range rays {
		hits[i] = c.cast(b, origin, up, dist)
	}
	if hits[1] || hits[2] {
		return false
	}

	var dir float64
	switch {
	case hits[0] && !hits[3]:
		dir = 1
	case hits[3] && !hits[0]:
		dir = -1
	default:
		return false
	}
	pos := b.Position()
	pos.X += dir * cfg.CornerCorrectionDistance
	b.SetPosition(pos)
	st.Position = pos
	return true
}

// EdgeRays returns the bottom and top origins for a ledge catch toward side.
func EdgeRays(bb cp.BB, side float64, cfg component.MovementConfig) (bottom, top cp.Vector) {
	x := bb.R - rayInset
	if side < 0 {
		x = bb.L + rayInset
	}
	return cp.Vector{X: x, Y: bb.B + cfg.BottomRayOffset},
		cp.Vector{X: x, Y: bb.B + cfg.EdgeInnerHeight + cfg.TopRayOffset}
}

// CatchLedge lifts a falling character over a ledge lip its feet clipped
// and lands it there.
func (c *CollisionCorrectionSystem) CatchLedge(b physics.Backend, st *component.CharacterState, timers *component.JumpTimers, cfg component.MovementConfig) bool {
	if b == nil || st == nil || timers == nil || st.Grounded || st.Velocity.Y > 0 {
		return false
	}
	side := common.Sign(st.HorizontalInput)
	if side == 0 {
		side = common.Sign(st.Velocity.X)
	}
	if side == 0 {
		return false
	}
	restore := withoutSelfQueries(b)
	defer restore()

	dir := right
	if side < 0 {
		dir = left
	}
	bottom, top := EdgeRays(b.Bounds(), side, cfg)
	dist := cfg.EdgeRayLength + rayInset
	if !c.cast(b, bottom, dir, dist) || c.cast(b, top, dir, dist) {
		return false
	}

	pos := b.Position()
	pos.Y += cfg.EdgeCorrectionDistance
	b.SetPosition(pos)
	st.Position = pos
	st.Velocity.Y = 0
	st.Grounded = true
	st.ReachedApex = false
	timers.CoyoteAvailable = true
	return true
}
