package system

import (
	"math"

	"github.com/milk9111/movecore/common"
	"github.com/milk9111/movecore/ecs/component"
)

// GravityPhase names the rule that picked this tick's gravity multiplier.
type GravityPhase uint8

const (
	GravityGrounded GravityPhase = iota
	GravityFastFall
	GravityJumpCut
	GravityApexHang
	GravityFalling
	GravityRising
)

func (p GravityPhase) String() string {
	switch p {
	case GravityGrounded:
		return "grounded"
	case GravityFastFall:
		return "fast_fall"
	case GravityJumpCut:
		return "jump_cut"
	case GravityApexHang:
		return "apex_hang"
	case GravityFalling:
		return "falling"
	case GravityRising:
		return "rising"
	}
	return "unknown"
}

// GravitySystem integrates vertical velocity with phase dependent
// multipliers. Observe must run before Update each tick.
type GravitySystem struct {
	phase      GravityPhase
	multiplier float64

	prevVY     float64
	wasRising  bool
	apexWindow float64
}

func NewGravitySystem() *GravitySystem {
	return &GravitySystem{multiplier: 1}
}

func (g *GravitySystem) Reset() {
	if g == nil {
		return
	}
	*g = GravitySystem{multiplier: 1}
}

func (g *GravitySystem) Phase() GravityPhase {
	if g == nil {
		return GravityGrounded
	}
	return g.phase
}

// Multiplier is the gravity scale applied by the last Update.
func (g *GravitySystem) Multiplier() float64 {
	if g == nil {
		return 1
	}
	return g.multiplier
}

// ApexWindow is the remaining apex hang time.
func (g *GravitySystem) ApexWindow() float64 {
	if g == nil {
		return 0
	}
	return g.apexWindow
}

// Observe updates the jump-cut and apex flags from the current state.
func (g *GravitySystem) Observe(st *component.CharacterState, cfg component.MovementConfig) {
	if g == nil || st == nil {
		return
	}
	vy := st.Velocity.Y

	if st.Grounded {
		st.JumpCut = false
		st.ReachedApex = false
		g.apexWindow = 0
		g.wasRising = false
		g.prevVY = vy
		return
	}

	g.wasRising = g.prevVY > 0
	if !st.JumpHeld && vy > 0 {
		st.JumpCut = true
	}
	if g.wasRising && vy <= 0 && !st.ReachedApex && (st.JumpHeld || !st.JumpCut) {
		st.ReachedApex = true
		g.apexWindow = cfg.ApexHangDuration
	}
	g.prevVY = vy
}

// Update applies one tick of gravity to st.Velocity.Y.
func (g *GravitySystem) Update(st *component.CharacterState, cfg component.MovementConfig, dt float64) {
	if g == nil || st == nil || dt <= 0 {
		return
	}
	vy := st.Velocity.Y

	if st.Grounded && vy <= 0 {
		g.phase = GravityGrounded
		g.multiplier = 1
		st.Velocity.Y = -cfg.GroundingForce
		return
	}

	limit := cfg.MaxFallSpeed
	switch {
	case vy < 0 && st.FastFall && cfg.FastFallEnabled:
		g.phase = GravityFastFall
		g.multiplier = cfg.FastFallMultiplier
		limit = cfg.MaxFastFallSpeed
	case st.JumpCut && vy > 0:
		g.phase = GravityJumpCut
		g.multiplier = cfg.JumpCutMultiplier
	case ((vy > 0 || g.wasRising) && math.Abs(vy) < cfg.ApexThreshold) || g.apexWindow > 0:
		g.phase = GravityApexHang
		g.multiplier = cfg.ApexHangMultiplier
	case vy < 0:
		g.phase = GravityFalling
		g.multiplier = cfg.FallMultiplier
	default:
		g.phase = GravityRising
		g.multiplier = 1
	}

	vy = common.MoveTowards(vy, -limit, cfg.DefaultGravity*g.multiplier*dt)
	if vy < -limit {
		vy = -limit
	}
	st.Velocity.Y = vy
	if g.apexWindow > 0 {
		g.apexWindow = math.Max(0, g.apexWindow-dt)
	}
}
