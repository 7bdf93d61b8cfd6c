package system

import (
	"github.com/milk9111/movecore/common"
	"github.com/milk9111/movecore/ecs/component"
)

type JumpPhase uint8

const (
	JumpIdle JumpPhase = iota
	// JumpBuffered means a press is waiting for ground or coyote time.
	JumpBuffered
	JumpLaunched
	JumpAirborne
)

func (p JumpPhase) String() string {
	switch p {
	case JumpIdle:
		return "idle"
	case JumpBuffered:
		return "buffered"
	case JumpLaunched:
		return "launched"
	case JumpAirborne:
		return "airborne"
	}
	return "unknown"
}

// JumpSystem owns jump buffering and coyote time. Timestamps come from the
// controller clock so results do not depend on wall time.
type JumpSystem struct {
	phase JumpPhase
}

func NewJumpSystem() *JumpSystem {
	return &JumpSystem{}
}

func (j *JumpSystem) Phase() JumpPhase {
	if j == nil {
		return JumpIdle
	}
	return j.phase
}

func (j *JumpSystem) Reset() {
	if j != nil {
		j.phase = JumpIdle
	}
}

// Press records a jump press at now.
func (j *JumpSystem) Press(st *component.CharacterState, timers *component.JumpTimers, now float64) {
	if st == nil || timers == nil {
		return
	}
	st.JumpHeld = true
	timers.TimeJumpPressed = now
}

func (j *JumpSystem) Release(st *component.CharacterState) {
	if st != nil {
		st.JumpHeld = false
	}
}

// Buffered reports a press younger than the buffer window.
func (j *JumpSystem) Buffered(timers component.JumpTimers, cfg component.MovementConfig, now float64) bool {
	return now-timers.TimeJumpPressed < cfg.BufferTime
}

// CoyoteActive reports whether an airborne character may still jump off the
// ground it just left.
func (j *JumpSystem) CoyoteActive(st component.CharacterState, timers component.JumpTimers, cfg component.MovementConfig, now float64) bool {
	return !st.Grounded && timers.CoyoteAvailable && now-timers.TimeLeftGrounded < cfg.CoyoteTime
}

func (j *JumpSystem) CanLaunch(st component.CharacterState, timers component.JumpTimers, cfg component.MovementConfig, now float64) bool {
	if !j.Buffered(timers, cfg, now) {
		return false
	}
	return st.Grounded || j.CoyoteActive(st, timers, cfg, now)
}

// Update launches when a buffered press meets ground or coyote time and
// reports whether it did. A launch replaces vertical velocity outright.
func (j *JumpSystem) Update(st *component.CharacterState, timers *component.JumpTimers, cfg component.MovementConfig, now float64) bool {
	if j == nil || st == nil || timers == nil {
		return false
	}
	if !j.CanLaunch(*st, *timers, cfg, now) {
		switch {
		case j.Buffered(*timers, cfg, now):
			j.phase = JumpBuffered
		case st.Grounded:
			j.phase = JumpIdle
		default:
			j.phase = JumpAirborne
		}
		return false
	}

	st.Velocity.Y = cfg.JumpForce
	st.Grounded = false
	st.JumpCut = false
	st.ReachedApex = false
	timers.CoyoteAvailable = false
	timers.TimeJumpPressed = common.NegInf
	j.phase = JumpLaunched
	return true
}
