package system

import (
	"github.com/milk9111/movecore/common"
	"github.com/milk9111/movecore/ecs/component"
)

// MovementSystem accelerates horizontal velocity toward the input target.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

// Target is the horizontal speed the character steers toward.
func (m *MovementSystem) Target(st component.CharacterState, cfg component.MovementConfig) float64 {
	target := st.HorizontalInput * cfg.MaxSpeed
	if st.Grounded && st.Crouching {
		target *= cfg.CrouchMultiplier
	}
	if !st.Grounded && st.ReachedApex {
		target *= cfg.ApexSpeedMultiplier
	}
	return target
}

func (m *MovementSystem) Rate(st component.CharacterState, cfg component.MovementConfig) float64 {
	switch {
	case st.HorizontalInput != 0:
		return cfg.Acceleration
	case st.Grounded:
		return cfg.GroundDeceleration
	}
	return cfg.AirDeceleration
}

func (m *MovementSystem) Update(st *component.CharacterState, cfg component.MovementConfig, dt float64) {
	if st == nil || dt <= 0 {
		return
	}
	st.Velocity.X = common.MoveTowards(st.Velocity.X, m.Target(*st, cfg), m.Rate(*st, cfg)*dt)
}
