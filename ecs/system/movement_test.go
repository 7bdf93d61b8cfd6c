package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs/component"
)

func TestMovementTarget(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	cases := []struct {
		name string
		st   component.CharacterState
		want float64
	}{
		{"run", component.CharacterState{Grounded: true, HorizontalInput: 1}, cfg.MaxSpeed},
		{"crouch", component.CharacterState{Grounded: true, Crouching: true, HorizontalInput: -1}, -cfg.MaxSpeed * cfg.CrouchMultiplier},
		{"crouch_in_air", component.CharacterState{Crouching: true, HorizontalInput: 1}, cfg.MaxSpeed},
		{"past_apex", component.CharacterState{ReachedApex: true, HorizontalInput: 0.5}, 0.5 * cfg.MaxSpeed * cfg.ApexSpeedMultiplier},
		{"idle", component.CharacterState{Grounded: true}, 0},
	}
	m := NewMovementSystem()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Target(tc.st, cfg); math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("Target = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMovementRateNeverOvershoots(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	m := NewMovementSystem()
	cases := []struct {
		name string
		st   component.CharacterState
		rate float64
	}{
		{"accelerate", component.CharacterState{Grounded: true, HorizontalInput: 1}, cfg.Acceleration},
		{"ground_stop", component.CharacterState{Grounded: true, Velocity: cp.Vector{X: 10}}, cfg.GroundDeceleration},
		{"air_stop", component.CharacterState{Velocity: cp.Vector{X: -10}}, cfg.AirDeceleration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Rate(tc.st, cfg); got != tc.rate {
				t.Fatalf("Rate = %v, want %v", got, tc.rate)
			}
			st := tc.st
			target := m.Target(st, cfg)
			for i := 0; i < 200; i++ {
				before := math.Abs(st.Velocity.X - target)
				m.Update(&st, cfg, testDT)
				if after := math.Abs(st.Velocity.X - target); after > before {
					t.Fatalf("tick %d moved away from the target: %v -> %v", i, before, after)
				}
			}
			if st.Velocity.X != target {
				t.Fatalf("vx = %v, want %v", st.Velocity.X, target)
			}
		})
	}
}
