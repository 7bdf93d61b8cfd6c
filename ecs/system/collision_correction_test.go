package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/physics"
)

func TestBlockLedge(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	cases := []struct {
		name      string
		crouching bool
		vx        float64
		blocked   bool
	}{
		{"toward_ledge", true, 3, true},
		{"away_from_ledge", true, -3, false},
		{"standing", false, 3, false},
		{"still", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Floor ends at x=0; the body's right edge sits just short of it.
			f := newFakeBackend(cp.Vector{X: -0.45, Y: 0.5})
			f.add(cp.BB{L: -5, B: -1, R: 0, T: 0}, physics.LayerSolid)
			st := component.CharacterState{Grounded: true, Crouching: tc.crouching, Velocity: cp.Vector{X: tc.vx}}

			got := NewCollisionCorrectionSystem().BlockLedge(f, &st, cfg)
			if got != tc.blocked {
				t.Fatalf("BlockLedge = %v, want %v", got, tc.blocked)
			}
			if tc.blocked && st.Velocity.X != 0 {
				t.Fatalf("vx = %v, want 0", st.Velocity.X)
			}
			if !tc.blocked && st.Velocity.X != tc.vx {
				t.Fatalf("vx changed to %v", st.Velocity.X)
			}
		})
	}
}

func TestCorrectCeiling(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	cases := []struct {
		name    string
		ceiling cp.BB
		vy      float64
		wantX   float64
	}{
		{"left_corner", cp.BB{L: -3, B: 1.2, R: -0.3, T: 2}, 5, cfg.CornerCorrectionDistance},
		{"right_corner", cp.BB{L: 0.3, B: 1.2, R: 3, T: 2}, 5, -cfg.CornerCorrectionDistance},
		{"flat_ceiling", cp.BB{L: -3, B: 1.2, R: 3, T: 2}, 5, 0},
		{"falling", cp.BB{L: -3, B: 1.2, R: -0.3, T: 2}, -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeBackend(cp.Vector{Y: 0.5})
			f.add(tc.ceiling, physics.LayerSolid)
			st := component.CharacterState{Velocity: cp.Vector{Y: tc.vy}}

			NewCollisionCorrectionSystem().CorrectCeiling(f, &st, cfg)
			if f.pos.X != tc.wantX {
				t.Fatalf("x = %v, want %v", f.pos.X, tc.wantX)
			}
			if st.Position.X != f.pos.X {
				t.Fatalf("state position %v out of sync with body %v", st.Position, f.pos)
			}
		})
	}
}

func TestCatchLedge(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	cases := []struct {
		name  string
		lip   float64
		input float64
		vy    float64
		catch bool
	}{
		{"low_lip", 0.1, 1, -2, true},
		{"tall_wall", 2, 1, -2, false},
		{"rising", 0.1, 1, 2, false},
		{"no_input", 0.1, 0, -2, false},
		{"facing_away", 0.1, -1, -2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeBackend(cp.Vector{Y: 0.55})
			f.add(cp.BB{L: 0.4, B: -1, R: 3, T: tc.lip}, physics.LayerSolid)
			st := component.CharacterState{HorizontalInput: tc.input, Velocity: cp.Vector{Y: tc.vy}}
			timers := component.NewJumpTimers()

			got := NewCollisionCorrectionSystem().CatchLedge(f, &st, &timers, cfg)
			if got != tc.catch {
				t.Fatalf("CatchLedge = %v, want %v", got, tc.catch)
			}
			if !tc.catch {
				if f.pos.Y != 0.55 {
					t.Fatalf("body moved to %v", f.pos)
				}
				return
			}
			if f.pos.Y != 0.55+cfg.EdgeCorrectionDistance {
				t.Fatalf("y = %v, want %v", f.pos.Y, 0.55+cfg.EdgeCorrectionDistance)
			}
			if !st.Grounded || st.Velocity.Y != 0 || !timers.CoyoteAvailable || st.ReachedApex {
				t.Fatalf("catch did not land the character: %+v %+v", st, timers)
			}
		})
	}
}

func TestCorrectionRaysRestoreSelfQueries(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	f := newFakeBackend(cp.Vector{X: -0.45, Y: 0.5})
	f.add(cp.BB{L: -5, B: -1, R: 0, T: 0}, physics.LayerSolid)
	f.hitSelf = true
	st := component.CharacterState{Grounded: true, Crouching: true, Velocity: cp.Vector{X: 3}}

	if !NewCollisionCorrectionSystem().BlockLedge(f, &st, cfg) {
		t.Fatalf("self hits leaked into the ledge rays")
	}
	if !f.hitSelf {
		t.Fatalf("self query mode not restored")
	}
}
