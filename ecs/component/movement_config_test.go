package component

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultMovementConfigIsValid(t *testing.T) {
	if err := DefaultMovementConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestMovementConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *MovementConfig)
		wantErr string
	}{
		{"zero_max_speed", func(c *MovementConfig) { c.MaxSpeed = 0 }, "max_speed"},
		{"negative_coyote", func(c *MovementConfig) { c.CoyoteTime = -0.1 }, "coyote_time"},
		{"negative_buffer", func(c *MovementConfig) { c.BufferTime = -1 }, "buffer_time"},
		{"zero_fall_cap", func(c *MovementConfig) { c.MaxFallSpeed = 0 }, "max_fall_speed"},
		{"fast_fall_below_fall", func(c *MovementConfig) { c.MaxFastFallSpeed = 10 }, "max_fast_fall_speed"},
		{"inner_rays_inside", func(c *MovementConfig) { c.RayOffsetX = 0 }, "inner ledge rays"},
		{"edge_rays_inverted", func(c *MovementConfig) { c.BottomRayOffset = 1 }, "bottom edge ray"},
		{"zero_box_thickness", func(c *MovementConfig) { c.PlatformBoxThickness = 0 }, "platform_box_thickness"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultMovementConfig()
			c.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error does not wrap ErrInvalidConfig: %v", err)
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error %q does not mention %q", err, c.wantErr)
			}
		})
	}
}

func TestMovementConfigValidateCollectsAll(t *testing.T) {
	cfg := DefaultMovementConfig()
	cfg.MaxSpeed = 0
	cfg.JumpForce = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, field := range []string{"max_speed", "jump_force"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q missing %s", err, field)
		}
	}
}

func TestInputDiff(t *testing.T) {
	prev := Input{MoveX: 0, Jump: false, Crouch: true}
	next := Input{MoveX: 1, Jump: true, Crouch: false}
	got := next.Diff(prev)
	want := []InputKind{InputMove, InputJumpDown, InputCrouchUp}
	if len(got) != len(want) {
		t.Fatalf("Diff = %v", got)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Fatalf("command %d = %v, want %v", i, got[i].Kind, k)
		}
	}
	if got[0].Axis != 1 {
		t.Fatalf("move axis = %v", got[0].Axis)
	}
	if Move(3).Axis != 1 || Move(-7).Axis != -1 {
		t.Fatalf("Move does not clamp")
	}
}
