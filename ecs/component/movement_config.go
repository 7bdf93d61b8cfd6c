package component

import (
	"errors"
	"fmt"
)

// MovementConfig holds every movement tunable. It is loaded once and passed
// by value; nothing mutates it at runtime.
type MovementConfig struct {
	ColliderWidth  float64
	ColliderHeight float64

	MaxSpeed            float64
	Acceleration        float64
	GroundDeceleration  float64
	AirDeceleration     float64
	CrouchMultiplier    float64
	ApexSpeedMultiplier float64

	JumpForce  float64
	CoyoteTime float64
	BufferTime float64

	GrounderDistance float64
	GroundingForce   float64

	DefaultGravity     float64
	FallMultiplier     float64
	JumpCutMultiplier  float64
	ApexHangMultiplier float64
	ApexThreshold      float64
	ApexHangDuration   float64
	FastFallEnabled    bool
	FastFallMultiplier float64
	MaxFallSpeed       float64
	MaxFastFallSpeed   float64

	// Crouch ledge block rays.
	LedgeCheckDistance float64
	RayOffsetX         float64
	InnerRayOffset     float64

	// Ceiling corner rays.
	CeilingCheckDistance     float64
	CornerCorrectionDistance float64
	OuterRayOffset           float64

	// Falling ledge catch rays.
	EdgeRayLength          float64
	EdgeInnerHeight        float64
	EdgeCorrectionDistance float64
	TopRayOffset           float64
	BottomRayOffset        float64

	// Platform re-arm box-cast.
	PlatformRayOffset    float64
	PlatformCastDistance float64
	PlatformBoxThickness float64
}

func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		ColliderWidth:  0.8,
		ColliderHeight: 1.0,

		MaxSpeed:            14,
		Acceleration:        120,
		GroundDeceleration:  60,
		AirDeceleration:     30,
		CrouchMultiplier:    0.4,
		ApexSpeedMultiplier: 1.1,

		JumpForce:  12,
		CoyoteTime: 0.15,
		BufferTime: 0.2,

		GrounderDistance: 0.05,
		GroundingForce:   1.5,

		DefaultGravity:     30,
		FallMultiplier:     1.5,
		JumpCutMultiplier:  2,
		ApexHangMultiplier: 0.5,
		ApexThreshold:      1,
		ApexHangDuration:   0.1,
		FastFallEnabled:    true,
		FastFallMultiplier: 2,
		MaxFallSpeed:       16,
		MaxFastFallSpeed:   24,

		LedgeCheckDistance: 0.2,
		RayOffsetX:         0.2,
		InnerRayOffset:     0.7,

		CeilingCheckDistance:     0.5,
		CornerCorrectionDistance: 0.2,
		OuterRayOffset:           0.2,

		EdgeRayLength:          0.2,
		EdgeInnerHeight:        0.25,
		EdgeCorrectionDistance: 0.1,
		TopRayOffset:           0.02,
		BottomRayOffset:        0.02,

		PlatformRayOffset:    0.05,
		PlatformCastDistance: 0.5,
		PlatformBoxThickness: 0.05,
	}
}

// Validate reports every out-of-range field. The returned error wraps
// ErrInvalidConfig.
func (c MovementConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, name, v))
		}
	}

	positive("collider_width", c.ColliderWidth)
	positive("collider_height", c.ColliderHeight)
	positive("max_speed", c.MaxSpeed)
	positive("acceleration", c.Acceleration)
	nonNegative("ground_deceleration", c.GroundDeceleration)
	nonNegative("air_deceleration", c.AirDeceleration)
	positive("crouch_multiplier", c.CrouchMultiplier)
	positive("apex_speed_multiplier", c.ApexSpeedMultiplier)

	positive("jump_force", c.JumpForce)
	nonNegative("coyote_time", c.CoyoteTime)
	nonNegative("buffer_time", c.BufferTime)

	positive("grounder_distance", c.GrounderDistance)
	nonNegative("grounding_force", c.GroundingForce)

	positive("default_gravity", c.DefaultGravity)
	positive("fall_multiplier", c.FallMultiplier)
	positive("jump_cut_multiplier", c.JumpCutMultiplier)
	positive("apex_hang_multiplier", c.ApexHangMultiplier)
	nonNegative("apex_threshold", c.ApexThreshold)
	nonNegative("apex_hang_duration", c.ApexHangDuration)
	positive("fast_fall_multiplier", c.FastFallMultiplier)
	positive("max_fall_speed", c.MaxFallSpeed)
	positive("max_fast_fall_speed", c.MaxFastFallSpeed)
	if c.MaxFastFallSpeed < c.MaxFallSpeed {
		errs = append(errs, fmt.Errorf("%w: max_fast_fall_speed (%v) must be >= max_fall_speed (%v)", ErrInvalidConfig, c.MaxFastFallSpeed, c.MaxFallSpeed))
	}

	positive("ledge_check_distance", c.LedgeCheckDistance)
	nonNegative("ray_offset_x", c.RayOffsetX)
	nonNegative("inner_ray_offset", c.InnerRayOffset)
	half := c.ColliderWidth / 2
	if half > 0 && half*c.InnerRayOffset+c.RayOffsetX <= half {
		errs = append(errs, fmt.Errorf("%w: inner ledge rays must land past the collider edge (half width %v, offset %v)", ErrInvalidConfig, half, half*c.InnerRayOffset+c.RayOffsetX))
	}

	positive("ceiling_check_distance", c.CeilingCheckDistance)
	nonNegative("corner_correction_distance", c.CornerCorrectionDistance)
	nonNegative("outer_ray_offset", c.OuterRayOffset)

	positive("edge_ray_length", c.EdgeRayLength)
	nonNegative("edge_inner_height", c.EdgeInnerHeight)
	nonNegative("edge_correction_distance", c.EdgeCorrectionDistance)
	nonNegative("top_ray_offset", c.TopRayOffset)
	nonNegative("bottom_ray_offset", c.BottomRayOffset)
	if c.BottomRayOffset >= c.EdgeInnerHeight+c.TopRayOffset {
		errs = append(errs, fmt.Errorf("%w: bottom edge ray must sit below the top edge ray", ErrInvalidConfig))
	}

	nonNegative("platform_ray_offset", c.PlatformRayOffset)
	positive("platform_cast_distance", c.PlatformCastDistance)
	positive("platform_box_thickness", c.PlatformBoxThickness)

	return errors.Join(errs...)
}
