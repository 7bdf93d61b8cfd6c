package prefabs

import (
	"fmt"

	"github.com/milk9111/movecore/ecs/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type MovementSpec struct {
	Name     string           `yaml:"name"`
	Collider ColliderSpec     `yaml:"collider"`
	Run      RunSpec          `yaml:"run"`
	Jump     JumpSpec         `yaml:"jump"`
	Ground   GroundSpec       `yaml:"ground"`
	Gravity  GravitySpec      `yaml:"gravity"`
	Rays     RaySpec          `yaml:"rays"`
	Platform PlatformDropSpec `yaml:"platform"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type RunSpec struct {
	MaxSpeed            float64 `yaml:"max_speed"`
	Acceleration        float64 `yaml:"acceleration"`
	GroundDeceleration  float64 `yaml:"ground_deceleration"`
	AirDeceleration     float64 `yaml:"air_deceleration"`
	CrouchMultiplier    float64 `yaml:"crouch_multiplier"`
	ApexSpeedMultiplier float64 `yaml:"apex_speed_multiplier"`
}

type JumpSpec struct {
	Force      float64 `yaml:"force"`
	CoyoteTime float64 `yaml:"coyote_time"`
	BufferTime float64 `yaml:"buffer_time"`
}

type GroundSpec struct {
	GrounderDistance float64 `yaml:"grounder_distance"`
	GroundingForce   float64 `yaml:"grounding_force"`
}

type GravitySpec struct {
	Default            float64 `yaml:"default"`
	FallMultiplier     float64 `yaml:"fall_multiplier"`
	JumpCutMultiplier  float64 `yaml:"jump_cut_multiplier"`
	ApexHangMultiplier float64 `yaml:"apex_hang_multiplier"`
	ApexThreshold      float64 `yaml:"apex_threshold"`
	ApexHangDuration   float64 `yaml:"apex_hang_duration"`
	FastFallEnabled    bool    `yaml:"fast_fall_enabled"`
	FastFallMultiplier float64 `yaml:"fast_fall_multiplier"`
	MaxFallSpeed       float64 `yaml:"max_fall_speed"`
	MaxFastFallSpeed   float64 `yaml:"max_fast_fall_speed"`
}

type RaySpec struct {
	LedgeCheckDistance       float64 `yaml:"ledge_check_distance"`
	RayOffsetX               float64 `yaml:"ray_offset_x"`
	InnerRayOffset           float64 `yaml:"inner_ray_offset"`
	CeilingCheckDistance     float64 `yaml:"ceiling_check_distance"`
	CornerCorrectionDistance float64 `yaml:"corner_correction_distance"`
	OuterRayOffset           float64 `yaml:"outer_ray_offset"`
	EdgeRayLength            float64 `yaml:"edge_ray_length"`
	EdgeInnerHeight          float64 `yaml:"edge_inner_height"`
	EdgeCorrectionDistance   float64 `yaml:"edge_correction_distance"`
	TopRayOffset             float64 `yaml:"top_ray_offset"`
	BottomRayOffset          float64 `yaml:"bottom_ray_offset"`
}

type PlatformDropSpec struct {
	RayOffset    float64 `yaml:"ray_offset"`
	CastDistance float64 `yaml:"cast_distance"`
	BoxThickness float64 `yaml:"box_thickness"`
}

// DefaultMovementSpec mirrors component.DefaultMovementConfig. Fields that a
// YAML file leaves out keep these values.
func DefaultMovementSpec() MovementSpec {
	return SpecFromConfig("default", component.DefaultMovementConfig())
}

func SpecFromConfig(name string, c component.MovementConfig) MovementSpec {
	return MovementSpec{
		Name:     name,
		Collider: ColliderSpec{Width: c.ColliderWidth, Height: c.ColliderHeight},
		Run: RunSpec{
			MaxSpeed:            c.MaxSpeed,
			Acceleration:        c.Acceleration,
			GroundDeceleration:  c.GroundDeceleration,
			AirDeceleration:     c.AirDeceleration,
			CrouchMultiplier:    c.CrouchMultiplier,
			ApexSpeedMultiplier: c.ApexSpeedMultiplier,
		},
		Jump:   JumpSpec{Force: c.JumpForce, CoyoteTime: c.CoyoteTime, BufferTime: c.BufferTime},
		Ground: GroundSpec{GrounderDistance: c.GrounderDistance, GroundingForce: c.GroundingForce},
		Gravity: GravitySpec{
			Default:            c.DefaultGravity,
			FallMultiplier:     c.FallMultiplier,
			JumpCutMultiplier:  c.JumpCutMultiplier,
			ApexHangMultiplier: c.ApexHangMultiplier,
			ApexThreshold:      c.ApexThreshold,
			ApexHangDuration:   c.ApexHangDuration,
			FastFallEnabled:    c.FastFallEnabled,
			FastFallMultiplier: c.FastFallMultiplier,
			MaxFallSpeed:       c.MaxFallSpeed,
			MaxFastFallSpeed:   c.MaxFastFallSpeed,
		},
		Rays: RaySpec{
			LedgeCheckDistance:       c.LedgeCheckDistance,
			RayOffsetX:               c.RayOffsetX,
			InnerRayOffset:           c.InnerRayOffset,
			CeilingCheckDistance:     c.CeilingCheckDistance,
			CornerCorrectionDistance: c.CornerCorrectionDistance,
			OuterRayOffset:           c.OuterRayOffset,
			EdgeRayLength:            c.EdgeRayLength,
			EdgeInnerHeight:          c.EdgeInnerHeight,
			EdgeCorrectionDistance:   c.EdgeCorrectionDistance,
			TopRayOffset:             c.TopRayOffset,
			BottomRayOffset:          c.BottomRayOffset,
		},
		Platform: PlatformDropSpec{
			RayOffset:    c.PlatformRayOffset,
			CastDistance: c.PlatformCastDistance,
			BoxThickness: c.PlatformBoxThickness,
		},
	}
}

// Build converts the spec into a validated movement config.
func (s MovementSpec) Build() (component.MovementConfig, error) {
	c := component.MovementConfig{
		ColliderWidth:  s.Collider.Width,
		ColliderHeight: s.Collider.Height,

		MaxSpeed:            s.Run.MaxSpeed,
		Acceleration:        s.Run.Acceleration,
		GroundDeceleration:  s.Run.GroundDeceleration,
		AirDeceleration:     s.Run.AirDeceleration,
		CrouchMultiplier:    s.Run.CrouchMultiplier,
		ApexSpeedMultiplier: s.Run.ApexSpeedMultiplier,

		JumpForce:  s.Jump.Force,
		CoyoteTime: s.Jump.CoyoteTime,
		BufferTime: s.Jump.BufferTime,

		GrounderDistance: s.Ground.GrounderDistance,
		GroundingForce:   s.Ground.GroundingForce,

		DefaultGravity:     s.Gravity.Default,
		FallMultiplier:     s.Gravity.FallMultiplier,
		JumpCutMultiplier:  s.Gravity.JumpCutMultiplier,
		ApexHangMultiplier: s.Gravity.ApexHangMultiplier,
		ApexThreshold:      s.Gravity.ApexThreshold,
		ApexHangDuration:   s.Gravity.ApexHangDuration,
		FastFallEnabled:    s.Gravity.FastFallEnabled,
		FastFallMultiplier: s.Gravity.FastFallMultiplier,
		MaxFallSpeed:       s.Gravity.MaxFallSpeed,
		MaxFastFallSpeed:   s.Gravity.MaxFastFallSpeed,

		LedgeCheckDistance:       s.Rays.LedgeCheckDistance,
		RayOffsetX:               s.Rays.RayOffsetX,
		InnerRayOffset:           s.Rays.InnerRayOffset,
		CeilingCheckDistance:     s.Rays.CeilingCheckDistance,
		CornerCorrectionDistance: s.Rays.CornerCorrectionDistance,
		OuterRayOffset:           s.Rays.OuterRayOffset,
		EdgeRayLength:            s.Rays.EdgeRayLength,
		EdgeInnerHeight:          s.Rays.EdgeInnerHeight,
		EdgeCorrectionDistance:   s.Rays.EdgeCorrectionDistance,
		TopRayOffset:             s.Rays.TopRayOffset,
		BottomRayOffset:          s.Rays.BottomRayOffset,

		PlatformRayOffset:    s.Platform.RayOffset,
		PlatformCastDistance: s.Platform.CastDistance,
		PlatformBoxThickness: s.Platform.BoxThickness,
	}
	if err := c.Validate(); err != nil {
		return component.MovementConfig{}, fmt.Errorf("prefabs: movement %q: %w", s.Name, err)
	}
	return c, nil
}

// ParseMovementSpec decodes YAML over the defaults.
func ParseMovementSpec(data []byte) (MovementSpec, error) {
	spec := DefaultMovementSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return MovementSpec{}, fmt.Errorf("prefabs: unmarshal movement spec: %w", err)
	}
	return spec, nil
}

// LoadMovementConfig loads, decodes and validates a movement prefab.
func LoadMovementConfig(filename string) (component.MovementConfig, error) {
	data, err := Load(filename)
	if err != nil {
		return component.MovementConfig{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec, err := ParseMovementSpec(data)
	if err != nil {
		return component.MovementConfig{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec.Build()
}

type CameraSpec struct {
	FollowSpeed float64 `yaml:"follow_speed"`
	Smoothing   float64 `yaml:"smoothing"`
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`
	Zoom        float64 `yaml:"zoom"`
}

func LoadCameraSpec() (CameraSpec, error) {
	return LoadSpec[CameraSpec]("camera.yaml")
}
