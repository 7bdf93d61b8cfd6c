package system

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/physics"
)

var ErrNoBackend = errors.New("controller: nil physics backend")

// Snapshot is a read-only copy of the controller state after a tick.
type Snapshot struct {
	Tick uint64
	Time float64

	State  component.CharacterState
	Timers component.JumpTimers
	Link   component.PlatformLink

	Jump       JumpPhase
	Gravity    GravityPhase
	Multiplier float64
}

// Controller drives one character. Input is queued with Push and consumed
// by the next Tick; the physics world steps between ticks.
type Controller struct {
	backend    physics.Backend
	suppressor physics.PairSuppressor
	cfg        component.MovementConfig

	state  component.CharacterState
	timers component.JumpTimers
	link   component.PlatformLink

	probe     *GroundProbeSystem
	jump      *JumpSystem
	gravity   *GravitySystem
	movement  *MovementSystem
	corrector *CollisionCorrectionSystem
	platforms *PlatformDropSystem

	inputs  ecs.Queue[component.InputCommand]
	now     float64
	ticks   uint64
	enabled bool
}

// NewController validates cfg and binds a controller to b. Platform drops
// are only available when b also implements physics.PairSuppressor.
func NewController(b physics.Backend, cfg component.MovementConfig) (*Controller, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		backend:   b,
		cfg:       cfg,
		timers:    component.NewJumpTimers(),
		probe:     NewGroundProbeSystem(),
		jump:      NewJumpSystem(),
		gravity:   NewGravitySystem(),
		movement:  NewMovementSystem(),
		corrector: NewCollisionCorrectionSystem(),
		platforms: NewPlatformDropSystem(),
		enabled:   true,
	}
	if s, ok := b.(physics.PairSuppressor); ok {
		c.suppressor = s
	}
	c.state.Reset(b.Position())
	return c, nil
}

func (c *Controller) Config() component.MovementConfig {
	return c.cfg
}

// SetConfig swaps tunables between ticks.
func (c *Controller) SetConfig(cfg component.MovementConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *Controller) Enabled() bool {
	return c.enabled
}

// SetEnabled pauses or resumes the controller. Both respawn in place, so a
// paused body holds still and keeps no suppressed platform.
func (c *Controller) SetEnabled(enabled bool) error {
	if enabled == c.enabled {
		return nil
	}
	c.enabled = enabled
	return c.Respawn(c.backend.Position())
}

// Push queues one input command for the next tick.
func (c *Controller) Push(cmds ...component.InputCommand) {
	for _, cmd := range cmds {
		if cmd.Kind == component.InputMove {
			cmd = component.Move(cmd.Axis)
		}
		c.inputs.Push(cmd)
	}
}

// Respawn puts the character at pos and resets every piece of motion state.
func (c *Controller) Respawn(pos cp.Vector) error {
	if err := c.backend.Err(); err != nil {
		return fmt.Errorf("controller: respawn: %w", err)
	}
	err := c.platforms.Release(c.suppressor, &c.state, &c.link)

	c.state.Reset(pos)
	c.timers.Reset()
	c.jump.Reset()
	c.gravity.Reset()
	c.inputs.Clear()

	c.backend.SetPosition(pos)
	c.backend.SetVelocity(cp.Vector{})
	if err != nil {
		return fmt.Errorf("controller: respawn: %w", err)
	}
	return nil
}

// Tick advances the character by dt seconds. It reads the body, runs the
// movement pipeline and writes the new velocity back for the next physics
// step.
func (c *Controller) Tick(dt float64) error {
	if err := c.backend.Err(); err != nil {
		return fmt.Errorf("controller: tick %d: %w", c.ticks, err)
	}
	if dt <= 0 {
		return fmt.Errorf("controller: tick %d: non-positive dt %v", c.ticks, dt)
	}

	cmds := c.inputs.Drain()
	contacts := c.backend.Contacts()
	if !c.enabled {
		return nil
	}

	b := c.backend
	st := &c.state
	st.Position = b.Position()
	st.Velocity = b.Velocity()

	c.platforms.Forget(b, &c.link)
	for _, ev := range contacts {
		c.platforms.HandleContact(&c.link, ev)
	}
	if err := c.applyInputs(cmds); err != nil {
		return fmt.Errorf("controller: tick %d: %w", c.ticks, err)
	}

	c.movement.Update(st, c.cfg, dt)
	c.corrector.BlockLedge(b, st, c.cfg)
	c.probe.Update(b, st, &c.timers, c.cfg, c.now, c.link.Suppressed)
	c.corrector.CorrectCeiling(b, st, c.cfg)
	c.corrector.CatchLedge(b, st, &c.timers, c.cfg)

	c.gravity.Observe(st, c.cfg)
	if !c.jump.Update(st, &c.timers, c.cfg, c.now) {
		c.gravity.Update(st, c.cfg, dt)
	}

	if err := c.platforms.Rearm(b, c.suppressor, st, &c.link, c.cfg); err != nil {
		return fmt.Errorf("controller: tick %d: %w", c.ticks, err)
	}

	b.SetVelocity(st.Velocity)
	c.now += dt
	c.ticks++
	return nil
}

func (c *Controller) applyInputs(cmds []component.InputCommand) error {
	st := &c.state
	for _, cmd := range cmds {
		switch cmd.Kind {
		case component.InputMove:
			st.HorizontalInput = cmd.Axis
		case component.InputJumpDown:
			c.jump.Press(st, &c.timers, c.now)
		case component.InputJumpUp:
			c.jump.Release(st)
		case component.InputCrouchDown:
			st.Crouching = true
		case component.InputCrouchUp:
			st.Crouching = false
		case component.InputDropDown:
			if err := c.platforms.Drop(c.backend, c.suppressor, st, &c.link); err != nil {
				return err
			}
		case component.InputDropUp:
		case component.InputFastFallDown:
			st.FastFall = true
		case component.InputFastFallUp:
			st.FastFall = false
		}
	}
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Tick:       c.ticks,
		Time:       c.now,
		State:      c.state,
		Timers:     c.timers,
		Link:       c.link,
		Jump:       c.jump.Phase(),
		Gravity:    c.gravity.Phase(),
		Multiplier: c.gravity.Multiplier(),
	}
}
