package main

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/movecore/ecs/component"
	"github.com/milk9111/movecore/ecs/system"
	"github.com/milk9111/movecore/levels"
	"github.com/milk9111/movecore/physics"
	"github.com/milk9111/movecore/prefabs"
)

const tickRate = 60

// defaultLevel is used when neither the options nor the scenario name one.
const defaultLevel = "sandbox"

// options selects what one run loads.
type options struct {
	Level    string
	Config   string
	Scenario string
	Verbose  bool
}

// summary is what a run reports once the scenario finishes.
type summary struct {
	Ticks    int
	Spawn    cp.Vector
	Final    cp.Vector
	Peak     float64
	Jumps    int
	Landings int
	Drops    int
	Grounded bool
	// Ignored counts platforms still suppressed for the character at the end.
	Ignored int
}

func (s summary) String() string {
	return fmt.Sprintf("ticks=%d spawn=(%.2f,%.2f) final=(%.2f,%.2f) peak=%.2f jumps=%d landings=%d drops=%d grounded=%v ignored=%d",
		s.Ticks, s.Spawn.X, s.Spawn.Y, s.Final.X, s.Final.Y, s.Peak, s.Jumps, s.Landings, s.Drops, s.Grounded, s.Ignored)
}

// levelFor picks the level a run uses: the one asked for, else the one the
// scenario names, else defaultLevel.
func levelFor(opts options, sc *prefabs.Scenario) string {
	switch {
	case opts.Level != "":
		return opts.Level
	case sc.Level != "":
		return sc.Level
	}
	return defaultLevel
}

func simulate(opts options) (summary, error) {
	cfg, err := prefabs.LoadMovementConfig(opts.Config)
	if err != nil {
		return summary{}, err
	}
	sc, err := prefabs.LoadScenario(opts.Scenario)
	if err != nil {
		return summary{}, err
	}
	lvl, err := levels.Load(levelFor(opts, sc))
	if err != nil {
		return summary{}, err
	}

	world := physics.NewWorld()
	defer world.Close()
	world.Verbose = opts.Verbose

	built, err := lvl.Build(world)
	if err != nil {
		return summary{}, err
	}
	body, err := world.AddCharacter(built.Spawn, cp.Vector{X: cfg.ColliderWidth, Y: cfg.ColliderHeight})
	if err != nil {
		return summary{}, err
	}
	ctrl, err := system.NewController(body, cfg)
	if err != nil {
		return summary{}, err
	}

	const dt = 1.0 / tickRate
	sum := summary{Spawn: built.Spawn, Peak: math.Inf(-1)}
	var held component.Input
	airborne := 0
	wasGrounded := false
	wasDropping := false

	for tick := 0; tick < sc.Ticks; tick++ {
		snap := ctrl.Snapshot()
		in, err := sc.Input(tick, prefabs.ScenarioState{
			X:             snap.State.Position.X,
			Y:             snap.State.Position.Y,
			VX:            snap.State.Velocity.X,
			VY:            snap.State.Velocity.Y,
			Grounded:      snap.State.Grounded,
			AirborneTicks: airborne,
			SpawnX:        built.Spawn.X,
			SpawnY:        built.Spawn.Y,
		})
		if err != nil {
			return sum, err
		}
		ctrl.Push(in.Diff(held)...)
		held = in

		if err := ctrl.Tick(dt); err != nil {
			return sum, err
		}
		world.Step(dt)

		snap = ctrl.Snapshot()
		st := snap.State
		if snap.Jump == system.JumpLaunched {
			sum.Jumps++
		}
		if st.Grounded && !wasGrounded && tick > 0 {
			sum.Landings++
		}
		if st.Dropping && !wasDropping {
			sum.Drops++
		}
		wasGrounded = st.Grounded
		wasDropping = st.Dropping
		if st.Grounded {
			airborne = 0
		} else {
			airborne++
		}

		pos := body.Position()
		sum.Peak = math.Max(sum.Peak, pos.Y)
		if opts.Verbose {
			log.Printf("movesim: tick=%d pos=(%.3f,%.3f) vel=(%.3f,%.3f) grounded=%v jump=%s gravity=%s x%.2f platform=%s",
				snap.Tick, pos.X, pos.Y, st.Velocity.X, st.Velocity.Y, st.Grounded, snap.Jump, snap.Gravity, snap.Multiplier, snap.Link.Platform)
		}
	}

	sum.Ticks = sc.Ticks
	sum.Final = body.Position()
	sum.Grounded = ctrl.Snapshot().State.Grounded
	for _, e := range append(built.Platforms, built.Movers...) {
		if body.CollisionIgnored(e) {
			sum.Ignored++
		}
	}
	return sum, nil
}
