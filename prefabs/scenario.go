package prefabs

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/movecore/ecs/component"
)

// DefaultScenarioTicks is used when a script does not define `ticks`.
const DefaultScenarioTicks = 240

var ErrScenario = errors.New("prefabs: scenario")

const scenarioDispatchScript = `
__input := input(__tick, __state)
`

// ScenarioState is what a scenario script sees of the character each tick.
type ScenarioState struct {
	X, Y          float64
	VX, VY        float64
	Grounded      bool
	AirborneTicks int
	SpawnX        float64
	SpawnY        float64
}

// Scenario is a compiled tengo script that produces held input signals per
// tick. A script defines `ticks` and `input := func(tick, state)` returning
// a map with any of move, jump, crouch, drop and fast_fall. An optional
// `level` names the level the scenario is written for.
type Scenario struct {
	Name     string
	Ticks    int
	Level    string
	compiled *tengo.Compiled
}

func LoadScenario(name string) (*Scenario, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrScenario, name, err)
	}
	return CompileScenario(name, src)
}

func CompileScenario(name string, src []byte) (*Scenario, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + scenarioDispatchScript))
	_ = script.Add("__tick", 0)
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrScenario, name, err)
	}

	sc := &Scenario{Name: name, Ticks: DefaultScenarioTicks, compiled: compiled}
	// Run once so top level globals such as `ticks` resolve.
	if _, err := sc.Input(0, ScenarioState{}); err != nil {
		return nil, err
	}
	if compiled.IsDefined("ticks") {
		if n := compiled.Get("ticks").Int(); n > 0 {
			sc.Ticks = n
		}
	}
	if compiled.IsDefined("level") {
		sc.Level = compiled.Get("level").String()
	}
	return sc, nil
}

// Input runs the script's input function for one tick.
func (s *Scenario) Input(tick int, st ScenarioState) (component.Input, error) {
	if s == nil || s.compiled == nil {
		return component.Input{}, fmt.Errorf("%w: nil runtime", ErrScenario)
	}
	if err := s.compiled.Set("__tick", tick); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Set("__state", stateObject(st)); err != nil {
		return component.Input{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return component.Input{}, fmt.Errorf("%w %q tick %d: %w", ErrScenario, s.Name, tick, err)
	}

	out := s.compiled.Get("__input").Map()
	return component.Input{
		MoveX:    asFloat(out["move"]),
		Jump:     asBool(out["jump"]),
		Crouch:   asBool(out["crouch"]),
		Drop:     asBool(out["drop"]),
		FastFall: asBool(out["fast_fall"]),
	}, nil
}

func stateObject(st ScenarioState) *tengo.Map {
	grounded := tengo.FalseValue
	if st.Grounded {
		grounded = tengo.TrueValue
	}
	return &tengo.Map{Value: map[string]tengo.Object{
		"x":              &tengo.Float{Value: st.X},
		"y":              &tengo.Float{Value: st.Y},
		"vx":             &tengo.Float{Value: st.VX},
		"vy":             &tengo.Float{Value: st.VY},
		"grounded":       grounded,
		"airborne_ticks": &tengo.Int{Value: int64(st.AirborneTicks)},
		"spawn_x":        &tengo.Float{Value: st.SpawnX},
		"spawn_y":        &tengo.Float{Value: st.SpawnY},
	}}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}
