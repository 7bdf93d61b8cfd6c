package component

import "github.com/milk9111/movecore/common"

// InputKind names one logical input signal edge.
type InputKind uint8

const (
	InputMove InputKind = iota
	InputJumpDown
	InputJumpUp
	InputCrouchDown
	InputCrouchUp
	InputDropDown
	InputDropUp
	InputFastFallDown
	InputFastFallUp
)

func (k InputKind) String() string {
	switch k {
	case InputMove:
		return "move"
	case InputJumpDown:
		return "jump_down"
	case InputJumpUp:
		return "jump_up"
	case InputCrouchDown:
		return "crouch_down"
	case InputCrouchUp:
		return "crouch_up"
	case InputDropDown:
		return "drop_down"
	case InputDropUp:
		return "drop_up"
	case InputFastFallDown:
		return "fastfall_down"
	case InputFastFallUp:
		return "fastfall_up"
	}
	return "unknown"
}

// InputCommand is one logical input event queued for the next tick.
// Axis is only read for InputMove.
type InputCommand struct {
	Kind InputKind
	Axis float64
}

func Move(axis float64) InputCommand {
	return InputCommand{Kind: InputMove, Axis: common.Clamp(axis, -1, 1)}
}

// Input stores the held logical signals between two frames. Input
// collaborators diff it to emit edge commands.
type Input struct {
	MoveX    float64
	Jump     bool
	Crouch   bool
	Drop     bool
	FastFall bool
}

// Diff returns the commands that turn prev into in. Move is always emitted
// when the axis changed.
func (in Input) Diff(prev Input) []InputCommand {
	var out []InputCommand
	if in.MoveX != prev.MoveX {
		out = append(out, Move(in.MoveX))
	}
	out = appendEdge(out, prev.Jump, in.Jump, InputJumpDown, InputJumpUp)
	out = appendEdge(out, prev.Crouch, in.Crouch, InputCrouchDown, InputCrouchUp)
	out = appendEdge(out, prev.Drop, in.Drop, InputDropDown, InputDropUp)
	out = appendEdge(out, prev.FastFall, in.FastFall, InputFastFallDown, InputFastFallUp)
	return out
}

func appendEdge(out []InputCommand, was, is bool, down, up InputKind) []InputCommand {
	switch {
	case is && !was:
		return append(out, InputCommand{Kind: down})
	case was && !is:
		return append(out, InputCommand{Kind: up})
	}
	return out
}
