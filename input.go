package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/movecore/ecs/component"
)

const stickDeadzone = 0.2

// keyboardInput turns device state into the controller's logical signals.
// Down crouches on the ground and fast-falls in the air.
type keyboardInput struct {
	held component.Input
}

func (k *keyboardInput) poll() component.Input {
	var in component.Input

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.Drop = ebiten.IsKeyPressed(ebiten.KeyC)

	if left {
		in.MoveX -= 1
	}
	if right {
		in.MoveX += 1
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(x) > stickDeadzone {
			in.MoveX = x
		}
		y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		down = down || y > 0.5 || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Drop = in.Drop || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
	}

	in.Crouch = down
	in.FastFall = down
	return in
}

// commands returns the edges since the previous poll.
func (k *keyboardInput) commands() []component.InputCommand {
	in := k.poll()
	cmds := in.Diff(k.held)
	k.held = in
	return cmds
}

func (k *keyboardInput) reset() {
	k.held = component.Input{}
}
