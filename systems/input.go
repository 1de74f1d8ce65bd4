package systems

import (
	cfg "github.com/automoto/doomerang-netsync/config"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/automoto/doomerang-netsync/systems/networld"
	"github.com/hajimehoshi/ebiten/v2"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// PollInput samples the held movement controls from keyboard and gamepads.
// It runs from inside the local stepper, so several samples in one frame
// read the same state.
func PollInput() networld.InputSample {
	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	left := actionPressed(netconfig.ActionMoveLeft)
	right := actionPressed(netconfig.ActionMoveRight)

	var sample networld.InputSample
	switch {
	case left && !right:
		sample.Direction = -1
	case right && !left:
		sample.Direction = 1
	}
	sample.Jump = actionPressed(netconfig.ActionJump)
	return sample
}

func actionPressed(action netconfig.ActionID) bool {
	binding, ok := cfg.Input.Bindings[action]
	if !ok {
		return false
	}
	for _, key := range binding.Keys {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	for _, gpID := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		for _, btn := range binding.StandardGamepadButtons {
			if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
				return true
			}
		}
	}
	return false
}
