package config

import (
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
)

// InputBinding represents a single key or button binding for an action
type InputBinding struct {
	Keys                   []ebiten.Key
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

// InputConfig holds all input mappings
type InputConfig struct {
	Bindings map[netconfig.ActionID]InputBinding
	// Keys that toggle session state, client only.
	PauseKey    ebiten.Key
	SaveTuning  ebiten.Key
	ToggleDebug ebiten.Key
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		Bindings: map[netconfig.ActionID]InputBinding{
			netconfig.ActionMoveLeft: {
				Keys: []ebiten.Key{ebiten.KeyLeft, ebiten.KeyA},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftLeft,
				},
			},
			netconfig.ActionMoveRight: {
				Keys: []ebiten.Key{ebiten.KeyRight, ebiten.KeyD},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftRight,
				},
			},
			netconfig.ActionJump: {
				Keys: []ebiten.Key{ebiten.KeyX, ebiten.KeyW, ebiten.KeySpace},
				// A / Cross button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightBottom,
				},
			},
		},
		PauseKey:    ebiten.KeyP,
		SaveTuning:  ebiten.KeyF5,
		ToggleDebug: ebiten.KeyF3,
	}
}
