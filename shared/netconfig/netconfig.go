// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on ebiten or any
// graphics library so the dedicated server binary stays headless.
package netconfig

// StateID identifies the movement state of a networked player.
type StateID int

const (
	Idle StateID = iota
	Running
	Jump
)

func (s StateID) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Jump:
		return "jump"
	}
	return "unknown"
}

// ActionID represents a logical input action.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionCount // Must be last - used for array sizing
)

// Defaults the server advertises when a client joins.
const (
	DefaultTickRate     = 20
	DefaultTicksPerSend = 1
)
