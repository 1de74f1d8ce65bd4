package messages

import "github.com/automoto/doomerang-netsync/shared/netconfig"

// PlayerInput is one predicted movement step. The server applies inputs in
// sequence order and echoes the last one in NetPlayerState.LastSequence.
type PlayerInput struct {
	Sequence  uint32
	Actions   map[netconfig.ActionID]bool
	Direction int   // -1 left, 0 none, 1 right
	Timestamp int64 // client Unix ms
}

// NewPlayerInput creates a PlayerInput with initialized map
func NewPlayerInput(seq uint32) PlayerInput {
	return PlayerInput{
		Sequence: seq,
		Actions:  make(map[netconfig.ActionID]bool),
	}
}
