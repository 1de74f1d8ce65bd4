package core

import (
	"github.com/automoto/doomerang-netsync/shared/gamemath"
	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
)

// maxQueuedInputs bounds how far a client may run ahead of the simulation.
const maxQueuedInputs = 8

// PlayerPhysics holds per-player simulation state on the server. This is not
// a donburi component; it exists only on the server and is never synced.
type PlayerPhysics struct {
	Body *gamemath.Body

	// Inputs not yet consumed, in sequence order. One is consumed per tick.
	queue []messages.PlayerInput
	held  gamemath.MoveInput

	Direction int

	// Last consumed input sequence, echoed to the client for reconciliation
	LastInputSeq uint32
	lastQueued   uint32
	Dropped      int
}

func newPlayerPhysics(level *ServerLevel, spawnX, spawnY float64) *PlayerPhysics {
	return &PlayerPhysics{
		Body:      gamemath.NewBody(level.Space, spawnX, spawnY),
		Direction: 1,
	}
}

// Enqueue accepts an input if it is newer than anything already received.
func (p *PlayerPhysics) Enqueue(input messages.PlayerInput) bool {
	if input.Sequence <= p.lastQueued {
		return false
	}
	p.lastQueued = input.Sequence
	if len(p.queue) == maxQueuedInputs {
		p.queue = p.queue[1:]
		p.Dropped++
	}
	p.queue = append(p.queue, input)
	return true
}

// Advance consumes one queued input, or repeats the last held controls when
// the queue is empty, and runs subSteps movement steps with it.
func (p *PlayerPhysics) Advance(subSteps int) {
	if len(p.queue) > 0 {
		input := p.queue[0]
		p.queue = p.queue[1:]
		p.held = gamemath.MoveInput{
			Direction: input.Direction,
			Jump:      input.Actions[netconfig.ActionJump],
		}
		p.LastInputSeq = input.Sequence
	}
	if p.held.Direction != 0 {
		p.Direction = p.held.Direction
	}
	for i := 0; i < subSteps; i++ {
		gamemath.StepBody(p.Body, p.held)
	}
}

// Queued returns the number of inputs waiting.
func (p *PlayerPhysics) Queued() int { return len(p.queue) }

// State builds the synced component values for this player.
func (p *PlayerPhysics) State() (netcomponents.NetPositionData, netcomponents.NetVelocityData, netcomponents.NetPlayerStateData) {
	b := p.Body
	stateID := netconfig.Idle
	switch {
	case !b.OnGround:
		stateID = netconfig.Jump
	case b.VelX >= 0.1 || b.VelX <= -0.1:
		stateID = netconfig.Running
	}
	return netcomponents.NetPositionData{X: b.Object.X, Y: b.Object.Y},
		netcomponents.NetVelocityData{SpeedX: b.VelX, SpeedY: b.VelY},
		netcomponents.NetPlayerStateData{
			StateID:      stateID,
			Direction:    p.Direction,
			LastSequence: p.LastInputSeq,
		}
}
