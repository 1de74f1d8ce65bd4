package networld

import (
	"errors"
	"log"
	"time"

	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// InputSample is the player's held controls at one local step.
type InputSample struct {
	Direction int
	Jump      bool
}

// LocalInput is the engine's local stepper hook. Every step samples the
// controls, predicts one server tick worth of movement, mirrors the result
// onto the local entity and sends the input to the server.
type LocalInput struct {
	world      donburi.World
	prediction *NetPrediction
	localID    func() esync.NetworkId
	poll       func() InputSample
	send       func(messages.PlayerInput) error
	now        func() time.Time

	Sent      int
	Throttled int
}

func NewLocalInput(world donburi.World, prediction *NetPrediction, localID func() esync.NetworkId,
	poll func() InputSample, send func(messages.PlayerInput) error) *LocalInput {
	return &LocalInput{
		world:      world,
		prediction: prediction,
		localID:    localID,
		poll:       poll,
		send:       send,
		now:        time.Now,
	}
}

// Step implements netsync.Predictor.
func (li *LocalInput) Step() {
	// Before the first authoritative state there is nothing to predict from.
	if !li.prediction.Initialized {
		return
	}

	sample := li.poll()
	input := messages.NewPlayerInput(li.prediction.Buffer.Next())
	input.Direction = sample.Direction
	input.Actions[netconfig.ActionJump] = sample.Jump
	input.Timestamp = li.now().UnixMilli()

	pos := li.prediction.Predict(input)
	li.mirror(pos, sample.Direction)

	err := li.send(input)
	switch {
	case err == nil:
		li.Sent++
	case errors.Is(err, network.ErrThrottled):
		li.Throttled++
	default:
		log.Printf("[netinput] send error: %v", err)
	}
}

func (li *LocalInput) mirror(pos netcomponents.NetPositionData, dir int) {
	entry, ok := findEntry(li.world, li.localID())
	if !ok {
		return
	}
	setComponent(entry, netcomponents.NetPosition, pos)
	setComponent(entry, netcomponents.NetVelocity, li.prediction.Velocity())
	if entry.HasComponent(netcomponents.NetPlayerState) {
		state := netcomponents.NetPlayerState.Get(entry)
		if dir != 0 {
			state.Direction = dir
		}
		state.StateID = li.prediction.StateID()
	}
}
