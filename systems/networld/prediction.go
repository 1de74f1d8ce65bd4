package networld

import (
	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/shared/gamemath"
	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/solarlune/resolv"
)

// correctionThreshold is how far, in pixels, the server may disagree with a
// prediction before the local body is rewound and replayed.
const correctionThreshold = 0.5

// NetPrediction owns client-side prediction state for the local player.
// Each local step runs SubSteps movement steps with one sampled input, the
// same way the server consumes one input per tick.
type NetPrediction struct {
	Buffer   *network.PredictionBuffer
	Body     *gamemath.Body
	SubSteps int

	// Smoother, when set, eases visible corrections instead of snapping.
	Smoother *CorrectionSmoother

	Initialized bool // true after the first authoritative position
	Corrections int
}

// NewNetPrediction creates a predicted body in space. subSteps is clamped to at least one.
func NewNetPrediction(space *resolv.Space, x, y float64, subSteps int) *NetPrediction {
	return &NetPrediction{
		Buffer:   &network.PredictionBuffer{},
		Body:     gamemath.NewBody(space, x, y),
		SubSteps: max(subSteps, 1),
	}
}

func moveInput(input messages.PlayerInput) gamemath.MoveInput {
	return gamemath.MoveInput{
		Direction: input.Direction,
		Jump:      input.Actions[netconfig.ActionJump],
	}
}

func (p *NetPrediction) simulate(input messages.PlayerInput) {
	in := moveInput(input)
	for i := 0; i < p.SubSteps; i++ {
		gamemath.StepBody(p.Body, in)
	}
}

// Predict applies input locally and records the outcome for reconciliation.
func (p *NetPrediction) Predict(input messages.PlayerInput) netcomponents.NetPositionData {
	p.simulate(input)
	pos := p.Position()
	p.Buffer.Store(input, pos.X, pos.Y)
	return pos
}

// Position returns the predicted body position.
func (p *NetPrediction) Position() netcomponents.NetPositionData {
	return netcomponents.NetPositionData{X: p.Body.Object.X, Y: p.Body.Object.Y}
}

// Velocity returns the predicted body velocity.
func (p *NetPrediction) Velocity() netcomponents.NetVelocityData {
	return netcomponents.NetVelocityData{SpeedX: p.Body.VelX, SpeedY: p.Body.VelY}
}

// StateID derives the movement state shown for the predicted body.
func (p *NetPrediction) StateID() netconfig.StateID {
	switch {
	case !p.Body.OnGround:
		return netconfig.Jump
	case p.Body.VelX >= 0.1 || p.Body.VelX <= -0.1:
		return netconfig.Running
	}
	return netconfig.Idle
}

// Reconcile compares the server's state after input lastSeq with what was
// predicted for it. On a mismatch the body is reset to the server state and
// every unacknowledged input is replayed. Reports whether a correction happened.
func (p *NetPrediction) Reconcile(pos netcomponents.NetPositionData, vel netcomponents.NetVelocityData, state netcomponents.NetPlayerStateData) bool {
	pending := p.Buffer.Acknowledge(state.LastSequence)

	if !p.Initialized || state.LastSequence == 0 {
		// Nothing predicted against this state yet, accept it directly.
		p.resetTo(pos, vel, state)
		p.Initialized = true
		for _, step := range pending {
			p.simulate(step.Input)
		}
		return false
	}

	if _, known := p.Buffer.Get(state.LastSequence); known &&
		p.Buffer.Error(state.LastSequence, pos.X, pos.Y) <= correctionThreshold {
		return false
	}

	before := p.Position()
	p.resetTo(pos, vel, state)
	if acked, ok := p.Buffer.Get(state.LastSequence); ok {
		p.Body.JumpWasPressed = acked.Input.Actions[netconfig.ActionJump]
	}
	for _, step := range pending {
		p.simulate(step.Input)
		p.Buffer.Store(step.Input, p.Body.Object.X, p.Body.Object.Y)
	}
	p.Corrections++
	if p.Smoother != nil {
		after := p.Position()
		p.Smoother.Start(before.X-after.X, before.Y-after.Y)
	}
	return true
}

func (p *NetPrediction) resetTo(pos netcomponents.NetPositionData, vel netcomponents.NetVelocityData, state netcomponents.NetPlayerStateData) {
	p.Body.Place(pos.X, pos.Y)
	p.Body.VelX, p.Body.VelY = vel.SpeedX, vel.SpeedY
	p.Body.OnGround = state.StateID != netconfig.Jump
}

// Reset forgets prediction history so the next authoritative state is taken as is.
func (p *NetPrediction) Reset() {
	p.Buffer.Reset()
	p.Initialized = false
}
