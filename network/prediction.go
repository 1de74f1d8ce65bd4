package network

import (
	"math"

	"github.com/automoto/doomerang-netsync/shared/messages"
)

// predictionWindow must cover every input that can be in flight between two
// acknowledgements. At 60 steps per second this is just over two seconds.
const predictionWindow = 128

// PredictedStep is one local input and the body position predicted after it.
type PredictedStep struct {
	Input messages.PlayerInput
	X, Y  float64
}

// PredictionBuffer is a ring of recent local steps kept for reconciliation.
// The zero value is ready to use; the first stored sequence is 1.
type PredictionBuffer struct {
	ring    [predictionWindow]PredictedStep
	nextSeq uint32
	acked   uint32
}

// Next allocates the sequence number for the next input.
func (pb *PredictionBuffer) Next() uint32 {
	if pb.nextSeq == 0 {
		pb.nextSeq = 1
	}
	return pb.nextSeq
}

// Store records a step. Sequences must be stored in increasing order.
func (pb *PredictionBuffer) Store(input messages.PlayerInput, x, y float64) {
	pb.ring[input.Sequence%predictionWindow] = PredictedStep{Input: input, X: x, Y: y}
	pb.nextSeq = input.Sequence + 1
}

// Get returns the step for seq, or false if it was never stored or has been
// overwritten by a newer step.
func (pb *PredictionBuffer) Get(seq uint32) (PredictedStep, bool) {
	if seq == 0 {
		return PredictedStep{}, false
	}
	step := pb.ring[seq%predictionWindow]
	if step.Input.Sequence != seq {
		return PredictedStep{}, false
	}
	return step, true
}

// Acknowledge marks every step up to seq as applied by the server and
// returns the steps still pending, oldest first. Stale acknowledgements
// leave the watermark where it is.
func (pb *PredictionBuffer) Acknowledge(seq uint32) []PredictedStep {
	if seq > pb.acked {
		pb.acked = seq
	}
	return pb.Pending()
}

// Pending lists stored steps newer than the acknowledged watermark.
func (pb *PredictionBuffer) Pending() []PredictedStep {
	var out []PredictedStep
	start := pb.acked + 1
	if pb.nextSeq > predictionWindow && start < pb.nextSeq-predictionWindow {
		start = pb.nextSeq - predictionWindow
	}
	for seq := start; seq < pb.nextSeq; seq++ {
		if step, ok := pb.Get(seq); ok {
			out = append(out, step)
		}
	}
	return out
}

// Acked returns the highest acknowledged sequence.
func (pb *PredictionBuffer) Acked() uint32 {
	return pb.acked
}

// Error is the distance between the prediction for seq and the server's
// authoritative position. Unknown sequences report zero.
func (pb *PredictionBuffer) Error(seq uint32, serverX, serverY float64) float64 {
	step, ok := pb.Get(seq)
	if !ok {
		return 0
	}
	return math.Hypot(step.X-serverX, step.Y-serverY)
}

// Reset forgets all history, used when the session resyncs.
func (pb *PredictionBuffer) Reset() {
	*pb = PredictionBuffer{}
}
