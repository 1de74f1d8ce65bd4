package netsync

import (
	"math"
	"time"
)

// ClockState is the engine's local clock, in server tick units.
type ClockState struct {
	ClientTick          float64
	MeasuredIntervalMs  float64
	CurrentSnapshotTick uint64
}

// ClockStep describes one Advance call.
type ClockStep struct {
	DeltaTick  float64 // undilated ticks elapsed, drives local stepping
	Dilation   float64
	ErrorTicks float64
}

// ClockSynchronizer advances the client tick from wall time and nudges it
// toward the server with a bounded proportional dilation. It never snaps the
// clock; hard resyncs go through Reset.
type ClockSynchronizer struct {
	ticksPerSend float64
	lead         float64
	gain         float64
	deadband     float64
	floor        float64
	ceiling      float64

	clientTick float64
}

func NewClockSynchronizer(cfg Config) *ClockSynchronizer {
	return &ClockSynchronizer{
		ticksPerSend: float64(cfg.NominalTicksPerSend),
		lead:         cfg.targetLead(),
		gain:         cfg.DilationGain,
		deadband:     cfg.DilationDeadbandTicks,
		floor:        cfg.DilationFloor,
		ceiling:      cfg.DilationCeiling,
	}
}

// Reset places the clock exactly on tick.
func (c *ClockSynchronizer) Reset(tick uint64) {
	c.clientTick = float64(tick)
}

func (c *ClockSynchronizer) ClientTick() float64 { return c.clientTick }

// Dilation returns the rate multiplier for a given error in ticks.
func (c *ClockSynchronizer) Dilation(errorTicks float64) float64 {
	if math.Abs(errorTicks) <= c.deadband {
		return 1
	}
	d := 1 + c.gain*errorTicks
	if d < c.floor {
		return c.floor
	}
	if d > c.ceiling {
		return c.ceiling
	}
	return d
}

// Advance moves the client tick forward by the wall time elapsed since the
// previous frame. intervalMs is the live estimate of wall time per snapshot.
// Negative deltas are treated as zero so the clock never runs backwards.
func (c *ClockSynchronizer) Advance(deltaWall time.Duration, latestTick uint64, intervalMs float64) ClockStep {
	if deltaWall < 0 {
		deltaWall = 0
	}
	delayTicks := float64(latestTick) - c.clientTick
	errorTicks := delayTicks + c.lead
	dilation := c.Dilation(errorTicks)

	deltaMs := float64(deltaWall) / float64(time.Millisecond)
	deltaTick := deltaMs / intervalMs * c.ticksPerSend

	c.clientTick += deltaTick * dilation
	return ClockStep{DeltaTick: deltaTick, Dilation: dilation, ErrorTicks: errorTicks}
}
