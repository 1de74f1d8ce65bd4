package netsync

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrTicksPerSend = errors.New("nominal ticks per send must be positive")
	ErrSmoothing    = errors.New("rate smoothing samples must be positive")
	ErrInterval     = errors.New("nominal interval must be positive")
	ErrDilation     = errors.New("dilation bounds must satisfy 0 < floor <= 1 <= ceiling")
	ErrNegative     = errors.New("value must not be negative")
	ErrBufferDepth  = errors.New("buffer depth must exceed the target lead")
)

// Config holds the tuning knobs of an Engine. The gain and deadband defaults
// are starting points; tune them against the real jitter of the target network.
type Config struct {
	NominalTicksPerSend int           // server ticks covered by one snapshot
	NominalInterval     time.Duration // expected wall time between snapshots, seeds the estimator

	// BufferDepthTicks is the render lag behind the client tick. Zero means
	// two send intervals.
	BufferDepthTicks float64

	// TargetLeadTicks is how far the client tick runs ahead of the newest
	// buffered tick at equilibrium. Zero means one send interval.
	TargetLeadTicks float64

	RateSmoothingSamples  int
	DilationGain          float64
	DilationDeadbandTicks float64
	DilationFloor         float64
	DilationCeiling       float64

	// MaxFrameDelta caps the wall time a single frame may account for.
	MaxFrameDelta time.Duration
}

// DefaultConfig returns the reference tuning for a server that sends one
// snapshot every tick at 20 Hz.
func DefaultConfig() Config {
	return Config{
		NominalTicksPerSend:   1,
		NominalInterval:       50 * time.Millisecond,
		RateSmoothingSamples:  10,
		DilationGain:          0.15,
		DilationDeadbandTicks: 0.5,
		DilationFloor:         0.1,
		DilationCeiling:       3.0,
		MaxFrameDelta:         250 * time.Millisecond,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.NominalTicksPerSend <= 0:
		return fmt.Errorf("netsync config: %w (got %d)", ErrTicksPerSend, c.NominalTicksPerSend)
	case c.NominalInterval <= 0:
		return fmt.Errorf("netsync config: %w (got %s)", ErrInterval, c.NominalInterval)
	case c.RateSmoothingSamples <= 0:
		return fmt.Errorf("netsync config: %w (got %d)", ErrSmoothing, c.RateSmoothingSamples)
	case c.DilationFloor <= 0 || c.DilationFloor > 1 || c.DilationCeiling < 1:
		return fmt.Errorf("netsync config: %w (floor %g, ceiling %g)", ErrDilation, c.DilationFloor, c.DilationCeiling)
	case c.BufferDepthTicks < 0:
		return fmt.Errorf("netsync config: buffer depth: %w", ErrNegative)
	case c.TargetLeadTicks < 0:
		return fmt.Errorf("netsync config: target lead: %w", ErrNegative)
	case c.DilationGain < 0:
		return fmt.Errorf("netsync config: dilation gain: %w", ErrNegative)
	case c.DilationDeadbandTicks < 0:
		return fmt.Errorf("netsync config: deadband: %w", ErrNegative)
	case c.MaxFrameDelta < 0:
		return fmt.Errorf("netsync config: max frame delta: %w", ErrNegative)
	case c.bufferDepth() <= c.targetLead():
		// The clock settles about one lead ahead of the newest snapshot, so a
		// shallower render lag runs past it and the bracket collapses.
		return fmt.Errorf("netsync config: %w (depth %g, lead %g)", ErrBufferDepth, c.bufferDepth(), c.targetLead())
	}
	return nil
}

func (c Config) bufferDepth() float64 {
	if c.BufferDepthTicks > 0 {
		return c.BufferDepthTicks
	}
	return 2 * float64(c.NominalTicksPerSend)
}

func (c Config) targetLead() float64 {
	if c.TargetLeadTicks > 0 {
		return c.TargetLeadTicks
	}
	return float64(c.NominalTicksPerSend)
}
