// Package netsync reconciles a local frame clock with an irregular stream of
// server snapshots. One Engine is owned by one game session and is driven
// from a single goroutine: OnPacket for every decoded snapshot and Tick once
// per displayed frame.
package netsync

import (
	"fmt"
	"log"
	"time"

	"github.com/hako/durafmt"
)

// stallLogThreshold is the arrival gap above which a resumed stream is logged.
const stallLogThreshold = time.Second

type SyncState int

const (
	Unsynced SyncState = iota
	Synced
)

func (s SyncState) String() string {
	switch s {
	case Unsynced:
		return "unsynced"
	case Synced:
		return "synced"
	}
	return fmt.Sprintf("SyncState(%d)", int(s))
}

// FrameOutput is what one Tick hands back to the caller.
type FrameOutput[T any] struct {
	State      SyncState
	Result     InterpolationResult
	From, To   Snapshot[T]
	Clock      ClockState
	Step       ClockStep
	LocalSteps int
}

// Stats are cumulative counters for a session.
type Stats struct {
	Frames       uint64
	Packets      uint64
	Applied      uint64
	Rejected     uint64 // duplicate or stale ticks
	Ignored      uint64 // arrived while paused
	Pruned       uint64
	LocalSteps   uint64
	Resyncs      uint64
	LongestStall time.Duration
}

// Engine owns the snapshot buffer, the clock and the local stepper of one session.
type Engine[T any] struct {
	cfg    Config
	hooks  Hooks[T]
	buffer *SnapshotBuffer[T]
	rate   *RateEstimator
	clock  *ClockSynchronizer
	interp Interpolator[T]

	stepper LocalStepper

	state      SyncState
	started    bool
	paused     bool
	lastFrame  time.Time
	lastPacket time.Time
	stats      Stats
}

// NewEngine validates cfg and builds an unsynced engine.
func NewEngine[T any](cfg Config, hooks Hooks[T]) (*Engine[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine[T]{
		cfg:    cfg,
		hooks:  hooks,
		buffer: NewSnapshotBuffer[T](32),
		rate:   NewRateEstimator(cfg.NominalInterval, cfg.RateSmoothingSamples),
		clock:  NewClockSynchronizer(cfg),
		interp: Interpolator[T]{BufferDepthTicks: cfg.bufferDepth()},
	}, nil
}

// Start arms the session. The first frame after a snapshot is buffered seeds the clock.
func (e *Engine[T]) Start() {
	e.started = true
	e.paused = false
}

// Pause drops all buffered state and returns to Unsynced. Packets are ignored
// until Resume.
func (e *Engine[T]) Pause() {
	dropped := e.buffer.Len()
	e.paused = true
	e.state = Unsynced
	e.buffer.Reset(nil)
	e.rate.ResetArrival()
	e.lastFrame = time.Time{}
	log.Printf("[netsync] paused, dropped %d buffered snapshots", dropped)
}

// Resume hard-resyncs the session to seed: the clock jumps to its tick and the
// seed is applied to the world.
func (e *Engine[T]) Resume(seed Snapshot[T]) {
	e.started = true
	e.paused = false
	e.buffer.Reset(&seed)
	e.rate.ResetArrival()
	e.lastPacket = time.Time{}
	e.syncTo(seed, time.Time{})
	e.stats.Resyncs++
}

// OnPacket buffers a decoded snapshot and feeds its arrival into the rate
// estimate. It never touches the clock. It returns false when the snapshot
// was not buffered.
func (e *Engine[T]) OnPacket(now time.Time, snap Snapshot[T]) bool {
	if e.paused {
		e.stats.Ignored++
		return false
	}
	e.stats.Packets++
	e.rate.OnPacketArrival(now)
	if !e.lastPacket.IsZero() {
		if gap := now.Sub(e.lastPacket); gap > e.stats.LongestStall {
			e.stats.LongestStall = gap
		}
		if gap := now.Sub(e.lastPacket); gap >= stallLogThreshold {
			log.Printf("[netsync] snapshot stream resumed after %s", durafmt.Parse(gap).LimitFirstN(2))
		}
	}
	e.lastPacket = now

	if snap.ReceivedAt.IsZero() {
		snap.ReceivedAt = now
	}
	if !e.buffer.Push(snap) {
		e.stats.Rejected++
		return false
	}
	return true
}

// Tick runs one frame: advance the clock, resolve the bracket, run local
// steps, then render. The order is fixed.
func (e *Engine[T]) Tick(now time.Time) FrameOutput[T] {
	if !e.started || e.paused {
		return FrameOutput[T]{State: e.state}
	}
	if e.state == Unsynced {
		seed, ok := e.buffer.Seed()
		if !ok {
			return FrameOutput[T]{State: Unsynced}
		}
		e.syncTo(seed, now)
	}

	delta := e.frameDelta(now)
	latest, _ := e.buffer.Latest()
	step := e.clock.Advance(delta, latest.Tick, e.rate.IntervalMs())

	res, from, to := e.interp.Resolve(e.buffer, e.clock.ClientTick(), e.apply)
	localSteps := e.stepper.CatchUp(step.DeltaTick, e.step)

	if e.hooks.Renderer != nil {
		e.hooks.Renderer.RenderFrame(from.Payload, to.Payload, res.Fraction)
	}

	e.stats.Frames++
	e.stats.Applied += uint64(res.Applied)
	e.stats.Pruned += uint64(res.Pruned)
	e.stats.LocalSteps += uint64(localSteps)

	return FrameOutput[T]{
		State:      Synced,
		Result:     res,
		From:       from,
		To:         to,
		Clock:      e.ClockState(),
		Step:       step,
		LocalSteps: localSteps,
	}
}

func (e *Engine[T]) frameDelta(now time.Time) time.Duration {
	var delta time.Duration
	if !e.lastFrame.IsZero() {
		delta = now.Sub(e.lastFrame)
	}
	e.lastFrame = now
	if delta < 0 {
		return 0
	}
	if e.cfg.MaxFrameDelta > 0 && delta > e.cfg.MaxFrameDelta {
		return e.cfg.MaxFrameDelta
	}
	return delta
}

func (e *Engine[T]) syncTo(seed Snapshot[T], now time.Time) {
	e.apply(seed)
	e.stats.Applied++
	e.clock.Reset(seed.Tick)
	e.stepper.Reset()
	e.lastFrame = now
	e.state = Synced
	log.Printf("[netsync] synced at tick %d", seed.Tick)
}

func (e *Engine[T]) apply(s Snapshot[T]) {
	if e.hooks.World != nil {
		e.hooks.World.ApplyDelta(s.Payload)
	}
}

func (e *Engine[T]) step() {
	if e.hooks.Predictor != nil {
		e.hooks.Predictor.Step()
	}
}

// IsSynced reports whether frames are currently being resolved.
func (e *Engine[T]) IsSynced() bool { return e.state == Synced }

func (e *Engine[T]) State() SyncState { return e.state }

func (e *Engine[T]) Paused() bool { return e.paused }

func (e *Engine[T]) ClockState() ClockState {
	cs := ClockState{
		ClientTick:         e.clock.ClientTick(),
		MeasuredIntervalMs: e.rate.IntervalMs(),
	}
	if cur, ok := e.buffer.Current(); ok {
		cs.CurrentSnapshotTick = cur.Tick
	}
	return cs
}

func (e *Engine[T]) ServerTickRate() float64 { return e.rate.ServerTickRate() }

// Buffered returns the ticks currently held, oldest first.
func (e *Engine[T]) Buffered() []uint64 { return e.buffer.Ticks() }

func (e *Engine[T]) Stats() Stats { return e.stats }

func (e *Engine[T]) Config() Config { return e.cfg }
