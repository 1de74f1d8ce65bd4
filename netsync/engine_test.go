package netsync

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

type recorder struct {
	applied  []uint64
	renders  int
	steps    int
	lastFrom uint64
	lastTo   uint64
}

func (r *recorder) hooks() Hooks[uint64] {
	return Hooks[uint64]{
		World: ApplyFunc[uint64](func(tick uint64) { r.applied = append(r.applied, tick) }),
		Renderer: RenderFunc[uint64](func(from, to uint64, fraction float64) {
			r.renders++
			r.lastFrom, r.lastTo = from, to
		}),
		Predictor: StepFunc(func() { r.steps++ }),
	}
}

func tickSnap(tick uint64) Snapshot[uint64] {
	return Snapshot[uint64]{Tick: tick, Payload: tick}
}

func newTestEngine(t *testing.T, cfg Config, rec *recorder) *Engine[uint64] {
	t.Helper()
	e, err := NewEngine(cfg, rec.hooks())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NominalTicksPerSend = 0
	if _, err := NewEngine(cfg, Hooks[uint64]{}); !errors.Is(err, ErrTicksPerSend) {
		t.Fatalf("got %v, want ErrTicksPerSend", err)
	}
	cfg = DefaultConfig()
	cfg.DilationFloor = 0
	if _, err := NewEngine(cfg, Hooks[uint64]{}); !errors.Is(err, ErrDilation) {
		t.Fatalf("got %v, want ErrDilation", err)
	}
}

func TestEngineStaysUnsyncedWithoutSeed(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)

	e.OnPacket(epoch, tickSnap(1))
	if out := e.Tick(epoch); out.State != Unsynced {
		t.Fatalf("synced before Start: %v", out.State)
	}

	e2 := newTestEngine(t, DefaultConfig(), rec)
	e2.Start()
	if out := e2.Tick(epoch); out.State != Unsynced || e2.IsSynced() {
		t.Fatalf("synced with an empty buffer: %v", out.State)
	}
	if rec.renders != 0 {
		t.Fatalf("renderer called %d times while unsynced", rec.renders)
	}
}

func TestEngineSeedsFromFirstSnapshot(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)
	e.Start()
	e.OnPacket(epoch, tickSnap(42))

	out := e.Tick(epoch)
	if out.State != Synced || !e.IsSynced() {
		t.Fatalf("got state %v, want synced", out.State)
	}
	if out.Clock.ClientTick != 42 || out.Clock.CurrentSnapshotTick != 42 {
		t.Fatalf("got clock %+v, want seeded at 42", out.Clock)
	}
	if !slices.Equal(rec.applied, []uint64{42}) {
		t.Fatalf("got applied %v, want [42]", rec.applied)
	}
}

// Seed 100, then 101 and 102 arrive 50ms apart against a 100ms nominal
// interval; three 16ms frames follow. The render lag is kept tiny so the
// bracket moves within those three frames.
func TestEngineExampleScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NominalInterval = 100 * time.Millisecond
	cfg.TargetLeadTicks = 0.1
	cfg.BufferDepthTicks = 0.2
	rec := &recorder{}
	e := newTestEngine(t, cfg, rec)

	e.Resume(tickSnap(100))
	e.OnPacket(epoch, tickSnap(101))
	now := epoch.Add(50 * time.Millisecond)
	e.OnPacket(now, tickSnap(102))

	first := e.Tick(now)
	if first.Result.Fraction != 0 || first.Clock.ClientTick != 100 {
		t.Fatalf("first frame advanced: %+v", first)
	}

	prev := first.Result.Fraction
	for i := 0; i < 3; i++ {
		now = now.Add(frame)
		out := e.Tick(now)
		r := out.Result
		validBracket := (r.FromTick == 100 && r.ToTick == 101) || (r.FromTick == 101 && r.ToTick == 102)
		if !validBracket {
			t.Fatalf("frame %d: got bracket (%d,%d)", i, r.FromTick, r.ToTick)
		}
		if r.Fraction <= prev {
			t.Fatalf("frame %d: fraction %v not above %v", i, r.Fraction, prev)
		}
		prev = r.Fraction
	}

	ct := e.ClockState().ClientTick
	if ct <= 100 || ct >= 101.5 {
		t.Fatalf("got client tick %v, want a small drift above 100", ct)
	}
}

func TestEngineAppliesEverySnapshotOnce(t *testing.T) {
	const last = 60
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)
	e.Start()

	now := epoch
	nextPacket := epoch
	tick := uint64(1)
	for i := 0; i < 2000; i++ {
		for tick <= last && !nextPacket.After(now) {
			e.OnPacket(now, tickSnap(tick))
			tick++
			nextPacket = nextPacket.Add(50 * time.Millisecond)
		}
		out := e.Tick(now)
		if out.Result.FromTick > out.Result.ToTick {
			t.Fatalf("bracket out of order: %+v", out.Result)
		}
		if f := out.Result.Fraction; f < 0 || f > 1 {
			t.Fatalf("fraction %v out of range", f)
		}
		now = now.Add(frame)
	}

	want := make([]uint64, 0, last)
	for i := uint64(1); i <= last; i++ {
		want = append(want, i)
	}
	if !slices.Equal(rec.applied, want) {
		t.Fatalf("got applied %v, want 1..%d in order", rec.applied, last)
	}
}

func TestEngineBurstIsAppliedInOrder(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)
	e.Start()
	e.OnPacket(epoch, tickSnap(10))
	e.Tick(epoch)

	// Arrive out of order with a duplicate before the next frame.
	for _, tick := range []uint64{13, 11, 12, 11, 15, 14} {
		e.OnPacket(epoch.Add(time.Millisecond), tickSnap(tick))
	}
	if got := e.Stats().Rejected; got != 1 {
		t.Fatalf("got %d rejected, want 1", got)
	}

	now := epoch
	for i := 0; i < 200; i++ {
		now = now.Add(frame)
		e.Tick(now)
	}
	if want := []uint64{10, 11, 12, 13, 14, 15}; !slices.Equal(rec.applied, want) {
		t.Fatalf("got applied %v, want %v", rec.applied, want)
	}
	if rec.lastFrom != 15 || rec.lastTo != 15 {
		t.Fatalf("got final bracket (%d,%d), want (15,15)", rec.lastFrom, rec.lastTo)
	}
}

func TestEngineStallKeepsLocalSteps(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)
	e.Start()
	e.OnPacket(epoch, tickSnap(1))

	now := epoch
	e.Tick(now)
	for now.Sub(epoch) < 5*time.Second {
		now = now.Add(frame)
		out := e.Tick(now)
		if f := out.Result.Fraction; f < 0 || f > 1 {
			t.Fatalf("fraction %v out of range during stall", f)
		}
	}

	// 5s of wall time at the nominal 50ms per tick.
	if rec.steps < 98 || rec.steps > 100 {
		t.Fatalf("got %d local steps, want about 100", rec.steps)
	}
}

func TestEngineCapsLongFrames(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)
	e.Start()
	e.OnPacket(epoch, tickSnap(1))
	e.Tick(epoch)

	out := e.Tick(epoch.Add(time.Minute))
	// 250ms cap / 50ms per tick.
	if out.LocalSteps != 5 {
		t.Fatalf("got %d local steps from a one minute frame, want 5", out.LocalSteps)
	}
}

func TestEnginePauseAndResume(t *testing.T) {
	rec := &recorder{}
	e := newTestEngine(t, DefaultConfig(), rec)
	e.Start()
	e.OnPacket(epoch, tickSnap(5))
	e.OnPacket(epoch, tickSnap(6))
	e.Tick(epoch)

	e.Pause()
	if e.IsSynced() || len(e.Buffered()) != 0 {
		t.Fatalf("pause left state %v buffer %v", e.State(), e.Buffered())
	}
	if e.OnPacket(epoch, tickSnap(7)) {
		t.Fatal("packet accepted while paused")
	}
	if out := e.Tick(epoch.Add(frame)); out.State != Unsynced {
		t.Fatalf("paused engine resolved a frame: %v", out.State)
	}

	e.Resume(tickSnap(900))
	if !e.IsSynced() || e.ClockState().ClientTick != 900 {
		t.Fatalf("resume did not hard resync: %+v", e.ClockState())
	}
	out := e.Tick(epoch.Add(time.Hour))
	if out.Clock.ClientTick != 900 || out.LocalSteps != 0 {
		t.Fatalf("first frame after resume advanced: %+v", out)
	}
	if rec.applied[len(rec.applied)-1] != 900 {
		t.Fatalf("seed not applied: %v", rec.applied)
	}
	if e.Stats().Ignored != 1 || e.Stats().Resyncs != 1 {
		t.Fatalf("got stats %+v", e.Stats())
	}
}

// A 20 Hz server sending every ticksPerSend ticks, arrivals jittered by up to
// 8ms. Once settled the render tick must sit between two distinct snapshots.
func TestEngineInterpolatesSteadyStream(t *testing.T) {
	jitter := []time.Duration{0, 7, -5, 3, -8, 6, -2, 4, -6, 1}
	for _, ticksPerSend := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("%d ticks per send", ticksPerSend), func(t *testing.T) {
			interval := time.Duration(ticksPerSend) * 50 * time.Millisecond
			cfg := DefaultConfig()
			cfg.NominalTicksPerSend = ticksPerSend
			cfg.NominalInterval = interval
			rec := &recorder{}
			e := newTestEngine(t, cfg, rec)
			e.Start()

			arrival := func(k int) time.Time {
				return epoch.Add(time.Duration(k)*interval + jitter[k%len(jitter)]*time.Millisecond)
			}
			next := 0
			blended, settled := 0, 0
			for now := epoch; now.Sub(epoch) < 6*time.Second; now = now.Add(frame) {
				for !arrival(next).After(now) {
					e.OnPacket(arrival(next), tickSnap(uint64(next*ticksPerSend)))
					next++
				}
				out := e.Tick(now)
				if now.Sub(epoch) < 2*time.Second {
					continue
				}
				settled++
				if r := out.Result; r.FromTick != r.ToTick && r.Fraction > 0 && r.Fraction < 1 {
					blended++
				}
			}
			if blended*10 < settled*9 {
				t.Fatalf("only %d of %d settled frames blended two snapshots", blended, settled)
			}
		})
	}
}
