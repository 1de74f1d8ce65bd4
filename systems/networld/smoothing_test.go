package networld

import (
	"math"
	"testing"
	"time"

	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
)

func TestCorrectionSmootherEasesToZero(t *testing.T) {
	s := NewCorrectionSmoother(100 * time.Millisecond)
	s.Start(10, -4)
	if x, y := s.Offset(); x != 10 || y != -4 {
		t.Fatalf("got offset (%v, %v) right after start", x, y)
	}

	x, y := s.Update(50 * time.Millisecond)
	if x <= 0 || x >= 10 || y >= 0 || y <= -4 {
		t.Fatalf("got offset (%v, %v) halfway, want strictly between start and zero", x, y)
	}
	// Ease out covers most of the distance in the first half.
	if math.Abs(x-2.5) > 1e-3 {
		t.Fatalf("got x %v halfway, want 2.5", x)
	}

	x, y = s.Update(60 * time.Millisecond)
	if x != 0 || y != 0 || s.Active() {
		t.Fatalf("got offset (%v, %v) active=%v after the ease ended", x, y, s.Active())
	}
}

func TestCorrectionSmootherWithoutDuration(t *testing.T) {
	s := NewCorrectionSmoother(0)
	s.Start(10, 10)
	if x, y := s.Offset(); x != 0 || y != 0 || s.Active() {
		t.Fatalf("got offset (%v, %v), want an instant snap", x, y)
	}
}

func TestReconcileStartsSmoothing(t *testing.T) {
	pred := newPrediction(0, 0)
	pred.Smoother = NewCorrectionSmoother(100 * time.Millisecond)
	pred.Reconcile(netcomponents.NetPositionData{X: 100, Y: 100}, netcomponents.NetVelocityData{}, netcomponents.NetPlayerStateData{StateID: netconfig.Jump})
	pred.Predict(moveRight(pred.Buffer.Next()))
	before := pred.Position()

	server := netcomponents.NetPositionData{X: 160, Y: 100}
	if !pred.Reconcile(server, netcomponents.NetVelocityData{}, netcomponents.NetPlayerStateData{LastSequence: 1, StateID: netconfig.Jump}) {
		t.Fatal("mismatch not corrected")
	}
	after := pred.Position()
	dx, dy := pred.Smoother.Offset()
	if dx != float64(float32(before.X-after.X)) || dy != float64(float32(before.Y-after.Y)) {
		t.Fatalf("got offset (%v, %v), want the pre-correction position", dx, dy)
	}

	// The renderer draws the old position until the ease runs.
	now := time.Unix(0, 0)
	fi := NewFrameInterpolation(fixedID(7), pred)
	fi.now = func() time.Time { return now }
	snap := network.WorldDelta{Tick: 1, Entities: []network.EntityState{player(7, server.X, server.Y, 1)}}

	fi.RenderFrame(snap, snap, 0)
	local, ok := fi.Local()
	if !ok || math.Abs(local.X-before.X) > 1e-3 {
		t.Fatalf("got local %+v, want x near %v", local, before.X)
	}

	now = now.Add(200 * time.Millisecond)
	fi.RenderFrame(snap, snap, 0)
	local, _ = fi.Local()
	if local.X != after.X || local.Y != after.Y {
		t.Fatalf("got local %+v after the ease, want %+v", local, after)
	}
}
