package netsync

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestClockDilation(t *testing.T) {
	c := NewClockSynchronizer(DefaultConfig())
	tests := []struct {
		errorTicks float64
		want       float64
	}{
		{0, 1},
		{0.5, 1},
		{-0.5, 1},
		{2, 1.3},
		{-2, 0.7},
		{-100, 0.1},
		{100, 3},
	}
	for _, tt := range tests {
		if got := c.Dilation(tt.errorTicks); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Dilation(%v) = %v, want %v", tt.errorTicks, got, tt.want)
		}
	}
}

func TestClockAdvanceUsesLiveInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NominalTicksPerSend = 3
	c := NewClockSynchronizer(cfg)
	c.Reset(100)

	// latest = clientTick - lead keeps the error inside the deadband.
	step := c.Advance(40*time.Millisecond, 97, 80)
	if math.Abs(step.DeltaTick-1.5) > 1e-9 || step.Dilation != 1 {
		t.Fatalf("got step %+v, want delta 1.5 dilation 1", step)
	}
	if math.Abs(c.ClientTick()-101.5) > 1e-9 {
		t.Fatalf("got client tick %v, want 101.5", c.ClientTick())
	}
}

func TestClockAdvanceNeverSnaps(t *testing.T) {
	c := NewClockSynchronizer(DefaultConfig())
	c.Reset(0)
	c.Advance(16*time.Millisecond, 10_000, 50)
	if c.ClientTick() > 2 {
		t.Fatalf("clock jumped to %v", c.ClientTick())
	}
}

func TestClockMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewClockSynchronizer(DefaultConfig())
	c.Reset(1000)
	prev := c.ClientTick()
	for i := 0; i < 10_000; i++ {
		delta := time.Duration(rng.Intn(100)) * time.Millisecond
		latest := uint64(rng.Intn(3000))
		interval := 1 + rng.Float64()*200
		step := c.Advance(delta, latest, interval)
		if step.Dilation <= 0 {
			t.Fatalf("non-positive dilation %v", step.Dilation)
		}
		if c.ClientTick() < prev {
			t.Fatalf("client tick went backwards: %v -> %v", prev, c.ClientTick())
		}
		prev = c.ClientTick()
	}

	c.Advance(-time.Second, 0, 50)
	if c.ClientTick() < prev {
		t.Fatal("negative delta moved the clock backwards")
	}
}
