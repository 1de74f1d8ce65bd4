package core

import (
	"errors"
	"os"
	"testing"

	"github.com/automoto/doomerang-netsync/shared/leveldata"
	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/automoto/doomerang-netsync/shared/protocol"
)

func TestMain(m *testing.M) {
	if err := protocol.RegisterComponents(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func input(seq uint32, dir int, jump bool) messages.PlayerInput {
	in := messages.NewPlayerInput(seq)
	in.Direction = dir
	in.Actions[netconfig.ActionJump] = jump
	return in
}

func arenaPlayer() *PlayerPhysics {
	level := NewServerLevel(leveldata.DefaultArena())
	spawn := level.Data.Spawn(0)
	return newPlayerPhysics(level, spawn.X, spawn.Y)
}

func TestPlayerPhysicsConsumesOneInputPerTick(t *testing.T) {
	p := arenaPlayer()
	for seq := uint32(1); seq <= 3; seq++ {
		if !p.Enqueue(input(seq, 1, false)) {
			t.Fatalf("input %d rejected", seq)
		}
	}
	if p.Enqueue(input(2, -1, false)) {
		t.Fatal("accepted an input older than one already queued")
	}

	p.Advance(3)
	if p.LastInputSeq != 1 || p.Queued() != 2 {
		t.Fatalf("got last seq %d with %d queued", p.LastInputSeq, p.Queued())
	}
	p.Advance(3)
	p.Advance(3)
	p.Advance(3) // queue empty, held input repeats
	if p.LastInputSeq != 3 {
		t.Fatalf("got last seq %d, want 3", p.LastInputSeq)
	}
	_, vel, state := p.State()
	if vel.SpeedX <= 0 || state.Direction != 1 || state.LastSequence != 3 {
		t.Fatalf("held input not applied: vel %+v state %+v", vel, state)
	}
}

func TestPlayerPhysicsQueueIsBounded(t *testing.T) {
	p := arenaPlayer()
	for seq := uint32(1); seq <= maxQueuedInputs+2; seq++ {
		p.Enqueue(input(seq, 0, false))
	}
	if p.Queued() != maxQueuedInputs || p.Dropped != 2 {
		t.Fatalf("got %d queued, %d dropped", p.Queued(), p.Dropped)
	}
	p.Advance(1)
	if p.LastInputSeq != 3 {
		t.Fatalf("oldest inputs not dropped: consumed %d", p.LastInputSeq)
	}
}

func TestPlayerLandsInArena(t *testing.T) {
	p := arenaPlayer()
	for i := 0; i < 60; i++ {
		p.Advance(3)
	}
	_, _, state := p.State()
	if state.StateID != netconfig.Idle {
		t.Fatalf("got state %v after settling, want idle", state.StateID)
	}
}

func TestShouldSend(t *testing.T) {
	tests := []struct {
		tick         uint64
		ticksPerSend int
		want         bool
	}{
		{1, 1, true},
		{7, 0, true},
		{1, 3, false},
		{2, 3, false},
		{3, 3, true},
		{6, 3, true},
	}
	for _, tt := range tests {
		if got := shouldSend(tt.tick, tt.ticksPerSend); got != tt.want {
			t.Errorf("shouldSend(%d, %d) = %v, want %v", tt.tick, tt.ticksPerSend, got, tt.want)
		}
	}
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	if _, err := NewServer(Config{TickRate: 0, TicksPerSend: 1}, nil); !errors.Is(err, ErrTickRate) {
		t.Fatalf("got %v, want ErrTickRate", err)
	}
	if _, err := NewServer(Config{TickRate: 20}, nil); !errors.Is(err, ErrTicksPerSend) {
		t.Fatalf("got %v, want ErrTicksPerSend", err)
	}
}

func TestServerStepStampsClock(t *testing.T) {
	s, err := NewServer(Config{Name: "test", TickRate: 20, TicksPerSend: 2}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	for i := 0; i < 5; i++ {
		s.Step()
	}
	clock := netcomponents.NetServerTick.Get(s.World().Entry(s.clock))
	if clock.Tick != 5 || clock.TicksPerSend != 2 || s.Tick() != 5 {
		t.Fatalf("got clock %+v at server tick %d", clock, s.Tick())
	}
}
