package netsync

import (
	"slices"
	"time"
)

// Snapshot is one server state record tagged with the tick it was produced at.
// Treat it as immutable once pushed.
type Snapshot[T any] struct {
	Tick       uint64
	Payload    T
	ReceivedAt time.Time
}

// SnapshotBuffer keeps received snapshots sorted by tick with a cursor on the
// snapshot currently applied to the world. Ticks are unique; the first
// snapshot pushed for a tick wins.
type SnapshotBuffer[T any] struct {
	entries []Snapshot[T]
	current int // index into entries, -1 until seeded
}

// NewSnapshotBuffer returns an empty, unseeded buffer.
func NewSnapshotBuffer[T any](capacity int) *SnapshotBuffer[T] {
	return &SnapshotBuffer[T]{
		entries: make([]Snapshot[T], 0, capacity),
		current: -1,
	}
}

func compareTick[T any](s Snapshot[T], tick uint64) int {
	switch {
	case s.Tick < tick:
		return -1
	case s.Tick > tick:
		return 1
	}
	return 0
}

// Push inserts snap in tick order. It returns false when the tick is already
// buffered or is not newer than the current snapshot.
func (b *SnapshotBuffer[T]) Push(snap Snapshot[T]) bool {
	if b.current >= 0 && snap.Tick <= b.entries[b.current].Tick {
		return false
	}
	i, found := slices.BinarySearchFunc(b.entries, snap.Tick, compareTick[T])
	if found {
		return false
	}
	// i is always past the cursor here, so the cursor index stays valid.
	b.entries = slices.Insert(b.entries, i, snap)
	return true
}

// Seed marks the earliest buffered snapshot as current and returns it. The
// caller is responsible for applying it to the world.
func (b *SnapshotBuffer[T]) Seed() (Snapshot[T], bool) {
	if len(b.entries) == 0 {
		return Snapshot[T]{}, false
	}
	b.current = 0
	return b.entries[0], true
}

// Reset drops every snapshot and, if seed is non-nil, makes it the only and
// current entry.
func (b *SnapshotBuffer[T]) Reset(seed *Snapshot[T]) {
	clear(b.entries)
	b.entries = b.entries[:0]
	b.current = -1
	if seed != nil {
		b.entries = append(b.entries, *seed)
		b.current = 0
	}
}

// AdvanceCurrent moves the cursor to the newest snapshot with
// tick <= renderTick, calling apply for every snapshot it passes in tick order
// (the new current included). It returns how many snapshots were applied.
func (b *SnapshotBuffer[T]) AdvanceCurrent(renderTick float64, apply func(Snapshot[T])) int {
	if b.current < 0 {
		return 0
	}
	applied := 0
	for next := b.current + 1; next < len(b.entries); next++ {
		if float64(b.entries[next].Tick) > renderTick {
			break
		}
		b.current = next
		if apply != nil {
			apply(b.entries[next])
		}
		applied++
	}
	return applied
}

// PruneBefore drops every snapshot with tick < tick and returns the number
// removed. Call it only after AdvanceCurrent so the lower bracket survives.
func (b *SnapshotBuffer[T]) PruneBefore(tick uint64) int {
	cut, _ := slices.BinarySearchFunc(b.entries, tick, compareTick[T])
	if cut == 0 {
		return 0
	}
	if b.current >= 0 && cut > b.current {
		cut = b.current
	}
	clear(b.entries[:cut])
	b.entries = slices.Delete(b.entries, 0, cut)
	if b.current >= 0 {
		b.current -= cut
	}
	return cut
}

// Bracket returns the current snapshot and the one after it. When nothing
// newer is buffered both values are the current snapshot.
func (b *SnapshotBuffer[T]) Bracket() (from, to Snapshot[T], ok bool) {
	if b.current < 0 {
		return Snapshot[T]{}, Snapshot[T]{}, false
	}
	from = b.entries[b.current]
	if b.current+1 < len(b.entries) {
		return from, b.entries[b.current+1], true
	}
	return from, from, true
}

// Current returns the snapshot last applied to the world.
func (b *SnapshotBuffer[T]) Current() (Snapshot[T], bool) {
	if b.current < 0 {
		return Snapshot[T]{}, false
	}
	return b.entries[b.current], true
}

// Latest returns the newest buffered snapshot.
func (b *SnapshotBuffer[T]) Latest() (Snapshot[T], bool) {
	if len(b.entries) == 0 {
		return Snapshot[T]{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Seeded reports whether a current snapshot has been chosen.
func (b *SnapshotBuffer[T]) Seeded() bool { return b.current >= 0 }

func (b *SnapshotBuffer[T]) Len() int { return len(b.entries) }

// Ticks lists the buffered ticks in order.
func (b *SnapshotBuffer[T]) Ticks() []uint64 {
	ticks := make([]uint64, len(b.entries))
	for i, e := range b.entries {
		ticks[i] = e.Tick
	}
	return ticks
}
