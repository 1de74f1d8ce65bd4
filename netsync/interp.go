package netsync

// InterpolationResult is recomputed every frame and never stored.
type InterpolationResult struct {
	FromTick   uint64
	ToTick     uint64
	RenderTick float64
	Fraction   float64 // in [0, 1], never extrapolated
	Applied    int     // snapshots applied to the world this frame
	Pruned     int
}

// Interpolator picks the snapshot pair that straddles the render tick.
type Interpolator[T any] struct {
	BufferDepthTicks float64
}

// Resolve advances buf to the render tick, retires snapshots older than the
// new current one and returns the bracket fraction. buf must be seeded;
// resolving an unseeded buffer is a programming error and panics.
func (ip Interpolator[T]) Resolve(buf *SnapshotBuffer[T], clientTick float64, apply func(Snapshot[T])) (InterpolationResult, Snapshot[T], Snapshot[T]) {
	if !buf.Seeded() {
		panic("netsync: Resolve called on an unseeded snapshot buffer")
	}
	renderTick := clientTick - ip.BufferDepthTicks

	applied := buf.AdvanceCurrent(renderTick, apply)
	current, _ := buf.Current()
	pruned := buf.PruneBefore(current.Tick)
	from, to, _ := buf.Bracket()

	return InterpolationResult{
		FromTick:   from.Tick,
		ToTick:     to.Tick,
		RenderTick: renderTick,
		Fraction:   bracketFraction(renderTick, from.Tick, to.Tick),
		Applied:    applied,
		Pruned:     pruned,
	}, from, to
}

func bracketFraction(renderTick float64, from, to uint64) float64 {
	if to == from {
		return 0
	}
	f := (renderTick - float64(from)) / float64(to-from)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
