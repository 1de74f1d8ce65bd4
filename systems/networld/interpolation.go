package networld

import (
	"time"

	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/leap-fish/necs/esync"
)

// FrameEntity is one entity as it should appear this frame.
type FrameEntity struct {
	ID        esync.NetworkId
	X, Y      float64
	Direction int
	State     netconfig.StateID
	Local     bool
}

// FrameInterpolation is the engine's renderer hook. It blends remote
// entities between the two bracketing snapshots and keeps the result for
// the draw pass. The local player is taken from prediction, never blended.
type FrameInterpolation struct {
	localID    func() esync.NetworkId
	prediction *NetPrediction
	now        func() time.Time
	lastRender time.Time

	frame    []FrameEntity
	fraction float64
	fromTick uint64
	toTick   uint64
}

func NewFrameInterpolation(localID func() esync.NetworkId, prediction *NetPrediction) *FrameInterpolation {
	return &FrameInterpolation{localID: localID, prediction: prediction, now: time.Now}
}

// RenderFrame implements netsync.Renderer.
func (fi *FrameInterpolation) RenderFrame(from, to network.WorldDelta, fraction float64) {
	fi.frame = fi.frame[:0]
	fi.fraction, fi.fromTick, fi.toTick = fraction, from.Tick, to.Tick
	local := fi.localID()
	fi.advanceSmoothing()

	for _, ent := range to.Entities {
		if ent.Position == nil {
			continue
		}
		if local != 0 && ent.ID == local && fi.prediction != nil && fi.prediction.Initialized {
			fi.frame = append(fi.frame, fi.localEntity(ent))
			continue
		}

		fe := frameEntity(ent)
		if prev, ok := from.Entity(ent.ID); ok && prev.Position != nil {
			pos := netcomponents.LerpNetPosition(*prev.Position, *ent.Position, fraction)
			fe.X, fe.Y = pos.X, pos.Y
		}
		fe.Local = ent.ID == local
		fi.frame = append(fi.frame, fe)
	}

	// Entities gone from the newer snapshot hold their last position until
	// the bracket moves past them.
	for _, ent := range from.Entities {
		if ent.Position == nil {
			continue
		}
		if _, ok := to.Entity(ent.ID); ok {
			continue
		}
		fi.frame = append(fi.frame, frameEntity(ent))
	}
}

func (fi *FrameInterpolation) advanceSmoothing() {
	now := fi.now()
	if fi.prediction != nil && fi.prediction.Smoother != nil && !fi.lastRender.IsZero() {
		fi.prediction.Smoother.Update(now.Sub(fi.lastRender))
	}
	fi.lastRender = now
}

func (fi *FrameInterpolation) localEntity(ent network.EntityState) FrameEntity {
	pos := fi.prediction.Position()
	if s := fi.prediction.Smoother; s != nil {
		dx, dy := s.Offset()
		pos.X, pos.Y = pos.X+dx, pos.Y+dy
	}
	fe := FrameEntity{ID: ent.ID, X: pos.X, Y: pos.Y, State: fi.prediction.StateID(), Local: true}
	if ent.Player != nil {
		fe.Direction = ent.Player.Direction
	}
	if v := fi.prediction.Body.VelX; v > 0 {
		fe.Direction = 1
	} else if v < 0 {
		fe.Direction = -1
	}
	return fe
}

func frameEntity(ent network.EntityState) FrameEntity {
	fe := FrameEntity{ID: ent.ID, X: ent.Position.X, Y: ent.Position.Y}
	if ent.Player != nil {
		fe.Direction = ent.Player.Direction
		fe.State = ent.Player.StateID
	}
	return fe
}

// Frame returns the entities resolved by the last RenderFrame. The slice is
// reused on the next call.
func (fi *FrameInterpolation) Frame() []FrameEntity { return fi.frame }

// Fraction is the blend factor of the last frame.
func (fi *FrameInterpolation) Fraction() float64 { return fi.fraction }

// Bracket is the pair of server ticks the last frame was blended between.
func (fi *FrameInterpolation) Bracket() (from, to uint64) { return fi.fromTick, fi.toTick }

// Local returns the local player's entry in the last frame.
func (fi *FrameInterpolation) Local() (FrameEntity, bool) {
	for _, fe := range fi.frame {
		if fe.Local {
			return fe, true
		}
	}
	return FrameEntity{}, false
}
