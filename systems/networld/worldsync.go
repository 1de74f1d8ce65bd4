// Package networld keeps the client's donburi world in step with the server
// snapshot stream: it applies buffered deltas, predicts the local player and
// interpolates remote players for rendering. Nothing here touches ebiten.
package networld

import (
	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// WorldSync applies snapshot payloads to a donburi world. It is the engine's
// world applier and is called once per snapshot, in tick order.
type WorldSync struct {
	world      donburi.World
	localID    func() esync.NetworkId
	prediction *NetPrediction
	present    map[esync.NetworkId]bool

	LastTick uint64
	Applied  int
}

func NewWorldSync(world donburi.World, localID func() esync.NetworkId, prediction *NetPrediction) *WorldSync {
	return &WorldSync{
		world:      world,
		localID:    localID,
		prediction: prediction,
		present:    make(map[esync.NetworkId]bool),
	}
}

// ApplyDelta implements netsync.WorldApplier.
func (ws *WorldSync) ApplyDelta(d network.WorldDelta) {
	clear(ws.present)
	local := ws.localID()

	for _, ent := range d.Entities {
		ws.present[ent.ID] = true
		entry := ws.ensure(ent)
		if local != 0 && ent.ID == local {
			ws.applyLocal(entry, ent)
			continue
		}
		applyState(entry, ent)
	}

	ws.removeMissing()
	ws.LastTick = d.Tick
	ws.Applied++
}

func (ws *WorldSync) ensure(ent network.EntityState) *donburi.Entry {
	if entry, ok := findEntry(ws.world, ent.ID); ok {
		return entry
	}

	ctypes := []donburi.IComponentType{esync.NetworkIdComponent}
	if ent.Position != nil {
		ctypes = append(ctypes, netcomponents.NetPosition)
	}
	if ent.Velocity != nil {
		ctypes = append(ctypes, netcomponents.NetVelocity)
	}
	if ent.Player != nil {
		ctypes = append(ctypes, netcomponents.NetPlayerState, tags.Player)
	}
	entry := ws.world.Entry(ws.world.Create(ctypes...))
	esync.NetworkIdComponent.SetValue(entry, ent.ID)
	return entry
}

// applyLocal reconciles prediction against server state instead of
// overwriting the predicted position.
func (ws *WorldSync) applyLocal(entry *donburi.Entry, ent network.EntityState) {
	if ent.Player != nil {
		if !entry.HasComponent(netcomponents.NetPlayerState) {
			entry.AddComponent(netcomponents.NetPlayerState)
		}
		state := netcomponents.NetPlayerState.Get(entry)
		state.LastSequence = ent.Player.LastSequence
		state.IsLocal = true
		// Direction and StateID follow prediction.
		if ws.prediction == nil || !ws.prediction.Initialized {
			state.Direction = ent.Player.Direction
			state.StateID = ent.Player.StateID
		}
	}

	if ent.Position == nil || ent.Velocity == nil || ent.Player == nil || ws.prediction == nil {
		applyState(entry, ent)
		return
	}

	ws.prediction.Reconcile(*ent.Position, *ent.Velocity, *ent.Player)
	setComponent(entry, netcomponents.NetPosition, ws.prediction.Position())
	setComponent(entry, netcomponents.NetVelocity, ws.prediction.Velocity())
}

func (ws *WorldSync) removeMissing() {
	var stale []*donburi.Entry
	esync.NetworkEntityQuery.Each(ws.world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id != nil && !ws.present[*id] {
			stale = append(stale, entry)
		}
	})
	for _, entry := range stale {
		entry.Remove()
	}
}

// applyState copies every component carried by ent onto entry.
func applyState(entry *donburi.Entry, ent network.EntityState) {
	if ent.Position != nil {
		setComponent(entry, netcomponents.NetPosition, *ent.Position)
	}
	if ent.Velocity != nil {
		setComponent(entry, netcomponents.NetVelocity, *ent.Velocity)
	}
	if ent.Player != nil {
		setComponent(entry, netcomponents.NetPlayerState, *ent.Player)
	}
}

func setComponent[T any](entry *donburi.Entry, ctype *donburi.ComponentType[T], v T) {
	if !entry.HasComponent(ctype) {
		entry.AddComponent(ctype)
	}
	ctype.SetValue(entry, v)
}

func findEntry(world donburi.World, id esync.NetworkId) (*donburi.Entry, bool) {
	if id == 0 {
		return nil, false
	}
	entity := esync.FindByNetworkId(world, id)
	if !world.Valid(entity) {
		return nil, false
	}
	return world.Entry(entity), true
}
