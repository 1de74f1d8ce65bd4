package network

import (
	"errors"
	"fmt"
	"sort"

	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// ErrNoServerTick is returned for snapshots that lack the server clock entity.
var ErrNoServerTick = errors.New("snapshot has no server tick")

// EntityState is the decoded synced state of one networked entity. Nil
// fields were absent from the snapshot.
type EntityState struct {
	ID       esync.NetworkId
	Position *netcomponents.NetPositionData
	Velocity *netcomponents.NetVelocityData
	Player   *netcomponents.NetPlayerStateData
}

// WorldDelta is the payload the sync engine buffers: one decoded snapshot.
type WorldDelta struct {
	Tick         uint64
	TicksPerSend int
	Entities     []EntityState // sorted by ID
}

// Entity looks up an entity by network id.
func (d WorldDelta) Entity(id esync.NetworkId) (EntityState, bool) {
	i := sort.Search(len(d.Entities), func(i int) bool { return d.Entities[i].ID >= id })
	if i < len(d.Entities) && d.Entities[i].ID == id {
		return d.Entities[i], true
	}
	return EntityState{}, false
}

// RawEntity is an entity whose components have been deserialized but not yet sorted out.
type RawEntity struct {
	ID         esync.NetworkId
	Components []any
}

// DecodeSnapshot deserializes every component in snapshot and builds a WorldDelta.
func DecodeSnapshot(snapshot esync.WorldSnapshot) (WorldDelta, error) {
	raw := make([]RawEntity, 0, len(snapshot))
	for _, ent := range snapshot {
		components := make([]any, 0, len(ent.State))
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				return WorldDelta{}, fmt.Errorf("entity %d: deserialize component: %w", ent.Id, err)
			}
			components = append(components, instance)
		}
		raw = append(raw, RawEntity{ID: ent.Id, Components: components})
	}
	return BuildDelta(raw)
}

// BuildDelta sorts decoded components into a WorldDelta. The entity carrying
// NetServerTick supplies the tick and is not listed as an entity.
func BuildDelta(raw []RawEntity) (WorldDelta, error) {
	var delta WorldDelta
	haveTick := false

	for _, ent := range raw {
		state := EntityState{ID: ent.ID}
		isClock := false
		for _, data := range ent.Components {
			switch v := data.(type) {
			case netcomponents.NetServerTickData:
				delta.Tick, delta.TicksPerSend = v.Tick, v.TicksPerSend
				haveTick, isClock = true, true
			case *netcomponents.NetServerTickData:
				delta.Tick, delta.TicksPerSend = v.Tick, v.TicksPerSend
				haveTick, isClock = true, true
			case netcomponents.NetPositionData:
				state.Position = &v
			case *netcomponents.NetPositionData:
				cp := *v
				state.Position = &cp
			case netcomponents.NetVelocityData:
				state.Velocity = &v
			case *netcomponents.NetVelocityData:
				cp := *v
				state.Velocity = &cp
			case netcomponents.NetPlayerStateData:
				state.Player = &v
			case *netcomponents.NetPlayerStateData:
				cp := *v
				state.Player = &cp
			}
		}
		if !isClock {
			delta.Entities = append(delta.Entities, state)
		}
	}

	if !haveTick {
		return WorldDelta{}, ErrNoServerTick
	}
	sort.Slice(delta.Entities, func(i, j int) bool { return delta.Entities[i].ID < delta.Entities[j].ID })
	return delta, nil
}
