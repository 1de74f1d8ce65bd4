package protocol

import (
	"fmt"

	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition    uint = 10
	SyncIDNetVelocity    uint = 11
	SyncIDNetPlayerState uint = 12
	SyncIDNetServerTick  uint = 16
)

// RegisterComponents registers every synced component with necs. Both server
// and client must call it before any network traffic.
//
// No component carries an esync interpolation function: the client
// interpolates whole snapshots keyed by server tick instead.
func RegisterComponents() error {
	if err := esync.RegisterComponent(SyncIDNetPosition, netcomponents.NetPositionData{}, netcomponents.NetPosition); err != nil {
		return fmt.Errorf("register position: %w", err)
	}
	if err := esync.RegisterComponent(SyncIDNetVelocity, netcomponents.NetVelocityData{}, netcomponents.NetVelocity); err != nil {
		return fmt.Errorf("register velocity: %w", err)
	}
	if err := esync.RegisterComponent(SyncIDNetPlayerState, netcomponents.NetPlayerStateData{}, netcomponents.NetPlayerState); err != nil {
		return fmt.Errorf("register player state: %w", err)
	}
	if err := esync.RegisterComponent(SyncIDNetServerTick, netcomponents.NetServerTickData{}, netcomponents.NetServerTick); err != nil {
		return fmt.Errorf("register server tick: %w", err)
	}
	return nil
}
