package netcomponents

import (
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetPlayerStateData struct {
	StateID      netconfig.StateID
	Direction    int    // -1 left, 1 right
	LastSequence uint32 // last input sequence the server applied, for reconciliation
	IsLocal      bool   // client-side only
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
