package netcomponents

import "github.com/yohamta/donburi"

// NetServerTickData stamps a world snapshot with the server tick it was
// produced at. The server keeps exactly one entity carrying it.
type NetServerTickData struct {
	Tick         uint64
	TicksPerSend int
}

var NetServerTick = donburi.NewComponentType[NetServerTickData]()
