package netcomponents

import "github.com/yohamta/donburi"

// NetPositionData is the top-left corner of a networked body in world pixels.
type NetPositionData struct {
	X, Y float64
}

var NetPosition = donburi.NewComponentType[NetPositionData]()

// LerpNetPosition blends from toward to by t in [0, 1].
func LerpNetPosition(from, to NetPositionData, t float64) *NetPositionData {
	return &NetPositionData{
		X: from.X + (to.X-from.X)*t,
		Y: from.Y + (to.Y-from.Y)*t,
	}
}
