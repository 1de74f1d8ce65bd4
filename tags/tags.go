package tags

import "github.com/yohamta/donburi"

var (
	Player      = donburi.NewTag().SetName("Player")
	ServerClock = donburi.NewTag().SetName("ServerClock")
)

// Resolv tags for physics collision
const (
	ResolvSolid  = "solid"
	ResolvRamp   = "ramp"
	ResolvPlayer = "Player"

	// Slope type tags
	Slope45UpRight = "45_up_right"
	Slope45UpLeft  = "45_up_left"
)
