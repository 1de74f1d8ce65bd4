package systems

import (
	"math"

	"github.com/automoto/doomerang-netsync/config"
)

// Camera follows the local player and clamps to the level bounds.
type Camera struct {
	X, Y   float64 // centre, world pixels
	placed bool
}

// Follow eases the camera toward the target centre. The first call snaps.
func (c *Camera) Follow(targetX, targetY, levelW, levelH float64) {
	screenW := float64(config.C.Width)
	screenH := float64(config.C.Height)

	minCameraX := screenW / 2
	maxCameraX := levelW - screenW/2
	minCameraY := screenH / 2
	maxCameraY := levelH - screenH/2

	if minCameraX > maxCameraX {
		minCameraX = levelW / 2
		maxCameraX = minCameraX
	}
	if minCameraY > maxCameraY {
		minCameraY = levelH / 2
		maxCameraY = minCameraY
	}

	targetX = math.Max(minCameraX, math.Min(maxCameraX, targetX))
	targetY = math.Max(minCameraY, math.Min(maxCameraY, targetY))

	if !c.placed {
		c.X, c.Y, c.placed = targetX, targetY, true
		return
	}
	c.X += (targetX - c.X) * config.Camera.FollowSmoothing
	c.Y += (targetY - c.Y) * config.Camera.FollowSmoothing
}

// Offset converts world coordinates to screen coordinates by subtraction.
func (c *Camera) Offset() (float32, float32) {
	return float32(c.X - float64(config.C.Width)/2), float32(c.Y - float64(config.C.Height)/2)
}
