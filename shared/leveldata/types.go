// Package leveldata parses the collision part of TMX levels for the server
// simulation and client prediction. Pure data, no resolv or ebiten.
package leveldata

// Layer and object group names read from a TMX file.
const (
	CollisionLayer = "wg-tiles"
	SpawnGroup     = "PlayerSpawn"
)

// CollisionData holds the collision-relevant parts of one level.
type CollisionData struct {
	SolidRects  []SolidRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
}

// SolidRect is one solid tile. SlopeType is "", "45_up_right" or "45_up_left".
type SolidRect struct {
	X, Y, W, H float64
	SlopeType  string
}

type SpawnPoint struct {
	X, Y  float64
	Index int
}

// Spawn returns the spawn point for slot i, wrapping around, or a fallback
// when the level has none.
func (d *CollisionData) Spawn(i int) SpawnPoint {
	if d == nil || len(d.SpawnPoints) == 0 {
		return SpawnPoint{X: 100, Y: 100}
	}
	if i < 0 {
		i = -i
	}
	return d.SpawnPoints[i%len(d.SpawnPoints)]
}
