package leveldata

import "github.com/automoto/doomerang-netsync/tags"

const arenaTile = 16

// DefaultArena is the built-in level used when no TMX file is given. Server
// and client build it identically so prediction matches the simulation.
func DefaultArena() *CollisionData {
	const cols, rows = 80, 30
	d := &CollisionData{
		MapWidth:  cols * arenaTile,
		MapHeight: rows * arenaTile,
	}

	solid := func(col, row int, slope string) {
		d.SolidRects = append(d.SolidRects, SolidRect{
			X: float64(col * arenaTile), Y: float64(row * arenaTile),
			W: arenaTile, H: arenaTile,
			SlopeType: slope,
		})
	}

	// Floor and side walls
	for col := 0; col < cols; col++ {
		solid(col, rows-1, "")
	}
	for row := 0; row < rows-1; row++ {
		solid(0, row, "")
		solid(cols-1, row, "")
	}

	// Two ledges
	for col := 12; col < 22; col++ {
		solid(col, rows-7, "")
	}
	for col := 50; col < 62; col++ {
		solid(col, rows-10, "")
	}

	// A short hill, up then down
	for i := 0; i < 3; i++ {
		solid(30+i, rows-2-i, tags.Slope45UpRight)
		solid(36-i, rows-2-i, tags.Slope45UpLeft)
	}
	solid(33, rows-4, "")

	for i, col := range []int{6, 26, 44, 70} {
		d.SpawnPoints = append(d.SpawnPoints, SpawnPoint{
			X:     float64(col * arenaTile),
			Y:     float64((rows - 4) * arenaTile),
			Index: i,
		})
	}
	return d
}
