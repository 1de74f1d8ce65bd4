package leveldata

import "testing"

func TestDefaultArenaSpawnsInsideMap(t *testing.T) {
	d := DefaultArena()
	if len(d.SpawnPoints) == 0 {
		t.Fatal("arena has no spawn points")
	}
	for _, sp := range d.SpawnPoints {
		if sp.X <= 0 || sp.Y <= 0 || sp.X >= float64(d.MapWidth) || sp.Y >= float64(d.MapHeight) {
			t.Fatalf("spawn %+v outside %dx%d map", sp, d.MapWidth, d.MapHeight)
		}
		for _, r := range d.SolidRects {
			if sp.X >= r.X && sp.X < r.X+r.W && sp.Y >= r.Y && sp.Y < r.Y+r.H {
				t.Fatalf("spawn %+v inside solid %+v", sp, r)
			}
		}
	}
}

func TestDefaultArenaHasFloor(t *testing.T) {
	d := DefaultArena()
	floorY := float64(d.MapHeight - arenaTile)
	covered := 0.0
	for _, r := range d.SolidRects {
		if r.Y == floorY {
			covered += r.W
		}
	}
	if covered != float64(d.MapWidth) {
		t.Fatalf("floor covers %v of %d pixels", covered, d.MapWidth)
	}
}
