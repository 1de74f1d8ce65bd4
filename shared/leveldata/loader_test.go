package leveldata

import (
	"testing"
	"testing/fstest"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="3">
 <tileset firstgid="1" name="ground" tilewidth="16" tileheight="16" tilecount="2" columns="2">
  <tile id="1">
   <properties>
    <property name="slope" value="45_up_right"/>
   </properties>
  </tile>
 </tileset>
 <layer id="1" name="wg-tiles" width="3" height="2">
  <data encoding="csv">
0,0,0,
1,2,1
</data>
 </layer>
 <objectgroup id="2" name="PlayerSpawn">
  <object id="1" x="40" y="10">
   <properties>
    <property name="spawnIndex" type="int" value="1"/>
   </properties>
  </object>
  <object id="2" x="8" y="10"/>
 </objectgroup>
</map>
`

func TestLoadCollisionData(t *testing.T) {
	fsys := fstest.MapFS{"levels/test.tmx": {Data: []byte(testTMX)}}

	data, err := LoadCollisionData(fsys, "levels/test.tmx")
	if err != nil {
		t.Fatalf("LoadCollisionData: %v", err)
	}
	if data.MapWidth != 48 || data.MapHeight != 32 {
		t.Fatalf("got map %dx%d, want 48x32", data.MapWidth, data.MapHeight)
	}
	if len(data.SolidRects) != 3 {
		t.Fatalf("got %d solid rects, want 3", len(data.SolidRects))
	}
	for i, r := range data.SolidRects {
		if r.X != float64(i*16) || r.Y != 16 || r.W != 16 || r.H != 16 {
			t.Errorf("rect %d: got %+v", i, r)
		}
	}
	if data.SolidRects[1].SlopeType != "45_up_right" {
		t.Errorf("got slope %q, want 45_up_right", data.SolidRects[1].SlopeType)
	}

	if len(data.SpawnPoints) != 2 {
		t.Fatalf("got %d spawns, want 2", len(data.SpawnPoints))
	}
	if data.SpawnPoints[0].X != 8 || data.SpawnPoints[1].X != 40 || data.SpawnPoints[1].Index != 1 {
		t.Fatalf("spawns not sorted left to right: %+v", data.SpawnPoints)
	}
}

func TestLoadCollisionDataMissingFile(t *testing.T) {
	if _, err := LoadCollisionData(fstest.MapFS{}, "levels/nope.tmx"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSpawnWrapsAndFallsBack(t *testing.T) {
	var empty *CollisionData
	if got := empty.Spawn(3); got.X != 100 || got.Y != 100 {
		t.Fatalf("got fallback %+v", got)
	}
	d := &CollisionData{SpawnPoints: []SpawnPoint{{X: 1}, {X: 2}}}
	if got := d.Spawn(3); got.X != 2 {
		t.Fatalf("got %+v, want X=2", got)
	}
}
