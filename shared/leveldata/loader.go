package leveldata

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/lafriks/go-tiled"
)

// LoadCollisionData parses tmxPath from fsys. Pass os.DirFS for files on disk
// or an embed.FS for bundled levels.
func LoadCollisionData(fsys fs.FS, tmxPath string) (*CollisionData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &CollisionData{
		MapWidth:  levelMap.Width * levelMap.TileWidth,
		MapHeight: levelMap.Height * levelMap.TileHeight,
	}
	data.SolidRects = solidRects(levelMap)
	data.SpawnPoints = spawnPoints(levelMap)
	return data, nil
}

func solidRects(levelMap *tiled.Map) []SolidRect {
	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)

	var rects []SolidRect
	for _, layer := range levelMap.Layers {
		if layer.Name != CollisionLayer {
			continue
		}
		for i, tile := range layer.Tiles {
			if tile == nil || tile.IsNil() {
				continue
			}
			var slopeType string
			if tile.Tileset != nil {
				if tsTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					slopeType = tsTile.Properties.GetString("slope")
				}
			}
			rects = append(rects, SolidRect{
				X:         float64(i%levelMap.Width) * tileW,
				Y:         float64(i/levelMap.Width) * tileH,
				W:         tileW,
				H:         tileH,
				SlopeType: slopeType,
			})
		}
		break
	}
	return rects
}

// spawnPoints returns spawns sorted left to right so slot assignment is stable.
func spawnPoints(levelMap *tiled.Map) []SpawnPoint {
	var spawns []SpawnPoint
	for _, og := range levelMap.ObjectGroups {
		if og.Name != SpawnGroup {
			continue
		}
		for _, o := range og.Objects {
			spawns = append(spawns, SpawnPoint{
				X:     o.X,
				Y:     o.Y,
				Index: o.Properties.GetInt("spawnIndex"),
			})
		}
	}
	sort.Slice(spawns, func(i, j int) bool { return spawns[i].X < spawns[j].X })
	return spawns
}
