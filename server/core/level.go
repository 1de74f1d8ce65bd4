package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/automoto/doomerang-netsync/shared/gamemath"
	"github.com/automoto/doomerang-netsync/shared/leveldata"
	"github.com/solarlune/resolv"
)

// ServerLevel holds the server's collision space and spawn data for a level.
type ServerLevel struct {
	Data  *leveldata.CollisionData
	Space *resolv.Space
}

// NewServerLevel builds a resolv.Space from parsed collision data.
func NewServerLevel(data *leveldata.CollisionData) *ServerLevel {
	if data == nil {
		data = leveldata.DefaultArena()
	}
	log.Printf("[server] level: %d solid tiles, %d spawn points, %dx%d map",
		len(data.SolidRects), len(data.SpawnPoints), data.MapWidth, data.MapHeight)

	return &ServerLevel{
		Data:  data,
		Space: gamemath.NewLevelSpace(data, 0, 0),
	}
}

// LoadServerLevel reads a TMX file from disk. An empty path selects the
// built-in arena.
func LoadServerLevel(path string) (*ServerLevel, error) {
	if path == "" {
		return NewServerLevel(nil), nil
	}
	data, err := leveldata.LoadCollisionData(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load server level: %w", err)
	}
	return NewServerLevel(data), nil
}
