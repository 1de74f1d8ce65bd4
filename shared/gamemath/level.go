package gamemath

import (
	"github.com/automoto/doomerang-netsync/shared/leveldata"
	"github.com/automoto/doomerang-netsync/tags"
	"github.com/solarlune/resolv"
)

const spaceCellSize = 16

// NewLevelSpace builds a collision space from parsed level data. A nil level
// yields an empty space of the given fallback size.
func NewLevelSpace(data *leveldata.CollisionData, fallbackW, fallbackH int) *resolv.Space {
	if data == nil {
		return resolv.NewSpace(fallbackW, fallbackH, spaceCellSize, spaceCellSize)
	}
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, spaceCellSize, spaceCellSize)

	for _, r := range data.SolidRects {
		var obj *resolv.Object
		switch r.SlopeType {
		case tags.Slope45UpRight, tags.Slope45UpLeft:
			obj = resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvRamp, r.SlopeType)
		default:
			obj = resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvSolid)
		}
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(obj)
	}
	return space
}
