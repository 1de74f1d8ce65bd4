package systems

import (
	"fmt"
	"image/color"
	"strconv"

	cfg "github.com/automoto/doomerang-netsync/config"
	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/netsync"
	"github.com/automoto/doomerang-netsync/shared/gamemath"
	"github.com/automoto/doomerang-netsync/shared/leveldata"
	"github.com/automoto/doomerang-netsync/systems/networld"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/hako/durafmt"
	"github.com/yohamta/donburi/ecs"
)

// DrawLevel paints the level's solid tiles.
func DrawLevel(level *leveldata.CollisionData, cam *Camera) func(*ecs.ECS, *ebiten.Image) {
	return func(_ *ecs.ECS, screen *ebiten.Image) {
		if level == nil {
			return
		}
		ox, oy := cam.Offset()
		for _, r := range level.SolidRects {
			vector.DrawFilledRect(screen, float32(r.X)-ox, float32(r.Y)-oy, float32(r.W), float32(r.H), cfg.SolidGray, false)
		}
	}
}

// DrawNetworkedPlayers paints every entity of the last interpolated frame.
func DrawNetworkedPlayers(frame *networld.FrameInterpolation, cam *Camera) func(*ecs.ECS, *ebiten.Image) {
	const playerWidth, playerHeight = float32(gamemath.BodyWidth), float32(gamemath.BodyHeight)

	return func(_ *ecs.ECS, screen *ebiten.Image) {
		ox, oy := cam.Offset()
		for _, fe := range frame.Frame() {
			var rectColor color.RGBA
			if fe.Local {
				rectColor = cfg.BrightGreen
			} else {
				idx := int(fe.ID) % len(cfg.PlayerColors.Colors)
				rectColor = cfg.PlayerColors.Colors[idx]
			}

			x := float32(fe.X) - ox
			y := float32(fe.Y) - oy
			vector.DrawFilledRect(screen, x, y, playerWidth, playerHeight, rectColor, false)

			// Facing marker
			cx := x + playerWidth/2
			cy := y + playerHeight/3
			dir := float32(fe.Direction) * 6
			vector.DrawFilledRect(screen, cx+dir-2, cy-2, 4, 4, cfg.White, false)

			label := "ID:" + strconv.Itoa(int(fe.ID))
			ebitenutil.DebugPrintAt(screen, label, int(x)-len(label)*3+int(playerWidth)/2, int(y)-16)
		}
	}
}

// SyncHUD is what the scene publishes for the debug overlay each frame.
type SyncHUD struct {
	Show        bool
	Output      netsync.FrameOutput[network.WorldDelta]
	Stats       netsync.Stats
	TickRate    float64
	Buffered    int
	Dropped     uint64
	Corrections int
	Client      network.ClientState
}

// DrawSyncHUD prints the engine clock and counters.
func DrawSyncHUD(hud *SyncHUD) func(*ecs.ECS, *ebiten.Image) {
	return func(_ *ecs.ECS, screen *ebiten.Image) {
		if !hud.Show {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s", hud.Client, hud.Output.State), 4, 4)
			return
		}
		out := hud.Output
		lines := fmt.Sprintf(
			"%s / %s\nclient tick %.2f  snapshot %d\nbracket %d..%d  t=%.2f\n"+
				"server %.1f Hz  dilation %.3f  err %.2f\nbuffered %d  dropped %d\n"+
				"applied %d  rejected %d  steps %d  corrections %d\nlongest stall %s",
			hud.Client, out.State,
			out.Clock.ClientTick, out.Clock.CurrentSnapshotTick,
			out.Result.FromTick, out.Result.ToTick, out.Result.Fraction,
			hud.TickRate, out.Step.Dilation, out.Step.ErrorTicks,
			hud.Buffered, hud.Dropped,
			hud.Stats.Applied, hud.Stats.Rejected, hud.Stats.LocalSteps, hud.Corrections,
			durafmt.Parse(hud.Stats.LongestStall).LimitFirstN(2),
		)
		ebitenutil.DebugPrintAt(screen, lines, 4, 4)
	}
}
