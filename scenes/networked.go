package scenes

import (
	"image/color"
	"log"
	"time"

	cfg "github.com/automoto/doomerang-netsync/config"
	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/netsync"
	"github.com/automoto/doomerang-netsync/shared/gamemath"
	"github.com/automoto/doomerang-netsync/shared/leveldata"
	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/automoto/doomerang-netsync/systems"
	"github.com/automoto/doomerang-netsync/systems/networld"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NetworkedScene runs one sync session against the server the client joined.
type NetworkedScene struct {
	ecsWorld  *ecs.ECS
	netClient *network.Client
	level     *leveldata.CollisionData
	now       func() time.Time

	engine     *netsync.Engine[network.WorldDelta]
	prediction *networld.NetPrediction
	worldSync  *networld.WorldSync
	frame      *networld.FrameInterpolation
	input      *networld.LocalInput
	camera     systems.Camera
	hud        systems.SyncHUD

	configured    bool
	paused        bool // engine paused by disconnect or the pause key
	resumePending bool
}

func NewNetworkedScene(client *network.Client, level *leveldata.CollisionData) *NetworkedScene {
	if level == nil {
		level = leveldata.DefaultArena()
	}
	return &NetworkedScene{
		netClient: client,
		level:     level,
		now:       time.Now,
		hud:       systems.SyncHUD{Show: cfg.Net.ShowDebug},
	}
}

func (ns *NetworkedScene) Update() {
	ns.hud.Client = ns.netClient.State()

	if !ns.configured {
		if ns.hud.Client != network.StateJoinedGame {
			return
		}
		if err := ns.configure(); err != nil {
			log.Printf("[networked] cannot start session: %v", err)
			ns.netClient.Disconnect()
			return
		}
	}

	ns.handleKeys()

	switch ns.hud.Client {
	case network.StateDisconnected, network.StateError:
		if !ns.paused {
			log.Println("[networked] connection lost, pausing sync")
			ns.pause()
		}
	}

	ns.feedPackets()

	out := ns.engine.Tick(ns.now())
	ns.hud.Output = out
	ns.hud.Stats = ns.engine.Stats()
	ns.hud.TickRate = ns.engine.ServerTickRate()
	ns.hud.Buffered = len(ns.engine.Buffered())
	ns.hud.Dropped = ns.netClient.Dropped()
	ns.hud.Corrections = ns.prediction.Corrections

	ns.ecsWorld.Update()
}

func (ns *NetworkedScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if ns.ecsWorld == nil {
		ebitenutil.DebugPrint(screen, ns.hud.Client.String()+"...")
		return
	}

	ns.ecsWorld.Draw(screen)
}

func (ns *NetworkedScene) configure() error {
	tickRate := ns.netClient.TickRate()
	ticksPerSend := ns.netClient.TicksPerSend()

	engineCfg := cfg.Net.SessionConfig(tickRate, ticksPerSend)

	ns.ecsWorld = ecs.NewECS(donburi.NewWorld())

	space := gamemath.NewLevelSpace(ns.level, 0, 0)
	spawn := ns.level.Spawn(0)
	ns.prediction = networld.NewNetPrediction(space, spawn.X, spawn.Y, gamemath.SubStepsPerTick(tickRate))
	ns.prediction.Smoother = networld.NewCorrectionSmoother(cfg.Net.CorrectionEase())

	localID := ns.netClient.NetworkID
	ns.worldSync = networld.NewWorldSync(ns.ecsWorld.World, localID, ns.prediction)
	ns.frame = networld.NewFrameInterpolation(localID, ns.prediction)
	ns.input = networld.NewLocalInput(ns.ecsWorld.World, ns.prediction, localID, systems.PollInput, ns.sendInput)

	engine, err := netsync.NewEngine(engineCfg, netsync.Hooks[network.WorldDelta]{
		World:     ns.worldSync,
		Renderer:  ns.frame,
		Predictor: ns.input,
	})
	if err != nil {
		return err
	}
	ns.engine = engine
	ns.engine.Start()

	ns.ecsWorld.AddSystem(ns.followLocal)
	ns.ecsWorld.AddRenderer(cfg.Default, systems.DrawLevel(ns.level, &ns.camera))
	ns.ecsWorld.AddRenderer(cfg.Default, systems.DrawNetworkedPlayers(ns.frame, &ns.camera))
	ns.ecsWorld.AddRenderer(cfg.HUD, systems.DrawSyncHUD(&ns.hud))

	ns.configured = true
	log.Printf("[networked] session started: %d Hz, %d ticks per send, %d substeps",
		tickRate, ticksPerSend, ns.prediction.SubSteps)
	return nil
}

func (ns *NetworkedScene) sendInput(input messages.PlayerInput) error {
	if ns.netClient.State() != network.StateJoinedGame {
		return network.ErrNotConnected
	}
	return ns.netClient.SendInput(input)
}

// feedPackets hands queued snapshots to the engine in arrival order. A
// pending resume seeds from the newest one.
func (ns *NetworkedScene) feedPackets() {
	packets := ns.netClient.DrainPackets()
	if len(packets) == 0 {
		return
	}

	if ns.resumePending {
		latest := packets[len(packets)-1]
		ns.prediction.Reset()
		ns.engine.Resume(toSnapshot(latest))
		ns.paused, ns.resumePending = false, false
		log.Printf("[networked] resumed at tick %d", latest.Delta.Tick)
		return
	}

	for _, p := range packets {
		ns.engine.OnPacket(p.At, toSnapshot(p))
	}
}

func toSnapshot(p network.Packet) netsync.Snapshot[network.WorldDelta] {
	return netsync.Snapshot[network.WorldDelta]{Tick: p.Delta.Tick, Payload: p.Delta, ReceivedAt: p.At}
}

func (ns *NetworkedScene) pause() {
	ns.engine.Pause()
	ns.paused = true
	ns.resumePending = false
}

func (ns *NetworkedScene) handleKeys() {
	if inpututil.IsKeyJustPressed(cfg.Input.ToggleDebug) {
		ns.hud.Show = !ns.hud.Show
		cfg.Net.ShowDebug = ns.hud.Show
	}
	if inpututil.IsKeyJustPressed(cfg.Input.SaveTuning) {
		if err := cfg.SaveTuning(); err != nil {
			log.Printf("[networked] %v", err)
		} else {
			log.Println("[networked] tuning saved")
		}
	}
	if inpututil.IsKeyJustPressed(cfg.Input.PauseKey) {
		switch {
		case !ns.paused:
			ns.pause()
		case ns.netClient.State() == network.StateJoinedGame:
			ns.resumePending = true
		}
	}
}

func (ns *NetworkedScene) followLocal(_ *ecs.ECS) {
	local, ok := ns.frame.Local()
	if !ok {
		return
	}
	ns.camera.Follow(
		local.X+gamemath.BodyWidth/2, local.Y+gamemath.BodyHeight/2,
		float64(ns.level.MapWidth), float64(ns.level.MapHeight),
	)
}
