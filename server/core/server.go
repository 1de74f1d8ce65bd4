package core

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/doomerang-netsync/shared/gamemath"
	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/automoto/doomerang-netsync/shared/netcomponents"
	"github.com/automoto/doomerang-netsync/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

const commandQueueSize = 256

var (
	ErrTickRate     = errors.New("tick rate must be positive")
	ErrTicksPerSend = errors.New("ticks per send must be positive")
)

// Config holds the server's simulation and identity settings.
type Config struct {
	Name         string
	Version      string // required client version, empty accepts any
	TickRate     int
	TicksPerSend int
	MaxPlayers   int // zero means unlimited
}

func (c Config) validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("server config: %w (got %d)", ErrTickRate, c.TickRate)
	}
	if c.TicksPerSend <= 0 {
		return fmt.Errorf("server config: %w (got %d)", ErrTicksPerSend, c.TicksPerSend)
	}
	return nil
}

// Server manages the game state and client connections. Router callbacks
// only queue commands; the world is touched from the game loop alone.
type Server struct {
	cfg       Config
	world     donburi.World
	level     *ServerLevel
	loop      *GameLoop
	transport *transports.WsServerTransport
	commands  chan func()

	clock   donburi.Entity
	tick    uint64
	players map[*router.NetworkClient]*player
	joined  int

	mu          sync.RWMutex
	playerCount int
}

type player struct {
	entity  donburi.Entity
	netID   esync.NetworkId
	name    string
	physics *PlayerPhysics
}

// NewServer creates a new game server. Components must already be registered.
func NewServer(cfg Config, level *ServerLevel) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if level == nil {
		level = NewServerLevel(nil)
	}

	world := donburi.NewWorld()
	s := &Server{
		cfg:      cfg,
		world:    world,
		level:    level,
		commands: make(chan func(), commandQueueSize),
		players:  make(map[*router.NetworkClient]*player),
	}
	s.loop = NewGameLoop(s, cfg.TickRate, cfg.TicksPerSend)

	// Set up the world for esync
	srvsync.UseEsync(world)

	// The clock entity stamps every snapshot with the tick it was taken at.
	s.clock = world.Create(netcomponents.NetServerTick, tags.ServerClock)
	netcomponents.NetServerTick.SetValue(world.Entry(s.clock), netcomponents.NetServerTickData{
		TicksPerSend: cfg.TicksPerSend,
	})
	if err := srvsync.NetworkSync(world, &s.clock, netcomponents.NetServerTick); err != nil {
		return nil, fmt.Errorf("sync server clock: %w", err)
	}

	s.setupRouterCallbacks()
	return s, nil
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.enqueue(func() { s.onDisconnect(client, err) })
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.enqueue(func() { s.onJoin(client, req) })
	})

	router.On(func(client *router.NetworkClient, input messages.PlayerInput) {
		s.enqueue(func() { s.onPlayerInput(client, input) })
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) enqueue(cmd func()) {
	select {
	case s.commands <- cmd:
	default:
		log.Println("[server] command queue full, dropping message")
	}
}

// ProcessCommands runs every queued router command on the loop goroutine.
func (s *Server) ProcessCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd()
		default:
			return
		}
	}
}

func (s *Server) onJoin(client *router.NetworkClient, req messages.JoinRequest) {
	if _, ok := s.players[client]; ok {
		return
	}
	if reason := s.rejectReason(req); reason != "" {
		log.Printf("[server] rejecting %s: %s", client.Id(), reason)
		if err := client.SendMessage(messages.JoinRejected{Reason: reason}); err != nil {
			log.Printf("[server] send reject: %v", err)
		}
		return
	}

	spawn := s.level.Data.Spawn(s.joined)
	s.joined++

	entity := s.world.Create(
		netcomponents.NetPosition,
		netcomponents.NetVelocity,
		netcomponents.NetPlayerState,
		tags.Player,
	)
	phys := newPlayerPhysics(s.level, spawn.X, spawn.Y)
	s.writePlayer(s.world.Entry(entity), phys)

	if err := srvsync.NetworkSync(s.world, &entity,
		netcomponents.NetPosition,
		netcomponents.NetVelocity,
		netcomponents.NetPlayerState,
	); err != nil {
		log.Printf("[server] failed to set up network sync for player: %v", err)
		s.world.Remove(entity)
		return
	}

	netID := esync.GetNetworkId(s.world.Entry(entity))
	if netID == nil {
		log.Printf("[server] player entity has no network id")
		s.world.Remove(entity)
		return
	}

	s.players[client] = &player{entity: entity, netID: *netID, name: req.PlayerName, physics: phys}
	s.setPlayerCount(len(s.players))

	err := client.SendMessage(messages.JoinAccepted{
		NetworkID:    *netID,
		ServerName:   s.cfg.Name,
		TickRate:     s.cfg.TickRate,
		TicksPerSend: s.cfg.TicksPerSend,
	})
	if err != nil {
		log.Printf("[server] send join accepted: %v", err)
	}
	log.Printf("[server] %q joined as %d at (%.0f, %.0f)", req.PlayerName, *netID, spawn.X, spawn.Y)
}

func (s *Server) rejectReason(req messages.JoinRequest) string {
	if s.cfg.Version != "" && req.Version != s.cfg.Version {
		return fmt.Sprintf("version mismatch: server %s, client %s", s.cfg.Version, req.Version)
	}
	if s.cfg.MaxPlayers > 0 && len(s.players) >= s.cfg.MaxPlayers {
		return "server full"
	}
	return ""
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("[server] client %s disconnected", client.Id())
	}

	p, ok := s.players[client]
	if !ok {
		return
	}
	delete(s.players, client)
	s.setPlayerCount(len(s.players))

	s.level.Space.Remove(p.physics.Body.Object)
	if s.world.Valid(p.entity) {
		s.world.Remove(p.entity)
	}
}

func (s *Server) onPlayerInput(client *router.NetworkClient, input messages.PlayerInput) {
	if p, ok := s.players[client]; ok {
		p.physics.Enqueue(input)
	}
}

// Step advances the simulation by one tick and stamps the clock.
func (s *Server) Step() {
	s.ProcessCommands()
	s.tick++

	subSteps := gamemath.SubStepsPerTick(s.cfg.TickRate)
	for _, p := range s.players {
		p.physics.Advance(subSteps)
		if s.world.Valid(p.entity) {
			s.writePlayer(s.world.Entry(p.entity), p.physics)
		}
	}

	clock := netcomponents.NetServerTick.Get(s.world.Entry(s.clock))
	clock.Tick = s.tick
}

func (s *Server) writePlayer(entry *donburi.Entry, phys *PlayerPhysics) {
	pos, vel, state := phys.State()
	netcomponents.NetPosition.SetValue(entry, pos)
	netcomponents.NetVelocity.SetValue(entry, vel)
	netcomponents.NetPlayerState.SetValue(entry, state)
}

// Tick returns the current server tick.
func (s *Server) Tick() uint64 { return s.tick }

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

func (s *Server) setPlayerCount(n int) {
	s.mu.Lock()
	s.playerCount = n
	s.mu.Unlock()
}

// PlayerCount returns the number of joined players. Safe from any goroutine.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerCount
}
