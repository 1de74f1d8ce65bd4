package core

import (
	"log"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

type GameLoop struct {
	server       *Server
	tickRate     int
	ticksPerSend int
	stopChan     chan struct{}
	sync         func() error
}

func NewGameLoop(server *Server, tickRate, ticksPerSend int) *GameLoop {
	return &GameLoop{
		server:       server,
		tickRate:     tickRate,
		ticksPerSend: ticksPerSend,
		stopChan:     make(chan struct{}),
		sync:         srvsync.DoSync,
	}
}

func (g *GameLoop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[server] game loop started at %d ticks/second, snapshot every %d ticks", g.tickRate, g.ticksPerSend)

	for {
		select {
		case <-g.stopChan:
			log.Println("[server] game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) Stop() {
	close(g.stopChan)
}

func (g *GameLoop) tick() {
	g.server.Step()

	if !shouldSend(g.server.Tick(), g.ticksPerSend) {
		return
	}
	if err := g.sync(); err != nil {
		log.Printf("[server] sync error: %v", err)
	}
}

// shouldSend reports whether a snapshot goes out after tick.
func shouldSend(tick uint64, ticksPerSend int) bool {
	if ticksPerSend <= 1 {
		return true
	}
	return tick%uint64(ticksPerSend) == 0
}
