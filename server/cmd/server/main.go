package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/doomerang-netsync/server/core"
	"github.com/automoto/doomerang-netsync/shared/netconfig"
	"github.com/automoto/doomerang-netsync/shared/protocol"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", netconfig.DefaultTickRate, "Server tick rate (simulation steps per second)")
	ticksPerSend := flag.Int("tickspersend", netconfig.DefaultTicksPerSend, "Ticks between world snapshots")
	name := flag.String("name", "Doomerang Server", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	maxPlayers := flag.Int("maxplayers", 8, "Maximum joined players (0 = unlimited)")
	levelPath := flag.String("level", "", "TMX level file (default: built-in arena)")
	flag.Parse()

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	level, err := core.LoadServerLevel(*levelPath)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	server, err := core.NewServer(core.Config{
		Name:         *name,
		Version:      *version,
		TickRate:     *tickRate,
		TicksPerSend: *ticksPerSend,
		MaxPlayers:   *maxPlayers,
	}, level)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting Doomerang server %q on port %d (tick rate: %d/s, snapshot every %d ticks, version: %s)",
		*name, *port, *tickRate, *ticksPerSend, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
