package main

import (
	"flag"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/automoto/doomerang-netsync/config"
	"github.com/automoto/doomerang-netsync/network"
	"github.com/automoto/doomerang-netsync/scenes"
	"github.com/automoto/doomerang-netsync/shared/leveldata"
	"github.com/automoto/doomerang-netsync/shared/protocol"
	"github.com/hajimehoshi/ebiten/v2"
)

const clientVersion = "0.1.0"

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func loadLevel(path string) (*leveldata.CollisionData, error) {
	if path == "" {
		return leveldata.DefaultArena(), nil
	}
	return leveldata.LoadCollisionData(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func main() {
	addr := flag.String("addr", config.Net.ServerAddress, "server address (host:port)")
	name := flag.String("name", config.Net.PlayerName, "player name")
	levelPath := flag.String("level", "", "TMX level file, must match the server's (default: built-in arena)")
	debug := flag.Bool("debug", false, "show the sync overlay")
	flag.Parse()

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	if err := config.InitPersistence("doomerang-netsync"); err != nil {
		log.Printf("Warning: %v", err)
	}
	if err := config.LoadTuning(); err != nil {
		log.Printf("Warning: %v", err)
	}
	if *debug {
		config.Net.ShowDebug = true
	}

	level, err := loadLevel(*levelPath)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	client := network.NewClient()
	client.Connect(*addr, clientVersion, *name)
	defer client.Disconnect()

	ebiten.SetWindowSize(config.C.Width*2, config.C.Height*2)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &Game{scene: scenes.NewNetworkedScene(client, level)}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
