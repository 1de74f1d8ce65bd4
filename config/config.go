package config

import (
	"image/color"

	"github.com/yohamta/donburi/ecs"
)

// Config holds window settings for the client.
type Config struct {
	Width  int
	Height int
	Title  string
}

// C is the global window configuration.
var C *Config

// Render layers
const (
	Default ecs.LayerID = iota
	HUD
)

// PlayerColorsConfig lists the fill colours for remote players, cycled in network id order.
type PlayerColorsConfig struct {
	Colors []color.RGBA
}

var PlayerColors PlayerColorsConfig

// CameraConfig contains camera follow settings
type CameraConfig struct {
	FollowSmoothing float64 // Fraction of the remaining distance closed per frame
}

var Camera CameraConfig

// Shared RGBA color constants
var (
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow      = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange      = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	BrightGreen = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	LightGreen  = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	Blue        = color.RGBA{R: 0, G: 100, B: 255, A: 255}
	Purple      = color.RGBA{R: 128, G: 0, B: 255, A: 255}
	Magenta     = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	SolidGray   = color.RGBA{R: 70, G: 70, B: 80, A: 255}
	LightBlue   = color.RGBA{R: 100, G: 180, B: 255, A: 255}
)

func init() {
	C = &Config{
		Width:  640,
		Height: 360,
		Title:  "doomerang netsync",
	}

	Camera = CameraConfig{
		FollowSmoothing: 0.1,
	}

	PlayerColors = PlayerColorsConfig{
		Colors: []color.RGBA{Orange, LightBlue, Magenta, Yellow, Purple, Red, Blue},
	}
}
