package config

import (
	"errors"
	"log"
	"time"

	"github.com/automoto/doomerang-netsync/netsync"
)

// NetConfig contains the client sync tuning. Durations are in milliseconds
// so the struct round-trips through the saved tuning file unchanged.
type NetConfig struct {
	ServerAddress string `json:"-"`
	PlayerName    string `json:"-"`

	NominalTicksPerSend   int     `json:"nominalTicksPerSend"`
	NominalIntervalMs     int     `json:"nominalIntervalMs"`
	BufferDepthTicks      float64 `json:"bufferDepthTicks"` // 0 = two send intervals
	TargetLeadTicks       float64 `json:"targetLeadTicks"`  // 0 = one send interval
	RateSmoothingSamples  int     `json:"rateSmoothingSamples"`
	DilationGain          float64 `json:"dilationGain"`
	DilationDeadbandTicks float64 `json:"dilationDeadbandTicks"`
	DilationFloor         float64 `json:"dilationFloor"`
	DilationCeiling       float64 `json:"dilationCeiling"`
	MaxFrameDeltaMs       int     `json:"maxFrameDeltaMs"`

	// Client only, not part of the engine config.
	CorrectionEaseMs int  `json:"correctionEaseMs"`
	ShowDebug        bool `json:"showDebug"`
}

// Net is the global sync tuning.
var Net NetConfig

// EngineConfig maps the tuning onto a netsync.Config.
func (n NetConfig) EngineConfig() netsync.Config {
	return netsync.Config{
		NominalTicksPerSend:   n.NominalTicksPerSend,
		NominalInterval:       time.Duration(n.NominalIntervalMs) * time.Millisecond,
		BufferDepthTicks:      n.BufferDepthTicks,
		TargetLeadTicks:       n.TargetLeadTicks,
		RateSmoothingSamples:  n.RateSmoothingSamples,
		DilationGain:          n.DilationGain,
		DilationDeadbandTicks: n.DilationDeadbandTicks,
		DilationFloor:         n.DilationFloor,
		DilationCeiling:       n.DilationCeiling,
		MaxFrameDelta:         time.Duration(n.MaxFrameDeltaMs) * time.Millisecond,
	}
}

// SessionConfig is the engine config for a server announcing tickRate and
// ticksPerSend, which replace the nominal values. A tuned depth and lead that
// do not fit the announced send interval fall back to the derived defaults.
func (n NetConfig) SessionConfig(tickRate, ticksPerSend int) netsync.Config {
	tickRate, ticksPerSend = max(tickRate, 1), max(ticksPerSend, 1)

	c := n.EngineConfig()
	c.NominalTicksPerSend = ticksPerSend
	c.NominalInterval = time.Duration(ticksPerSend) * time.Second / time.Duration(tickRate)
	if err := c.Validate(); errors.Is(err, netsync.ErrBufferDepth) {
		log.Printf("[config] %v, deriving depth and lead from %d ticks per send", err, ticksPerSend)
		c.BufferDepthTicks, c.TargetLeadTicks = 0, 0
	}
	return c
}

func netDefaults() NetConfig {
	d := netsync.DefaultConfig()
	return NetConfig{
		ServerAddress:         "localhost:7373",
		PlayerName:            "player",
		NominalTicksPerSend:   d.NominalTicksPerSend,
		NominalIntervalMs:     int(d.NominalInterval / time.Millisecond),
		BufferDepthTicks:      d.BufferDepthTicks,
		TargetLeadTicks:       d.TargetLeadTicks,
		RateSmoothingSamples:  d.RateSmoothingSamples,
		DilationGain:          d.DilationGain,
		DilationDeadbandTicks: d.DilationDeadbandTicks,
		DilationFloor:         d.DilationFloor,
		DilationCeiling:       d.DilationCeiling,
		MaxFrameDeltaMs:       int(d.MaxFrameDelta / time.Millisecond),
		CorrectionEaseMs:      120,
	}
}

// CorrectionEase is how long a reconciliation snap takes to ease out.
func (n NetConfig) CorrectionEase() time.Duration {
	return time.Duration(n.CorrectionEaseMs) * time.Millisecond
}

func init() {
	Net = netDefaults()
}
