package netsync

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero ticks per send", func(c *Config) { c.NominalTicksPerSend = 0 }, ErrTicksPerSend},
		{"zero interval", func(c *Config) { c.NominalInterval = 0 }, ErrInterval},
		{"zero smoothing", func(c *Config) { c.RateSmoothingSamples = 0 }, ErrSmoothing},
		{"floor above one", func(c *Config) { c.DilationFloor = 1.5 }, ErrDilation},
		{"ceiling below one", func(c *Config) { c.DilationCeiling = 0.9 }, ErrDilation},
		{"negative depth", func(c *Config) { c.BufferDepthTicks = -1 }, ErrNegative},
		{"depth not past lead", func(c *Config) { c.BufferDepthTicks = 1 }, ErrBufferDepth},
		{"negative gain", func(c *Config) { c.DilationGain = -0.1 }, ErrNegative},
		{"negative frame cap", func(c *Config) { c.MaxFrameDelta = -1 }, ErrNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTargetLeadDefaultsToSendInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NominalTicksPerSend = 3
	if got := cfg.targetLead(); got != 3 {
		t.Fatalf("got %v, want 3", got)
	}
	cfg.TargetLeadTicks = 1.5
	if got := cfg.targetLead(); got != 1.5 {
		t.Fatalf("got %v, want 1.5", got)
	}
}

func TestBufferDepthScalesWithSendInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NominalTicksPerSend = 3
	if got := cfg.bufferDepth(); got != 6 {
		t.Fatalf("got depth %v, want 6", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("scaled defaults rejected: %v", err)
	}

	// A fixed depth no deeper than the lead renders past the newest snapshot.
	cfg.BufferDepthTicks = 2
	if err := cfg.Validate(); !errors.Is(err, ErrBufferDepth) {
		t.Fatalf("got %v, want ErrBufferDepth", err)
	}
	cfg.TargetLeadTicks = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("depth above an explicit lead rejected: %v", err)
	}
}
