package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Behavior.TickRate.Duration != 250*time.Millisecond {
		t.Errorf("TickRate = %v", cfg.Behavior.TickRate)
	}
	if cfg.Behavior.PlaybackPollInterval.Duration != 5*time.Second {
		t.Errorf("PlaybackPollInterval = %v", cfg.Behavior.PlaybackPollInterval)
	}
	if cfg.Behavior.DevicePollInterval.Duration != 30*time.Second {
		t.Errorf("DevicePollInterval = %v", cfg.Behavior.DevicePollInterval)
	}
	if cfg.General.LogRingSize != 100 {
		t.Errorf("LogRingSize = %d", cfg.General.LogRingSize)
	}
	if cfg.Keys.Quit != "q" {
		t.Errorf("Quit = %q", cfg.Keys.Quit)
	}
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	in := `
[behavior]
tick_rate = "100ms"
idle_timeout = "2m"
volume_increment = 5

[keybindings]
next_track = "l"

[image]
protocol = "kitty"
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Behavior.TickRate.Duration != 100*time.Millisecond {
		t.Errorf("TickRate = %v", cfg.Behavior.TickRate)
	}
	if cfg.Behavior.IdleTimeout.Duration != 2*time.Minute {
		t.Errorf("IdleTimeout = %v", cfg.Behavior.IdleTimeout)
	}
	if cfg.Behavior.VolumeIncrement != 5 {
		t.Errorf("VolumeIncrement = %d", cfg.Behavior.VolumeIncrement)
	}
	if cfg.Keys.NextTrack != "l" {
		t.Errorf("NextTrack = %q", cfg.Keys.NextTrack)
	}
	if cfg.Image.Protocol != "kitty" {
		t.Errorf("Protocol = %q", cfg.Image.Protocol)
	}
	// Untouched sections keep their defaults.
	if cfg.Behavior.SeekMilliseconds != 5000 {
		t.Errorf("SeekMilliseconds = %d", cfg.Behavior.SeekMilliseconds)
	}
}

func TestDurationParsing(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"30", 30 * time.Second, false},
		{"0", 0, false},
		{"", 0, false},
		{"nonsense", 0, true},
		{"-3s", 0, true},
		{"-3", 0, true},
	}
	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalText([]byte(tt.in))
		if tt.wantErr {
			if err == nil {
				t.Errorf("UnmarshalText(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || d.Duration != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, %v", tt.in, d.Duration, err)
		}
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STRUM_PROTOCOL", "sixel")
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Image.Protocol != "sixel" {
		t.Errorf("Protocol = %q, want sixel", cfg.Image.Protocol)
	}
}
