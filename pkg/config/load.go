package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/strum/config.toml
//  2. ~/.config/strum/config.toml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	paths := configSearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), "strum")

	return &Config{
		General: GeneralConfig{
			LogLevel:    "info",
			LogFile:     filepath.Join(cacheDir, "strum.log"),
			CacheDir:    cacheDir,
			LogRingSize: 100,
		},
		Behavior: BehaviorConfig{
			TickRate:             Duration{250 * time.Millisecond},
			PlaybackPollInterval: Duration{5 * time.Second},
			DevicePollInterval:   Duration{30 * time.Second},
			IdleTimeout:          Duration{60 * time.Second},
			ToggleCooldown:       Duration{500 * time.Millisecond},
			VolumeIncrement:      10,
			SeekMilliseconds:     5000,
			SearchLimit:          20,
		},
		Keys: KeysConfig{
			Quit:          "q",
			Back:          "backspace",
			Search:        "/",
			Help:          "?",
			ToggleTrack:   " ",
			NextTrack:     "n",
			PreviousTrack: "p",
			Shuffle:       "ctrl+s",
			Repeat:        "ctrl+r",
			VolumeUp:      "+",
			VolumeDown:    "-",
			SeekForward:   ">",
			SeekBackward:  "<",
			JumpToAlbum:   "a",
			JumpToArtist:  "A",
			Devices:       "d",
			BasicView:     "B",
			LogView:       "L",
			Analysis:      "v",
		},
		Theme: ThemeConfig{
			Active:    "36",
			Hovered:   "105",
			Inactive:  "240",
			Text:      "252",
			Banner:    "36",
			Error:     "196",
			Playbar:   "36",
			Selection: "105",
		},
		Image: ImageConfig{
			Protocol:       "auto",
			Enabled:        true,
			MaxCacheSizeMB: 50,
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRUM_PROTOCOL"); v != "" {
		cfg.Image.Protocol = v
	}
	if v := os.Getenv("STRUM_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("STRUM_CACHE_DIR"); v != "" {
		cfg.General.CacheDir = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "strum", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "strum", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
