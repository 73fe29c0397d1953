package config

// Config is the root of config.toml.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Behavior BehaviorConfig `toml:"behavior"`
	Keys     KeysConfig     `toml:"keybindings"`
	Theme    ThemeConfig    `toml:"theme"`
	Image    ImageConfig    `toml:"image"`
}

// GeneralConfig covers paths and diagnostics.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	CacheDir string `toml:"cache_dir"`
	// LogRingSize bounds the in-app event log shown on the log screen.
	LogRingSize int `toml:"log_ring_size"`
}

// BehaviorConfig tunes the event loop and playback controls.
type BehaviorConfig struct {
	// TickRate is the render-loop heartbeat.
	TickRate Duration `toml:"tick_rate"`
	// PlaybackPollInterval is how often the player snapshot is refreshed.
	PlaybackPollInterval Duration `toml:"playback_poll_interval"`
	// DevicePollInterval is how often the device list is refreshed.
	DevicePollInterval Duration `toml:"device_poll_interval"`
	// IdleTimeout flips the UI into the full-screen cover view.
	IdleTimeout Duration `toml:"idle_timeout"`
	// ToggleCooldown suppresses repeated play/pause inside this window.
	ToggleCooldown Duration `toml:"toggle_cooldown"`
	// VolumeIncrement is the percent step for volume keys.
	VolumeIncrement int `toml:"volume_increment"`
	// SeekMilliseconds is the step for seek keys.
	SeekMilliseconds int `toml:"seek_milliseconds"`
	// SearchLimit caps items per search quadrant.
	SearchLimit int `toml:"search_limit"`
}

// KeysConfig maps actions to single keys. Values are bubbletea key strings.
type KeysConfig struct {
	Quit          string `toml:"quit"`
	Back          string `toml:"back"`
	Search        string `toml:"search"`
	Help          string `toml:"help"`
	ToggleTrack   string `toml:"toggle_playback"`
	NextTrack     string `toml:"next_track"`
	PreviousTrack string `toml:"previous_track"`
	Shuffle       string `toml:"shuffle"`
	Repeat        string `toml:"repeat"`
	VolumeUp      string `toml:"volume_up"`
	VolumeDown    string `toml:"volume_down"`
	SeekForward   string `toml:"seek_forward"`
	SeekBackward  string `toml:"seek_backward"`
	JumpToAlbum   string `toml:"jump_to_album"`
	JumpToArtist  string `toml:"jump_to_artist"`
	Devices       string `toml:"devices"`
	BasicView     string `toml:"basic_view"`
	LogView       string `toml:"log_view"`
	Analysis      string `toml:"analysis"`
}

// ThemeConfig holds the handful of colors the screens use. Values are
// lipgloss-compatible (named, ANSI index, or hex).
type ThemeConfig struct {
	Active    string `toml:"active"`
	Hovered   string `toml:"hovered"`
	Inactive  string `toml:"inactive"`
	Text      string `toml:"text"`
	Banner    string `toml:"banner"`
	Error     string `toml:"error"`
	Playbar   string `toml:"playbar"`
	Selection string `toml:"selection"`
}

// ImageConfig controls cover-art rendering.
type ImageConfig struct {
	// Protocol forces a terminal graphics protocol: "auto", "kitty",
	// "iterm2", "sixel" or "halfblocks".
	Protocol string `toml:"protocol"`
	// Enabled turns cover art off entirely when false.
	Enabled bool `toml:"enabled"`
	// MaxCacheSizeMB bounds the in-memory cache of rendered covers.
	MaxCacheSizeMB int `toml:"max_cache_size_mb"`
}
