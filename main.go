// strum is a terminal client for a music streaming service.
//
// It renders the library, playlists, search and playback state as a
// Bubbletea TUI, talks to the service's web API from a background worker,
// and shows cover art inline when the terminal supports it.
//
// Usage:
//
//	strum [flags]
//
// Flags:
//
//	-config string     Path to config.toml (default: XDG config search)
//	-client string     Path to client.yml with the API credentials
//	-tick-rate duration Render loop heartbeat (overrides config)
//	-no-cover          Disable cover art rendering
//	-verbose        Enable verbose logging (also mirrors the log to stderr)
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/strum/pkg/art"
	"gitlab.com/tinyland/lab/strum/pkg/config"
	"gitlab.com/tinyland/lab/strum/pkg/creds"
	"gitlab.com/tinyland/lab/strum/pkg/remote"
	"gitlab.com/tinyland/lab/strum/pkg/state"
	"gitlab.com/tinyland/lab/strum/pkg/ui"
	"gitlab.com/tinyland/lab/strum/pkg/worker"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// minWidth and minHeight are the smallest terminal the layout survives.
const (
	minWidth  = 60
	minHeight = 16
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to config.toml")
		clientPath  = flag.String("client", "", "Path to client.yml with the API credentials")
		tickRate    = flag.Duration("tick-rate", 0, "Render loop heartbeat (overrides config)")
		noCover     = flag.Bool("no-cover", false, "Disable cover art rendering")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("strum %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "strum is interactive and needs a terminal")
		os.Exit(1)
	}
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil && (w < minWidth || h < minHeight) {
		fmt.Fprintf(os.Stderr, "terminal %dx%d is too small, need at least %dx%d\n", w, h, minWidth, minHeight)
		os.Exit(1)
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *tickRate > 0 {
		cfg.Behavior.TickRate.Duration = *tickRate
	}

	// Setup logging. The terminal belongs to the TUI, so the log goes to a
	// file; -verbose mirrors it to stderr for debugging outside altscreen.
	if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logLevel := slog.LevelInfo
	if cfg.General.LogLevel == "debug" || *verbose {
		logLevel = slog.LevelDebug
	}
	var logWriter io.Writer = logFile
	if *verbose {
		logWriter = io.MultiWriter(logFile, os.Stderr)
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// API credentials and the stored session token.
	if *clientPath == "" {
		*clientPath, err = creds.DefaultClientPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot locate client credentials: %v\n", err)
			os.Exit(1)
		}
	}
	cc, err := creds.LoadClient(*clientPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load client credentials: %v\n\n%s\n", err, clientSetupHelp(*clientPath))
		os.Exit(1)
	}

	store, err := creds.OpenTokenStore(filepath.Join(cfg.General.CacheDir, "token.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open token store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := remote.New(cc.ClientID, cc.ClientSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tok, err := loadToken(ctx, store, client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, tokenSetupHelp())
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	// Cover art renderer, if the terminal and config allow it.
	var artm *art.Manager
	if cfg.Image.Enabled && !*noCover {
		artm = art.NewManager(cfg.Image.Protocol, cfg.Image.MaxCacheSizeMB)
		if !artm.Enabled() {
			logger.Debug("terminal has no usable graphics protocol, cover art off")
			artm = nil
		}
	}

	app := state.New(logger, 64, cfg.General.LogRingSize)
	app.SetTokenExpiry(tok.ExpiresAt)

	w := worker.New(app, client, artRenderer(artm), logger)
	w.SaveToken = store.Save

	model := ui.New(app, cfg, artm)
	p := tea.NewProgram(model, tea.WithAltScreen())
	w.Notify = func() { p.Send(ui.RefreshMsg{}) }

	go w.Run(ctx)

	logger.Info("starting strum", "version", version, "config", *configPath)
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		os.Exit(1)
	}
}

// artRenderer converts the optional manager into the worker's interface
// without smuggling a typed nil in.
func artRenderer(m *art.Manager) worker.ArtRenderer {
	if m == nil {
		return nil
	}
	return m
}

// loadToken pulls the stored session token, seeding the store from
// STRUM_REFRESH_TOKEN on first run, and refreshes it when stale.
func loadToken(ctx context.Context, store *creds.TokenStore, client *remote.Client) (remote.Token, error) {
	tok, err := store.Load()
	switch {
	case errors.Is(err, creds.ErrNoToken):
		seed := os.Getenv("STRUM_REFRESH_TOKEN")
		if seed == "" {
			return remote.Token{}, errors.New("no session token stored")
		}
		tok = remote.Token{RefreshToken: seed}
	case err != nil:
		return remote.Token{}, fmt.Errorf("failed to read token store: %w", err)
	}

	client.SetToken(tok)
	if tok.AccessToken != "" && !tok.Expired(time.Now()) {
		return tok, nil
	}

	tok, err = client.Refresh(ctx)
	if err != nil {
		return remote.Token{}, fmt.Errorf("token refresh failed: %w", err)
	}
	if err := store.Save(tok); err != nil {
		return remote.Token{}, fmt.Errorf("failed to persist token: %w", err)
	}
	return tok, nil
}

func clientSetupHelp(path string) string {
	return fmt.Sprintf(`Create %s with your application credentials:

  client_id: "your-client-id"
  client_secret: "your-client-secret"
  port: %d`, path, creds.DefaultPort)
}

func tokenSetupHelp() string {
	return `No session token found. Authorize the application once and export the
refresh token before the first run:

  export STRUM_REFRESH_TOKEN="your-refresh-token"

strum stores the refreshed token afterwards, so the variable is only
needed once.`
}
