package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MelonSeo/trendstream-tui/internal/api"
	"github.com/MelonSeo/trendstream-tui/internal/config"
	"github.com/MelonSeo/trendstream-tui/internal/history"
	"github.com/MelonSeo/trendstream-tui/internal/query"
	"github.com/MelonSeo/trendstream-tui/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "trendstream:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	// optional .env next to the binary's working directory
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	timeout, err := cfg.API.GetTimeout()
	if err != nil {
		return err
	}
	client, err := api.NewClient(cfg.API.BaseURL, timeout, log)
	if err != nil {
		return err
	}

	ttl, err := cfg.Cache.GetTTL()
	if err != nil {
		return err
	}
	cache := query.New(ttl, nil, log)

	// the read-history store is a convenience; run without it if the
	// database cannot be opened
	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Warn().Err(err).Msg("history store unavailable")
		hist = nil
	} else {
		defer hist.Close()
	}

	log.Info().Str("base_url", cfg.API.BaseURL).Msg("starting")

	p := tea.NewProgram(tui.New(cfg, client, cache, hist, log))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newLogger writes JSON lines to the configured log file; the TUI
// owns the terminal, so nothing logs to stdout.
func newLogger(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}
