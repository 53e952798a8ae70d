package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/config"
	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
	"github.com/ramonehamilton/MTG-Collection/internal/state"
	"github.com/ramonehamilton/MTG-Collection/internal/storage"
)

// Runtime is a fully wired application backed by the configured database
// and the live Scryfall API.
type Runtime struct {
	*Services
	Config  *config.Config
	Storage *storage.Service
}

// Open wires the application from cfg. The caller must Close it.
func Open(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbConfig := storage.DefaultConfig(dbPath)
	dbConfig.BusyTimeout = time.Duration(cfg.Storage.BusyTimeout) * time.Millisecond
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	storageService := storage.NewService(db, logger)

	rateLimit, _ := cfg.GetRateLimit()
	timeout, _ := cfg.GetRequestTimeout()
	debounce, _ := cfg.GetDebounce()
	client := scryfall.NewClient(
		scryfall.WithBaseURL(cfg.Scryfall.BaseURL),
		scryfall.WithUserAgent(cfg.Scryfall.UserAgent),
		scryfall.WithRateLimit(rateLimit),
		scryfall.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	dispatcher := events.NewEventDispatcher()
	if cfg.App.DebugMode {
		dispatcher.Register(events.NewLoggingObserver(true))
	}
	store := state.NewStore(storageService, dispatcher, logger)

	return &Runtime{
		Services: NewServices(store, client, dispatcher, Options{Debounce: debounce, Logger: logger}),
		Config:   cfg,
		Storage:  storageService,
	}, nil
}

// LoadOptions returns the initial card load settings from the config.
func (r *Runtime) LoadOptions() cardpool.LoadOptions {
	return cardpool.LoadOptions{
		Query:    r.Config.Scryfall.InitialQuery,
		MaxPages: r.Config.Scryfall.InitialPages,
	}
}

// Close stops background work and closes the database.
func (r *Runtime) Close() error {
	r.Services.Close()
	return r.Storage.Close()
}
