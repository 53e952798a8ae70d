// Package main provides the standalone REST API server. It serves the
// collection manager over HTTP and WebSocket and, when configured, imports
// CSV files dropped into a watch folder.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/api"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/config"
	"github.com/ramonehamilton/MTG-Collection/internal/version"
)

var (
	configPath  = flag.String("config", "", "Config file path (default: ~/.mtg-collection/config.toml)")
	port        = flag.Int("port", 0, "API server port (overrides config)")
	dbPath      = flag.String("db-path", "", "Database path (overrides config)")
	watchDir    = flag.String("watch-dir", "", "Folder to watch for CSV imports (overrides config)")
	openBrowser = flag.String("open", "", "Frontend URL to open once the server is up")
	debug       = flag.Bool("debug", false, "Enable verbose debug logging")
)

func main() {
	flag.Parse()

	fmt.Printf("%s - REST API Server\n", version.String())
	fmt.Println("==================================")
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rt, err := app.Open(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open application: %v", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Printf("Error closing application: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.Start(ctx, rt.LoadOptions()); err != nil {
		log.Fatalf("Failed to restore state: %v", err)
	}

	watcher, err := rt.ImportWatcher()
	if err != nil {
		log.Fatalf("Failed to create import watcher: %v", err)
	}
	if watcher != nil {
		go func() {
			log.Printf("[Watch] Watching %s for CSV imports", cfg.Import.WatchDir)
			if err := watcher.Run(ctx); err != nil {
				log.Printf("[Watch] Import watcher stopped: %v", err)
			}
		}()
	}

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenBrowser:    *openBrowser != "",
		FrontendURL:    *openBrowser,
	}, rt.Services)

	fmt.Printf("API server running at http://localhost:%d\n", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := server.Run(ctx, 10*time.Second); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	fmt.Println("API server stopped.")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *watchDir != "" {
		cfg.Import.WatchDir = *watchDir
	}
	if *debug {
		cfg.App.DebugMode = true
	}
	return cfg, cfg.Validate()
}
