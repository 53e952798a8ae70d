package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/config"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
	"github.com/ramonehamilton/MTG-Collection/internal/version"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mtg-collection",
	Short: "Manage Magic: The Gathering collections and decks",
	Long: `mtg-collection keeps track of the cards you own and the decks you
build. Card data comes from Scryfall; collections, decks, saved filters
and your profile are stored locally in SQLite.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.mtg-collection/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if verbose {
		cfg.App.DebugMode = true
	}
	return cfg, nil
}

// openRuntime opens the application and restores persisted state. The
// card pool is not loaded; commands that resolve names call loadPool.
func openRuntime(ctx context.Context) (*app.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelWarn
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rt, err := app.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := rt.Start(ctx, cardpool.LoadOptions{}); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return rt, nil
}

// withRuntime runs fn against an open runtime and closes it afterwards.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *app.Runtime) error) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// loadPool fills the card pool from the configured initial query with a
// progress bar on stderr.
func loadPool(ctx context.Context, rt *app.Runtime) error {
	bar := newProgressBar(-1, "Loading cards")
	opts := rt.LoadOptions()
	opts.Progress = func(loaded, total int) {
		if limit := opts.MaxPages * scryfall.PageSize; opts.MaxPages > 0 && total > limit {
			total = limit
		}
		bar.ChangeMax(total)
		_ = bar.Set(loaded)
	}
	stats, err := rt.Pool.Load(ctx, rt.Gateway, opts)
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	if stats != nil && stats.Cancelled {
		return ctx.Err()
	}
	return nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
