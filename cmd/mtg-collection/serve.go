package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/api"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
)

var serveFlags struct {
	port     int
	watchDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long: `Run the REST API and WebSocket event stream. The initial card pool is
loaded in the background; with --watch-dir (or import.watch_dir in the
config) CSV files dropped into the folder are imported.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "port (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.watchDir, "watch-dir", "", "CSV import folder (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		cfg := rt.Config
		if serveFlags.port != 0 {
			cfg.Server.Port = serveFlags.port
		}
		if serveFlags.watchDir != "" {
			cfg.Import.WatchDir = serveFlags.watchDir
		}

		// withRuntime restored state without loading cards.
		if err := rt.Start(ctx, rt.LoadOptions()); err != nil {
			return err
		}

		watcher, err := rt.ImportWatcher()
		if err != nil {
			return err
		}
		if watcher != nil {
			go func() {
				if err := watcher.Run(ctx); err != nil {
					log.Printf("[Watch] Import watcher stopped: %v", err)
				}
			}()
		}

		server := api.NewServer(&api.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, rt.Services)
		fmt.Fprintf(cmd.OutOrStdout(), "API server running at http://localhost:%d (Ctrl+C to stop)\n", cfg.Server.Port)
		return server.Run(ctx, 10*time.Second)
	})
}
