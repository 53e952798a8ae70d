package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/ipc"
)

var eventsFlags struct {
	server string
	types  []string
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print live events from a running server",
	Long: `Connect to the WebSocket stream of a running "serve" instance and print
each event as it arrives. Reconnects until interrupted.`,
	Example: `  mtg-collection events
  mtg-collection events --types deck:updated,collection:updated`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsFlags.server, "server", "s", "http://localhost:8080", "server base URL")
	eventsCmd.Flags().StringSliceVarP(&eventsFlags.types, "types", "t", nil, "event types to receive (default all)")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	client, err := ipc.NewClient(eventsFlags.server, eventsFlags.types...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	client.On("", func(e ipc.Event) {
		fmt.Fprintf(out, "%s  %-20s %s\n", time.Now().Format("15:04:05"), e.Type, e.Data)
	})

	fmt.Fprintf(out, "Listening on %s (Ctrl+C to stop)\n", client.URL())
	return client.Run(cmd.Context())
}
