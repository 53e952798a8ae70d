package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/charts"
	"github.com/ramonehamilton/MTG-Collection/internal/display"
	"github.com/ramonehamilton/MTG-Collection/internal/stats"
)

var statsFlags struct {
	collectionID string
	deckID       string
	sideboard    bool
	chart        string
	open         bool
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection or deck statistics",
	Long: `Show statistics for every collection, one collection (--collection)
or a deck (--deck). With --chart the mana curve, color and rarity charts
are written to an HTML file.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	f := statsCmd.Flags()
	f.StringVarP(&statsFlags.collectionID, "collection", "c", "", "collection id")
	f.StringVarP(&statsFlags.deckID, "deck", "d", "", "deck id")
	f.BoolVar(&statsFlags.sideboard, "sideboard", false, "include the deck's sideboard")
	f.StringVar(&statsFlags.chart, "chart", "", "write an HTML chart page to this file")
	f.BoolVar(&statsFlags.open, "open", false, "open the chart page in a browser")
	statsCmd.MarkFlagsMutuallyExclusive("collection", "deck")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
		title, summary, err := statsFor(rt)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		display.Stats(out, title, summary)

		if statsFlags.chart == "" {
			return nil
		}
		if err := charts.RenderDashboardFile(statsFlags.chart, title, summary, charts.DefaultChartConfig()); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nCharts written to %s\n", statsFlags.chart)
		if statsFlags.open {
			return charts.OpenInBrowser(statsFlags.chart)
		}
		return nil
	})
}

func statsFor(rt *app.Runtime) (string, stats.Summary, error) {
	switch {
	case statsFlags.deckID != "":
		d, err := rt.Deck(statsFlags.deckID)
		if err != nil {
			return "", stats.Summary{}, err
		}
		s, err := rt.DeckStats(d.ID, statsFlags.sideboard)
		return d.Name, s, err
	case statsFlags.collectionID != "":
		c, err := rt.Collection(statsFlags.collectionID)
		if err != nil {
			return "", stats.Summary{}, err
		}
		s, err := rt.CollectionStats(c.ID)
		return c.Name, s, err
	default:
		s, err := rt.CollectionStats("")
		return "All Collections", s, err
	}
}
