package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/display"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/rulings"
)

var searchFlags struct {
	cardType  string
	rarity    string
	cmc       string
	oracle    string
	colors    string
	page      int
	ownedOnly bool
}

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search Scryfall for cards",
	Long: `Search Scryfall using the same filters as the card browsers.

Colors are given as WUBRG letters plus C for colorless, e.g. --colors UR.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

var cardCmd = &cobra.Command{
	Use:   "card <card-id>",
	Short: "Show a card with its rulings",
	Args:  cobra.ExactArgs(1),
	RunE:  runCard,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchFlags.cardType, "type", "t", "", "type line filter, e.g. creature")
	f.StringVarP(&searchFlags.rarity, "rarity", "r", "", "rarity: common, uncommon, rare or mythic")
	f.StringVar(&searchFlags.cmc, "cmc", "", "mana value")
	f.StringVar(&searchFlags.oracle, "oracle", "", "oracle text filter")
	f.StringVar(&searchFlags.colors, "colors", "", "active color toggles (WUBRGC)")
	f.IntVarP(&searchFlags.page, "page", "p", 1, "result page")
	f.BoolVar(&searchFlags.ownedOnly, "owned", false, "only show owned cards")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cardCmd)
}

// searchFacets builds the facet set the flags describe.
func searchFacets(args []string) filter.Facets {
	f := filter.Default()
	f.SearchText = strings.Join(args, " ")
	if searchFlags.cardType != "" {
		f.Type = searchFlags.cardType
	}
	if searchFlags.rarity != "" {
		f.Rarity = searchFlags.rarity
	}
	f.CMC = searchFlags.cmc
	f.OracleText = searchFlags.oracle
	if searchFlags.colors != "" {
		f.Colors = nil
		for _, r := range strings.ToUpper(searchFlags.colors) {
			f.Colors = append(f.Colors, string(r))
		}
	}
	f.OwnedOnly = searchFlags.ownedOnly
	return f
}

func runSearch(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		facets := searchFacets(args)
		query := filter.BuildQuery(facets)
		if query == "" {
			query = rt.Config.Scryfall.InitialQuery
		}

		result, err := rt.Gateway.SearchCards(ctx, query, searchFlags.page)
		if err != nil {
			return err
		}
		cards := filter.Apply(result.Data, facets, rt.Store.Ownership())

		out := cmd.OutOrStdout()
		display.Cards(out, cards)
		fmt.Fprintf(out, "\nPage %d of %d (%d cards match %q)\n", searchFlags.page, result.TotalPages(), result.TotalCards, query)
		return nil
	})
}

func runCard(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		card, err := rt.Card(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", card.Name, card.ManaCost)
		fmt.Fprintf(out, "%s\n", card.TypeLine)
		if text := card.FullOracleText(); text != "" {
			fmt.Fprintf(out, "\n%s\n", text)
		}
		fmt.Fprintf(out, "\n%s (%s) #%s, %s\n", card.SetName, strings.ToUpper(card.SetCode), card.CollectorNumber, card.Rarity)

		nonFoil, foil := rt.Owned(card.ID)
		fmt.Fprintf(out, "Owned: %d (+%d foil)\n", nonFoil, foil)

		list, err := rt.CardRulings(ctx, card.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "\nRulings:")
		for _, e := range rulings.Entries(list) {
			switch {
			case e.Text != "":
				fmt.Fprintf(out, "  %s  %s\n", e.Date, e.Text)
			default:
				fmt.Fprintf(out, "  %s\n", e.Message)
			}
		}
		return nil
	})
}
