package main

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/deckexport"
	"github.com/ramonehamilton/MTG-Collection/internal/display"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

var deckFlags struct {
	format       string
	description  string
	cloneName    string
	importName   string
	importFormat string
	deckID       string
	board        string
	to           string
	quantity     int
	moveQuantity int
	exportFormat string
	noHeaders    bool
	output       string
	yes          bool
}

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
			display.Decks(cmd.OutOrStdout(), rt.Decks())
			return nil
		})
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show <deck-id>",
	Short: "Show a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
			d, err := rt.Deck(args[0])
			if err != nil {
				return err
			}
			display.Deck(cmd.OutOrStdout(), &d)
			return nil
		})
	},
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a deck",
	Long: `Create a deck. Without --format the format is chosen from a list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := models.DeckFormat(deckFlags.format)
		if format == "" {
			selected, err := selectFormat()
			if err != nil {
				return err
			}
			format = selected
		}
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			d, err := rt.CreateDeck(ctx, args[0], format, deckFlags.description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s deck %s (%s)\n", d.Format, d.Name, d.ID)
			return nil
		})
	},
}

var deckCloneCmd = &cobra.Command{
	Use:   "clone <deck-id>",
	Short: "Copy a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			d, err := rt.CloneDeck(ctx, args[0], deckFlags.cloneName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", d.Name, d.ID)
			return nil
		})
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <deck-id>",
	Short: "Delete a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			d, err := rt.Deck(args[0])
			if err != nil {
				return err
			}
			if !deckFlags.yes && !confirm(fmt.Sprintf("Delete deck %q", d.Name)) {
				return nil
			}
			if err := rt.DeleteDeck(ctx, d.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", d.Name)
			return nil
		})
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add <deck-id> <card-id>",
	Short: "Add copies of a card to a deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := deck.ParseBoard(deckFlags.board)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			d, err := rt.AddToDeck(ctx, args[0], args[1], deckFlags.quantity, board)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d main, %d side\n", d.Name, d.MainboardCount(), d.SideboardCount())
			return nil
		})
	},
}

var deckRemoveCmd = &cobra.Command{
	Use:   "remove <deck-id> <card-id>",
	Short: "Remove a card from a deck board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := deck.ParseBoard(deckFlags.board)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			d, err := rt.RemoveFromDeck(ctx, args[0], args[1], board)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d main, %d side\n", d.Name, d.MainboardCount(), d.SideboardCount())
			return nil
		})
	},
}

var deckMoveCmd = &cobra.Command{
	Use:   "move <deck-id> <card-id>",
	Short: "Move copies of a card between boards",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := deck.ParseBoard(deckFlags.board)
		if err != nil {
			return err
		}
		to, err := deck.ParseBoard(deckFlags.to)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			d, err := rt.MoveInDeck(ctx, args[0], args[1], from, to, deckFlags.moveQuantity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d main, %d side\n", d.Name, d.MainboardCount(), d.SideboardCount())
			return nil
		})
	},
}

var deckValidateCmd = &cobra.Command{
	Use:   "validate <deck-id>",
	Short: "Check a deck against its format's construction rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
			l, err := rt.ValidateDeck(args[0])
			if err != nil {
				return err
			}
			display.Legality(cmd.OutOrStdout(), l)
			return nil
		})
	},
}

var deckImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a text deck list",
	Long: `Import a deck list with one "<quantity> <name>" line per card. A line
reading "Sideboard" starts the sideboard. Use --deck to merge into an
existing deck; otherwise a new deck named --name is created.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeckImport,
}

var deckExportCmd = &cobra.Command{
	Use:   "export <deck-id>",
	Short: "Export a deck as text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeckExport,
}

func init() {
	deckCreateCmd.Flags().StringVarP(&deckFlags.format, "format", "f", "", "deck format")
	deckCreateCmd.Flags().StringVarP(&deckFlags.description, "description", "d", "", "deck description")
	deckCloneCmd.Flags().StringVarP(&deckFlags.cloneName, "name", "n", "", "name of the copy")
	deckDeleteCmd.Flags().BoolVarP(&deckFlags.yes, "yes", "y", false, "skip confirmation")
	for _, c := range []*cobra.Command{deckAddCmd, deckRemoveCmd, deckMoveCmd} {
		c.Flags().StringVarP(&deckFlags.board, "board", "b", "main", "main, sideboard or commander")
	}
	deckAddCmd.Flags().IntVarP(&deckFlags.quantity, "quantity", "q", 1, "number of copies")
	deckMoveCmd.Flags().IntVarP(&deckFlags.moveQuantity, "quantity", "q", 0, "copies to move (0 = all)")
	deckMoveCmd.Flags().StringVar(&deckFlags.to, "to", "sideboard", "destination board")
	deckImportCmd.Flags().StringVarP(&deckFlags.importName, "name", "n", "Imported Deck", "name of the new deck")
	deckImportCmd.Flags().StringVarP(&deckFlags.importFormat, "format", "f", "", "format of the new deck")
	deckImportCmd.Flags().StringVar(&deckFlags.deckID, "deck", "", "existing deck to merge into")
	deckExportCmd.Flags().StringVarP(&deckFlags.exportFormat, "format", "f", string(deckexport.FormatPlainText), "arena, plaintext or mtgo")
	deckExportCmd.Flags().BoolVar(&deckFlags.noHeaders, "no-headers", false, "omit the name and section headers")
	deckExportCmd.Flags().StringVarP(&deckFlags.output, "output", "o", "", "output file (default stdout)")

	deckCmd.AddCommand(deckListCmd, deckShowCmd, deckCreateCmd, deckCloneCmd, deckDeleteCmd,
		deckAddCmd, deckRemoveCmd, deckMoveCmd, deckValidateCmd, deckImportCmd, deckExportCmd)
	rootCmd.AddCommand(deckCmd)
}

func runDeckImport(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		if err := loadPool(ctx, rt); err != nil {
			return err
		}
		result, err := rt.ImportDeckList(ctx, deckFlags.deckID, deckFlags.importName, models.DeckFormat(deckFlags.importFormat), string(text))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d cards into %s (%s)\n", result.Resolved, result.Deck.Name, result.Deck.ID)
		for _, u := range result.Unresolved {
			fmt.Fprintf(out, "  line %d: card not found: %s\n", u.Line, u.Name)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
		return nil
	})
}

func runDeckExport(cmd *cobra.Command, args []string) error {
	format, err := deckexport.ParseFormat(deckFlags.exportFormat)
	if err != nil {
		return err
	}
	return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
		exp, err := rt.ExportDeck(args[0], format, !deckFlags.noHeaders)
		if err != nil {
			return err
		}
		if deckFlags.output == "" {
			fmt.Fprint(cmd.OutOrStdout(), exp.Content)
			return nil
		}
		if err := os.WriteFile(deckFlags.output, []byte(exp.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", deckFlags.output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", deckFlags.output)
		return nil
	})
}

// selectFormat asks for a deck format on the terminal.
func selectFormat() (models.DeckFormat, error) {
	prompt := promptui.Select{
		Label: "Select deck format",
		Items: models.DeckFormats,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("format selection: %w", err)
	}
	return models.DeckFormats[i], nil
}
