package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/display"
	"github.com/ramonehamilton/MTG-Collection/internal/export"
)

var collectionFlags struct {
	description string
	quantity    int
	foil        bool
	condition   string
	language    string
	price       float64
	yes         bool
}

var exportFlags struct {
	format string
	output string
}

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col"},
	Short:   "Manage collections",
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
			display.Collections(cmd.OutOrStdout(), rt.Collections())
			return nil
		})
	},
}

var collectionShowCmd = &cobra.Command{
	Use:   "show <collection-id>",
	Short: "Show a collection's cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
			c, err := rt.Collection(args[0])
			if err != nil {
				return err
			}
			display.Collection(cmd.OutOrStdout(), &c)
			return nil
		})
	},
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			c, err := rt.CreateCollection(ctx, args[0], collectionFlags.description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created collection %s (%s)\n", c.Name, c.ID)
			return nil
		})
	},
}

var collectionRenameCmd = &cobra.Command{
	Use:   "rename <collection-id> <name>",
	Short: "Rename a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			c, err := rt.RenameCollection(ctx, args[0], args[1], collectionFlags.description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed collection to %s\n", c.Name)
			return nil
		})
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete <collection-id>",
	Short: "Delete a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			c, err := rt.Collection(args[0])
			if err != nil {
				return err
			}
			if !collectionFlags.yes && !confirm(fmt.Sprintf("Delete collection %q with %d cards", c.Name, c.TotalCopies())) {
				return nil
			}
			if err := rt.DeleteCollection(ctx, c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted collection %s\n", c.Name)
			return nil
		})
	},
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <collection-id> <card-id>",
	Short: "Add copies of a card to a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			c, err := rt.AddToCollection(ctx, args[0], args[1], collectionFlags.quantity, collection.AddOptions{
				Foil:          collectionFlags.foil,
				Condition:     collectionFlags.condition,
				Language:      collectionFlags.language,
				PurchasePrice: collectionFlags.price,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now holds %d copies\n", c.Name, c.TotalCopies())
			return nil
		})
	},
}

var collectionSetCmd = &cobra.Command{
	Use:   "set <collection-id> <card-id> <quantity>",
	Short: "Set the quantity of a card; 0 removes it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			c, err := rt.SetCollectionQuantity(ctx, args[0], args[1], collectionFlags.foil, quantity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now holds %d copies\n", c.Name, c.TotalCopies())
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <collection-id>",
	Short: "Export a collection as CSV or JSON",
	Long: `Export a collection. Without --output the file is written to the
current directory as <name>_<date>.<format>; use --output - for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	for _, c := range []*cobra.Command{collectionCreateCmd, collectionRenameCmd} {
		c.Flags().StringVarP(&collectionFlags.description, "description", "d", "", "collection description")
	}
	collectionAddCmd.Flags().IntVarP(&collectionFlags.quantity, "quantity", "q", 1, "number of copies")
	collectionAddCmd.Flags().StringVar(&collectionFlags.condition, "condition", "", "card condition (default NM)")
	collectionAddCmd.Flags().StringVar(&collectionFlags.language, "language", "", "card language")
	collectionAddCmd.Flags().Float64Var(&collectionFlags.price, "price", 0, "purchase price")
	for _, c := range []*cobra.Command{collectionAddCmd, collectionSetCmd} {
		c.Flags().BoolVar(&collectionFlags.foil, "foil", false, "foil copies")
	}
	collectionDeleteCmd.Flags().BoolVarP(&collectionFlags.yes, "yes", "y", false, "skip confirmation")

	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", string(export.FormatCSV), "csv or json")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file")

	collectionCmd.AddCommand(collectionListCmd, collectionShowCmd, collectionCreateCmd,
		collectionRenameCmd, collectionDeleteCmd, collectionAddCmd, collectionSetCmd)
	rootCmd.AddCommand(collectionCmd, exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := export.Format(exportFlags.format)
	if format != export.FormatCSV && format != export.FormatJSON {
		return fmt.Errorf("unsupported export format: %s", exportFlags.format)
	}
	return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
		if exportFlags.output == "-" {
			return rt.ExportCollection(cmd.OutOrStdout(), args[0], format, true)
		}

		path := exportFlags.output
		if path == "" {
			name, err := rt.ExportCollectionFilename(args[0], format)
			if err != nil {
				return err
			}
			path = name
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := rt.ExportCollection(f, args[0], format, true); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	})
}

// confirm asks a yes/no question on the terminal.
func confirm(label string) bool {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}
