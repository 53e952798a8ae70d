package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/display"
)

var importCmd = &cobra.Command{
	Use:   "import <collection-id> <file.csv>",
	Short: "Import a CSV file into a collection",
	Long: `Import a CSV file into a collection. The header must contain a card
name column; quantity, set code, collector number, foil, condition,
language and purchase price columns are recognized when present.

Rows are matched against the cards loaded from the configured initial
query, so cards outside it are reported as not found.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		if _, err := rt.Collection(args[0]); err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		if err := loadPool(ctx, rt); err != nil {
			return err
		}

		bar := newProgressBar(-1, "Importing rows")
		result, err := rt.ImportCSV(ctx, args[0], f, filepath.Base(args[1]), func(processed, total int) {
			bar.ChangeMax(total)
			_ = bar.Set(processed)
		})
		_ = bar.Finish()
		if err != nil {
			return err
		}

		display.ImportResult(cmd.OutOrStdout(), result)
		return nil
	})
}
