// Package display renders collections, decks and statistics as plain
// text for the command line.
package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/importer"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/stats"
)

// MaxRows caps card listings.
const MaxRows = 50

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)
}

// Cards lists cards with their set and rarity.
func Cards(w io.Writer, cards []models.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tSET\tTYPE\tRARITY")
	for i, c := range cards {
		if i == MaxRows {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s #%s\t%s\t%s\n",
			c.ID, c.Name, strings.ToUpper(c.SetCode), c.CollectorNumber, c.TypeLine, c.Rarity)
	}
	_ = tw.Flush()
	if len(cards) > MaxRows {
		fmt.Fprintf(w, "  ... and %d more cards\n", len(cards)-MaxRows)
	}
}

// Collections lists collections with their totals.
func Collections(w io.Writer, collections []models.Collection) {
	if len(collections) == 0 {
		fmt.Fprintln(w, "No collections yet.")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tUNIQUE\tCOPIES")
	for i := range collections {
		c := &collections[i]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.ID, c.Name, len(c.Cards), c.TotalCopies())
	}
	_ = tw.Flush()
}

// Collection prints one collection with its entries.
func Collection(w io.Writer, c *models.Collection) {
	heading(w, c.Name)
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	}
	fmt.Fprintf(w, "Unique Cards: %d\n", len(c.Cards))
	fmt.Fprintf(w, "Total Copies: %d\n\n", c.TotalCopies())
	if len(c.Cards) == 0 {
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "QTY\tNAME\tSET\tFOIL\tCONDITION")
	for i, e := range c.Cards {
		if i == MaxRows {
			break
		}
		foil := ""
		if e.Foil {
			foil = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Quantity, e.Card.Name, strings.ToUpper(e.Card.SetCode), foil, e.Condition)
	}
	_ = tw.Flush()
	if len(c.Cards) > MaxRows {
		fmt.Fprintf(w, "  ... and %d more entries\n", len(c.Cards)-MaxRows)
	}
}

// Decks lists decks with their card counts.
func Decks(w io.Writer, decks []models.Deck) {
	if len(decks) == 0 {
		fmt.Fprintln(w, "No decks yet.")
		return
	}

	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tMAIN\tSIDE")
	for i := range decks {
		d := &decks[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", d.ID, d.Name, d.Format, d.MainboardCount(), d.SideboardCount())
	}
	_ = tw.Flush()
}

// Deck prints a deck grouped by board.
func Deck(w io.Writer, d *models.Deck) {
	heading(w, d.Name)
	fmt.Fprintf(w, "Format: %s\n", d.Format)
	if d.Description != "" {
		fmt.Fprintf(w, "%s\n", d.Description)
	}
	fmt.Fprintln(w)

	if d.Commander != nil {
		fmt.Fprintln(w, "Commander:")
		fmt.Fprintf(w, "  1 %s\n\n", d.Commander.Card.Name)
	}
	board(w, "Mainboard", d.Mainboard, d.MainboardCount())
	if len(d.Sideboard) > 0 {
		board(w, "Sideboard", d.Sideboard, d.SideboardCount())
	}
}

func board(w io.Writer, name string, entries []models.DeckCardEntry, count int) {
	fmt.Fprintf(w, "%s (%d):\n", name, count)
	for _, e := range entries {
		fmt.Fprintf(w, "  %d %s\n", e.Quantity, e.Card.Name)
	}
	fmt.Fprintln(w)
}

// Legality prints a deck validation result.
func Legality(w io.Writer, l deck.Legality) {
	if l.Legal {
		fmt.Fprintf(w, "Legal in %s.\n", l.Format)
		return
	}
	fmt.Fprintf(w, "Not legal in %s:\n", l.Format)
	for _, r := range l.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}

// Stats prints a summary with its distributions and mana curve.
func Stats(w io.Writer, title string, s stats.Summary) {
	heading(w, title)
	fmt.Fprintf(w, "Unique Cards:    %d\n", s.UniqueCards)
	fmt.Fprintf(w, "Total Copies:    %d\n", s.TotalCopies)
	fmt.Fprintf(w, "Average CMC:     %.2f\n", s.AverageCMC)
	fmt.Fprintf(w, "Estimated Value: $%.2f\n\n", s.TotalValue)

	distribution(w, "By Color", s.ColorDistribution)
	distribution(w, "By Rarity", s.RarityDistribution)
	distribution(w, "By Type", s.TypeDistribution)

	fmt.Fprintln(w, "Mana Curve:")
	for _, b := range s.ManaCurve() {
		fmt.Fprintf(w, "  %-3s %s %d\n", b.Label, strings.Repeat("#", b.Count), b.Count)
	}
}

func distribution(w io.Writer, title string, h map[string]int) {
	if len(h) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range stats.SortedKeys(h) {
		fmt.Fprintf(w, "  %s: %d\n", k, h[k])
	}
	fmt.Fprintln(w)
}

// ImportResult prints the outcome of a CSV import.
func ImportResult(w io.Writer, r *importer.Result) {
	fmt.Fprintf(w, "Imported %d rows (%d copies) into %s.\n", r.Imported, r.Copies, r.Collection.Name)
	if r.Failed == 0 {
		return
	}
	fmt.Fprintf(w, "%d rows failed:\n", r.Failed)
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  line %d: %s: %s\n", f.Line, f.Name, f.Reason)
	}
}
