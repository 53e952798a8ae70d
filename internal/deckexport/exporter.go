// Package deckexport renders decks as text lists.
package deckexport

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// ExportFormat represents the format to export the deck in.
type ExportFormat string

const (
	FormatArena     ExportFormat = "arena"     // "4 Lightning Bolt (M21) 123"
	FormatPlainText ExportFormat = "plaintext" // "4x Lightning Bolt"
	FormatMTGO      ExportFormat = "mtgo"      // sideboard lines prefixed "SB:"
)

// Formats lists the supported export formats.
var Formats = []ExportFormat{FormatArena, FormatPlainText, FormatMTGO}

// ParseFormat validates a format name.
func ParseFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f == "text" {
		return FormatPlainText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// ExportOptions controls deck export behavior.
type ExportOptions struct {
	Format         ExportFormat
	IncludeHeaders bool // deck name and section headers
}

// DeckExport represents an exported deck.
type DeckExport struct {
	Content  string       `json:"content"`
	Format   ExportFormat `json:"format"`
	Filename string       `json:"filename"`
}

// Export renders d in the requested format. Every output can be read back
// by deckimport.
func Export(d *models.Deck, options *ExportOptions) (*DeckExport, error) {
	if d == nil {
		return nil, fmt.Errorf("deck is nil")
	}
	if options == nil {
		options = &ExportOptions{Format: FormatPlainText, IncludeHeaders: true}
	}

	var content, ext string
	switch options.Format {
	case FormatArena:
		content, ext = exportArena(d), "txt"
	case FormatPlainText:
		content, ext = exportPlainText(d, options.IncludeHeaders), "txt"
	case FormatMTGO:
		content, ext = exportMTGO(d), "dek"
	default:
		return nil, fmt.Errorf("unsupported export format: %s", options.Format)
	}

	return &DeckExport{
		Content:  content,
		Format:   options.Format,
		Filename: fmt.Sprintf("%s.%s", SanitizeFilename(d.Name, "deck"), ext),
	}, nil
}

// exportArena writes Arena's import format, with Commander, Deck and
// Sideboard sections.
func exportArena(d *models.Deck) string {
	var sb strings.Builder
	arenaLine := func(e models.DeckCardEntry) {
		sb.WriteString(fmt.Sprintf("%d %s", e.Quantity, e.Card.Name))
		if e.Card.SetCode != "" && e.Card.CollectorNumber != "" {
			sb.WriteString(fmt.Sprintf(" (%s) %s", strings.ToUpper(e.Card.SetCode), e.Card.CollectorNumber))
		}
		sb.WriteString("\n")
	}

	if d.Commander != nil {
		sb.WriteString("Commander\n")
		arenaLine(*d.Commander)
		sb.WriteString("\n")
	}
	sb.WriteString("Deck\n")
	for _, e := range d.Mainboard {
		arenaLine(e)
	}
	if len(d.Sideboard) > 0 {
		sb.WriteString("\nSideboard\n")
		for _, e := range d.Sideboard {
			arenaLine(e)
		}
	}
	return sb.String()
}

func exportPlainText(d *models.Deck, headers bool) string {
	var sb strings.Builder

	if headers {
		sb.WriteString(fmt.Sprintf("// %s\n", d.Name))
		if d.Format != "" {
			sb.WriteString(fmt.Sprintf("// Format: %s\n", d.Format))
		}
		sb.WriteString("\n")
	}
	if d.Commander != nil {
		sb.WriteString("// Commander\n")
		sb.WriteString(fmt.Sprintf("1x %s\n\n", d.Commander.Card.Name))
		sb.WriteString("// Mainboard\n")
	}

	for _, e := range d.Mainboard {
		sb.WriteString(fmt.Sprintf("%dx %s\n", e.Quantity, e.Card.Name))
	}

	if len(d.Sideboard) > 0 {
		sb.WriteString("\n// Sideboard\n")
		for _, e := range d.Sideboard {
			sb.WriteString(fmt.Sprintf("%dx %s\n", e.Quantity, e.Card.Name))
		}
	}
	return sb.String()
}

// exportMTGO writes quantity-first lines; the commander is listed in the
// mainboard since MTGO has no separate section for it.
func exportMTGO(d *models.Deck) string {
	var sb strings.Builder
	if d.Commander != nil {
		sb.WriteString(fmt.Sprintf("1 %s\n", d.Commander.Card.Name))
	}
	for _, e := range d.Mainboard {
		sb.WriteString(fmt.Sprintf("%d %s\n", e.Quantity, e.Card.Name))
	}
	if len(d.Sideboard) > 0 {
		sb.WriteString("\n")
		for _, e := range d.Sideboard {
			sb.WriteString(fmt.Sprintf("SB: %d %s\n", e.Quantity, e.Card.Name))
		}
	}
	return sb.String()
}

// SanitizeFilename replaces characters that are invalid in file names.
// An empty result becomes fallback.
func SanitizeFilename(name, fallback string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = fallback
	}
	return result
}
