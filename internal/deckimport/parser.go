// Package deckimport parses line-oriented deck lists and resolves the card
// names against the card pool.
package deckimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

var (
	// "4 Lightning Bolt", "4x Lightning Bolt", "4 x Lightning Bolt"
	cardLine = regexp.MustCompile(`^(\d+)\s*x?\s*(.+)$`)

	// Arena suffix: "Lightning Bolt (M21) 123"
	printingSuffix = regexp.MustCompile(`^(.+?)\s+\(([A-Za-z0-9]+)\)(?:\s+(\S+))?$`)
)

// ParsedCard is one card line of a deck list.
type ParsedCard struct {
	Line            int
	Quantity        int
	Name            string
	SetCode         string
	CollectorNumber string
	Board           deck.Board
}

// ParsedDeck is the raw result of parsing, before name resolution.
type ParsedDeck struct {
	Cards    []ParsedCard
	Warnings []string
}

// Parse reads a deck list. Blank lines and lines starting with "//" or "#"
// are ignored. A line starting with "sideboard", "side:" or "// sideboard"
// moves the following lines to the sideboard. MTGO "SB:" prefixes and
// Arena "Commander"/"Deck" headers are also understood.
func Parse(input string) (*ParsedDeck, error) {
	if strings.TrimSpace(input) == "" {
		return nil, models.NewValidationError("deck", "empty import string")
	}

	parsed := &ParsedDeck{}
	board := deck.BoardMain

	for i, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if next, ok := sectionMarker(lower); ok {
			board = next
			continue
		}
		if strings.HasPrefix(lower, "//") || strings.HasPrefix(lower, "#") {
			continue
		}

		lineBoard := board
		if strings.HasPrefix(lower, "sb:") {
			lineBoard = deck.BoardSideboard
			line = strings.TrimSpace(line[3:])
		}

		matches := cardLine.FindStringSubmatch(line)
		if matches == nil {
			parsed.Warnings = append(parsed.Warnings,
				fmt.Sprintf("Line %d: Could not parse '%s'", i+1, line))
			continue
		}
		quantity, err := strconv.Atoi(matches[1])
		if err != nil || quantity <= 0 {
			parsed.Warnings = append(parsed.Warnings,
				fmt.Sprintf("Line %d: Invalid quantity '%s'", i+1, matches[1]))
			continue
		}

		card := ParsedCard{
			Line:     i + 1,
			Quantity: quantity,
			Name:     strings.TrimSpace(matches[2]),
			Board:    lineBoard,
		}
		if m := printingSuffix.FindStringSubmatch(card.Name); m != nil {
			card.Name = strings.TrimSpace(m[1])
			card.SetCode = strings.ToLower(m[2])
			card.CollectorNumber = m[3]
		}
		parsed.Cards = append(parsed.Cards, card)
	}

	if len(parsed.Cards) == 0 {
		return parsed, models.NewValidationError("deck", "no cards found in import")
	}
	return parsed, nil
}

func sectionMarker(lower string) (deck.Board, bool) {
	switch {
	case strings.HasPrefix(lower, "sideboard"),
		strings.HasPrefix(lower, "side:"),
		strings.HasPrefix(lower, "// sideboard"):
		return deck.BoardSideboard, true
	case lower == "commander", lower == "commander:", strings.HasPrefix(lower, "// commander"):
		return deck.BoardCommander, true
	case lower == "deck", lower == "mainboard", lower == "mainboard:", lower == "main:",
		strings.HasPrefix(lower, "// mainboard"):
		return deck.BoardMain, true
	}
	return "", false
}
