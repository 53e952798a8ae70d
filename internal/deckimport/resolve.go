package deckimport

import (
	"fmt"

	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Resolver finds cards by name.
type Resolver interface {
	Find(l cardpool.Lookup) (models.Card, bool)
}

// Result is a parsed deck list with every name resolved to a card.
type Result struct {
	Mainboard  []models.DeckCardEntry `json:"mainboard"`
	Sideboard  []models.DeckCardEntry `json:"sideboard"`
	Commander  *models.DeckCardEntry  `json:"commander,omitempty"`
	Unresolved []ParsedCard           `json:"unresolved,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// Import parses input and resolves it against r.
func Import(input string, r Resolver) (*Result, error) {
	parsed, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return Resolve(parsed, r), nil
}

// Resolve maps parsed lines to cards. A printing qualifier that matches
// nothing falls back to any printing with the same name. Unknown names are
// reported in Unresolved and do not fail the import.
func Resolve(parsed *ParsedDeck, r Resolver) *Result {
	result := &Result{
		Mainboard: []models.DeckCardEntry{},
		Sideboard: []models.DeckCardEntry{},
		Warnings:  append([]string(nil), parsed.Warnings...),
	}

	for _, pc := range parsed.Cards {
		card, ok := r.Find(cardpool.Lookup{Name: pc.Name, SetCode: pc.SetCode, CollectorNumber: pc.CollectorNumber})
		if !ok && (pc.SetCode != "" || pc.CollectorNumber != "") {
			card, ok = r.Find(cardpool.Lookup{Name: pc.Name})
		}
		if !ok {
			result.Unresolved = append(result.Unresolved, pc)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Line %d: Card '%s' not found", pc.Line, pc.Name))
			continue
		}

		switch pc.Board {
		case deck.BoardCommander:
			if result.Commander != nil && result.Commander.Card.ID != card.ID {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Line %d: '%s' replaces commander '%s'", pc.Line, card.Name, result.Commander.Card.Name))
			}
			result.Commander = &models.DeckCardEntry{Card: card, Quantity: 1, IsCommander: true}
		case deck.BoardSideboard:
			result.Sideboard = merge(result.Sideboard, card, pc.Quantity, true)
		default:
			result.Mainboard = merge(result.Mainboard, card, pc.Quantity, false)
		}
	}
	return result
}

// Apply adds the resolved cards to d, keeping the deck's groupings disjoint.
func (r *Result) Apply(d models.Deck) (models.Deck, error) {
	var err error
	if r.Commander != nil {
		d = deck.SetCommander(d, r.Commander.Card)
	}
	for _, e := range r.Mainboard {
		if d, err = deck.AddCard(d, e.Card, e.Quantity, deck.BoardMain); err != nil {
			return d, fmt.Errorf("add %s: %w", e.Card.Name, err)
		}
	}
	for _, e := range r.Sideboard {
		if d, err = deck.AddCard(d, e.Card, e.Quantity, deck.BoardSideboard); err != nil {
			return d, fmt.Errorf("add %s to sideboard: %w", e.Card.Name, err)
		}
	}
	return d, nil
}

// Resolved reports the number of distinct resolved entries.
func (r *Result) Resolved() int {
	n := len(r.Mainboard) + len(r.Sideboard)
	if r.Commander != nil {
		n++
	}
	return n
}

func merge(entries []models.DeckCardEntry, card models.Card, quantity int, sideboard bool) []models.DeckCardEntry {
	for i := range entries {
		if entries[i].Card.ID == card.ID {
			entries[i].Quantity += quantity
			return entries
		}
	}
	return append(entries, models.DeckCardEntry{Card: card, Quantity: quantity, IsSideboard: sideboard})
}
