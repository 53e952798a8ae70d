// Package deck implements the immutable update operations on decks. A deck
// keeps three disjoint groupings: mainboard, sideboard and commander.
package deck

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

var now = time.Now

// Board names a deck grouping.
type Board string

const (
	BoardMain      Board = "main"
	BoardSideboard Board = "sideboard"
	BoardCommander Board = "commander"
)

// ParseBoard accepts the board names used by the API and CLI.
func ParseBoard(s string) (Board, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "main", "mainboard", "deck":
		return BoardMain, nil
	case "side", "sideboard":
		return BoardSideboard, nil
	case "commander", "cmdr":
		return BoardCommander, nil
	}
	return "", models.NewValidationError("board", fmt.Sprintf("invalid board %q (must be 'main', 'sideboard' or 'commander')", s))
}

// New creates an empty deck.
func New(name string, format models.DeckFormat, description string) (models.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Deck{}, models.NewValidationError("name", "deck name is required")
	}
	if format == "" {
		format = models.FormatStandard
	}
	if !format.Valid() {
		return models.Deck{}, models.NewValidationError("format", fmt.Sprintf("unsupported format: %s", format))
	}
	ts := now()
	return models.Deck{
		ID:          uuid.New().String(),
		Name:        name,
		Format:      format,
		Description: strings.TrimSpace(description),
		Mainboard:   []models.DeckCardEntry{},
		Sideboard:   []models.DeckCardEntry{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// AddCard returns a copy of d with quantity copies of card added to board.
// Adding to the commander board replaces the commander.
func AddCard(d models.Deck, card models.Card, quantity int, board Board) (models.Deck, error) {
	if quantity <= 0 {
		return d, models.NewValidationError("quantity", "quantity must be positive")
	}
	switch board {
	case BoardCommander:
		return SetCommander(d, card), nil
	case BoardMain, BoardSideboard:
	default:
		return d, models.NewValidationError("board", fmt.Sprintf("invalid board: %s", board))
	}
	if d.Commander != nil && d.Commander.Card.ID == card.ID {
		return d, models.NewValidationError("board", card.Name+" is the commander")
	}

	out := clone(d)
	entries := out.boardEntries(board)
	if i := indexOf(*entries, card.ID); i >= 0 {
		(*entries)[i].Quantity += quantity
	} else {
		*entries = append(*entries, models.DeckCardEntry{
			Card:        card,
			Quantity:    quantity,
			IsSideboard: board == BoardSideboard,
		})
	}
	out.UpdatedAt = now()
	return out.Deck, nil
}

// RemoveCard returns a copy of d without cardID in board.
func RemoveCard(d models.Deck, cardID string, board Board) models.Deck {
	if board == BoardCommander {
		if d.Commander == nil || d.Commander.Card.ID != cardID {
			return d
		}
		out := clone(d)
		out.Commander = nil
		out.UpdatedAt = now()
		return out.Deck
	}

	out := clone(d)
	entries := out.boardEntries(board)
	if entries == nil {
		return d
	}
	i := indexOf(*entries, cardID)
	if i < 0 {
		return d
	}
	*entries = append((*entries)[:i], (*entries)[i+1:]...)
	out.UpdatedAt = now()
	return out.Deck
}

// SetQuantity sets the quantity of cardID in board; zero removes it.
func SetQuantity(d models.Deck, cardID string, board Board, quantity int) (models.Deck, error) {
	if quantity <= 0 {
		return RemoveCard(d, cardID, board), nil
	}
	if board == BoardCommander {
		return d, models.NewValidationError("quantity", "commander quantity is fixed")
	}
	out := clone(d)
	entries := out.boardEntries(board)
	if entries == nil {
		return d, models.NewValidationError("board", fmt.Sprintf("invalid board: %s", board))
	}
	i := indexOf(*entries, cardID)
	if i < 0 {
		return d, models.NewValidationError("card", fmt.Sprintf("card %s not in %s", cardID, board))
	}
	(*entries)[i].Quantity = quantity
	out.UpdatedAt = now()
	return out.Deck, nil
}

// MoveCard moves up to quantity copies of cardID from one board to another.
func MoveCard(d models.Deck, cardID string, from, to Board, quantity int) (models.Deck, error) {
	if from == to {
		return d, nil
	}
	card, have, ok := find(d, cardID, from)
	if !ok {
		return d, models.NewValidationError("card", fmt.Sprintf("card %s not in %s", cardID, from))
	}
	if quantity <= 0 || quantity > have {
		quantity = have
	}

	var out models.Deck
	var err error
	if quantity == have {
		out = RemoveCard(d, cardID, from)
	} else if out, err = SetQuantity(d, cardID, from, have-quantity); err != nil {
		return d, err
	}
	if to == BoardCommander {
		return SetCommander(out, card), nil
	}
	return AddCard(out, card, quantity, to)
}

// SetCommander makes card the single commander. The card leaves the
// mainboard and sideboard so the groupings stay disjoint; a previous
// commander returns to the mainboard.
func SetCommander(d models.Deck, card models.Card) models.Deck {
	out := clone(d)
	prev := out.Commander
	out.Mainboard = without(out.Mainboard, card.ID)
	out.Sideboard = without(out.Sideboard, card.ID)
	out.Commander = &models.DeckCardEntry{Card: card, Quantity: 1, IsCommander: true}
	if prev != nil && prev.Card.ID != card.ID {
		out.Mainboard = append(out.Mainboard, models.DeckCardEntry{Card: prev.Card, Quantity: 1})
	}
	out.UpdatedAt = now()
	return out.Deck
}

// Update returns a copy of d with new metadata.
func Update(d models.Deck, name string, format models.DeckFormat, description string) (models.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return d, models.NewValidationError("name", "deck name is required")
	}
	if !format.Valid() {
		return d, models.NewValidationError("format", fmt.Sprintf("unsupported format: %s", format))
	}
	out := clone(d)
	out.Name = name
	out.Format = format
	out.Description = strings.TrimSpace(description)
	out.UpdatedAt = now()
	return out.Deck, nil
}

// Clone copies d under a new id and name.
func Clone(d models.Deck, name string) (models.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = d.Name + " (copy)"
	}
	out := clone(d)
	out.ID = uuid.New().String()
	out.Name = name
	ts := now()
	out.CreatedAt = ts
	out.UpdatedAt = ts
	return out.Deck, nil
}

type deckCopy struct {
	models.Deck
}

func (d *deckCopy) boardEntries(b Board) *[]models.DeckCardEntry {
	switch b {
	case BoardMain:
		return &d.Mainboard
	case BoardSideboard:
		return &d.Sideboard
	}
	return nil
}

func clone(d models.Deck) *deckCopy {
	out := d
	out.Mainboard = append([]models.DeckCardEntry{}, d.Mainboard...)
	out.Sideboard = append([]models.DeckCardEntry{}, d.Sideboard...)
	if d.Commander != nil {
		c := *d.Commander
		out.Commander = &c
	}
	return &deckCopy{Deck: out}
}

func find(d models.Deck, cardID string, board Board) (models.Card, int, bool) {
	var entries []models.DeckCardEntry
	switch board {
	case BoardMain:
		entries = d.Mainboard
	case BoardSideboard:
		entries = d.Sideboard
	case BoardCommander:
		if d.Commander != nil && d.Commander.Card.ID == cardID {
			return d.Commander.Card, 1, true
		}
		return models.Card{}, 0, false
	}
	if i := indexOf(entries, cardID); i >= 0 {
		return entries[i].Card, entries[i].Quantity, true
	}
	return models.Card{}, 0, false
}

func indexOf(entries []models.DeckCardEntry, cardID string) int {
	for i := range entries {
		if entries[i].Card.ID == cardID {
			return i
		}
	}
	return -1
}

func without(entries []models.DeckCardEntry, cardID string) []models.DeckCardEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Card.ID != cardID {
			out = append(out, e)
		}
	}
	return out
}
