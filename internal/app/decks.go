package app

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/deckexport"
	"github.com/ramonehamilton/MTG-Collection/internal/deckimport"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
	"github.com/ramonehamilton/MTG-Collection/internal/state"
	"github.com/ramonehamilton/MTG-Collection/internal/stats"
)

// Decks lists every deck.
func (s *Services) Decks() []models.Deck {
	return s.Store.State().Decks
}

// Deck returns one deck.
func (s *Services) Deck(id string) (models.Deck, error) {
	d, ok := s.Store.State().Deck(id)
	if !ok {
		return models.Deck{}, fmt.Errorf("deck %s: %w", id, ErrNotFound)
	}
	return d, nil
}

// CreateDeck creates an empty deck.
func (s *Services) CreateDeck(ctx context.Context, name string, format models.DeckFormat, description string) (models.Deck, error) {
	return s.Store.CreateDeck(ctx, name, format, description)
}

// UpdateDeck changes the name, format and description of a deck.
func (s *Services) UpdateDeck(ctx context.Context, id, name string, format models.DeckFormat, description string) (models.Deck, error) {
	d, err := s.Deck(id)
	if err != nil {
		return models.Deck{}, err
	}
	d, err = deck.Update(d, name, format, description)
	if err != nil {
		return models.Deck{}, err
	}
	return s.putDeck(ctx, d)
}

// CloneDeck copies a deck under a new id.
func (s *Services) CloneDeck(ctx context.Context, id, name string) (models.Deck, error) {
	d, err := s.Deck(id)
	if err != nil {
		return models.Deck{}, err
	}
	d, err = deck.Clone(d, name)
	if err != nil {
		return models.Deck{}, err
	}
	return s.putDeck(ctx, d)
}

func (s *Services) putDeck(ctx context.Context, d models.Deck) (models.Deck, error) {
	if _, err := s.Store.Dispatch(ctx, state.PutDeck{Deck: d}); err != nil {
		return d, err
	}
	return d, nil
}

// DeleteDeck removes a deck.
func (s *Services) DeleteDeck(ctx context.Context, id string) error {
	_, err := s.Store.Dispatch(ctx, state.DeleteDeck{ID: id})
	return err
}

// AddToDeck adds copies of a card to a deck board.
func (s *Services) AddToDeck(ctx context.Context, deckID, cardID string, quantity int, board deck.Board) (models.Deck, error) {
	card, err := s.Card(ctx, cardID)
	if err != nil {
		return models.Deck{}, err
	}
	return s.dispatchDeck(ctx, deckID, state.AddToDeck{DeckID: deckID, Card: card, Quantity: quantity, Board: board})
}

// RemoveFromDeck removes a card from a deck board.
func (s *Services) RemoveFromDeck(ctx context.Context, deckID, cardID string, board deck.Board) (models.Deck, error) {
	return s.dispatchDeck(ctx, deckID, state.RemoveFromDeck{DeckID: deckID, CardID: cardID, Board: board})
}

// MoveInDeck moves copies of a card between boards.
func (s *Services) MoveInDeck(ctx context.Context, deckID, cardID string, from, to deck.Board, quantity int) (models.Deck, error) {
	return s.dispatchDeck(ctx, deckID, state.MoveInDeck{DeckID: deckID, CardID: cardID, From: from, To: to, Quantity: quantity})
}

func (s *Services) dispatchDeck(ctx context.Context, deckID string, a state.Action) (models.Deck, error) {
	st, err := s.Store.Dispatch(ctx, a)
	if err != nil {
		return models.Deck{}, err
	}
	d, _ := st.Deck(deckID)
	return d, nil
}

// ValidateDeck checks a deck against its format rules.
func (s *Services) ValidateDeck(id string) (deck.Legality, error) {
	d, err := s.Deck(id)
	if err != nil {
		return deck.Legality{}, err
	}
	return deck.Validate(d), nil
}

// DeckImport is the outcome of importing a deck list.
type DeckImport struct {
	Deck       models.Deck             `json:"deck"`
	Resolved   int                     `json:"resolved"`
	Unresolved []deckimport.ParsedCard `json:"unresolved,omitempty"`
	Warnings   []string                `json:"warnings,omitempty"`
}

// ImportDeckList parses a text deck list and merges it into a deck. An
// empty deckID creates a new deck named name.
func (s *Services) ImportDeckList(ctx context.Context, deckID, name string, format models.DeckFormat, text string) (*DeckImport, error) {
	result, err := deckimport.Import(text, &namedResolver{ctx: ctx, s: s})
	if err != nil {
		return nil, err
	}

	var d models.Deck
	if deckID == "" {
		if result.Commander != nil && format == "" {
			format = models.FormatCommander
		}
		d, err = deck.New(name, format, "")
	} else {
		d, err = s.Deck(deckID)
	}
	if err != nil {
		return nil, err
	}

	d, err = result.Apply(d)
	if err != nil {
		return nil, err
	}
	d, err = s.putDeck(ctx, d)
	if err != nil {
		return nil, err
	}
	return &DeckImport{
		Deck:       d,
		Resolved:   result.Resolved(),
		Unresolved: result.Unresolved,
		Warnings:   result.Warnings,
	}, nil
}

// ExportDeck renders a deck as text.
func (s *Services) ExportDeck(id string, format deckexport.ExportFormat, headers bool) (*deckexport.DeckExport, error) {
	d, err := s.Deck(id)
	if err != nil {
		return nil, err
	}
	return deckexport.Export(&d, &deckexport.ExportOptions{Format: format, IncludeHeaders: headers})
}

// DeckStats aggregates a deck's mainboard and commander, plus the
// sideboard when requested.
func (s *Services) DeckStats(id string, includeSideboard bool) (stats.Summary, error) {
	d, err := s.Deck(id)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Compute(stats.DeckItems(&d, includeSideboard)), nil
}

// namedResolver resolves deck list names from the pool first, then by a
// remote named lookup. Remote hits join the pool.
type namedResolver struct {
	ctx context.Context
	s   *Services
}

func (r *namedResolver) Find(l cardpool.Lookup) (models.Card, bool) {
	if card, ok := r.s.Pool.Find(l); ok {
		return card, true
	}
	if r.ctx.Err() != nil {
		return models.Card{}, false
	}
	card, err := r.s.Gateway.FindNamed(r.ctx, l.Name, l.SetCode)
	if err != nil {
		if !scryfall.IsNotFound(err) {
			r.s.logger.Warn("Named card lookup failed", "name", l.Name, "set", l.SetCode, "error", err)
		}
		return models.Card{}, false
	}
	r.s.Pool.Add(*card)
	return *card, true
}
