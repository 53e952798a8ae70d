// Package collection implements the immutable update operations on owned
// card collections and the ownership index derived from them.
package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// now is swapped in tests.
var now = time.Now

// New creates an empty collection with a fresh id.
func New(name, description string) (models.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Collection{}, models.NewValidationError("name", "collection name is required")
	}
	ts := now()
	return models.Collection{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Cards:       []models.CollectionEntry{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// AddOptions describes how a card is added.
type AddOptions struct {
	Foil          bool
	Condition     string
	Language      string
	PurchasePrice float64
}

// AddCard returns a copy of c with quantity copies of card added. Copies
// merge into the existing entry for the same (card id, foil) pair.
// Non-positive quantities return c unchanged.
func AddCard(c models.Collection, card models.Card, quantity int, opts AddOptions) models.Collection {
	if quantity <= 0 {
		return c
	}

	out := clone(c)
	if i := indexOf(out.Cards, card.ID, opts.Foil); i >= 0 {
		out.Cards[i].Quantity += quantity
	} else {
		entry := models.CollectionEntry{
			Card:          card,
			Quantity:      quantity,
			Condition:     opts.Condition,
			Foil:          opts.Foil,
			Language:      opts.Language,
			PurchasePrice: opts.PurchasePrice,
			AddedAt:       now(),
		}
		if entry.Condition == "" {
			entry.Condition = models.DefaultCondition
		}
		if entry.Language == "" {
			entry.Language = models.DefaultLanguage
		}
		out.Cards = append(out.Cards, entry)
	}
	out.UpdatedAt = now()
	return out
}

// Merge returns a copy of c with every entry added through AddCard, keeping
// each entry's finish, condition, language and price.
func Merge(c models.Collection, entries []models.CollectionEntry) models.Collection {
	for _, e := range entries {
		c = AddCard(c, e.Card, e.Quantity, AddOptions{
			Foil:          e.Foil,
			Condition:     e.Condition,
			Language:      e.Language,
			PurchasePrice: e.PurchasePrice,
		})
	}
	return c
}

// SetQuantity returns a copy of c with the (cardID, foil) entry set to
// quantity. A quantity of zero or less removes the entry. Missing entries
// are reported as an error.
func SetQuantity(c models.Collection, cardID string, foil bool, quantity int) (models.Collection, error) {
	i := indexOf(c.Cards, cardID, foil)
	if i < 0 {
		return c, fmt.Errorf("card %s (foil=%t) not in collection %s", cardID, foil, c.Name)
	}
	if quantity <= 0 {
		return RemoveCard(c, cardID, foil), nil
	}
	out := clone(c)
	out.Cards[i].Quantity = quantity
	out.UpdatedAt = now()
	return out, nil
}

// RemoveCard returns a copy of c without the (cardID, foil) entry.
func RemoveCard(c models.Collection, cardID string, foil bool) models.Collection {
	i := indexOf(c.Cards, cardID, foil)
	if i < 0 {
		return c
	}
	out := clone(c)
	out.Cards = append(out.Cards[:i], out.Cards[i+1:]...)
	out.UpdatedAt = now()
	return out
}

// Rename returns a copy of c with new name and description.
func Rename(c models.Collection, name, description string) (models.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return c, models.NewValidationError("name", "collection name is required")
	}
	out := clone(c)
	out.Name = name
	out.Description = strings.TrimSpace(description)
	out.UpdatedAt = now()
	return out, nil
}

// Entry returns the entry for (cardID, foil).
func Entry(c models.Collection, cardID string, foil bool) (models.CollectionEntry, bool) {
	if i := indexOf(c.Cards, cardID, foil); i >= 0 {
		return c.Cards[i], true
	}
	return models.CollectionEntry{}, false
}

func indexOf(entries []models.CollectionEntry, cardID string, foil bool) int {
	for i := range entries {
		if entries[i].Card.ID == cardID && entries[i].Foil == foil {
			return i
		}
	}
	return -1
}

func clone(c models.Collection) models.Collection {
	out := c
	out.Cards = make([]models.CollectionEntry, len(c.Cards))
	copy(out.Cards, c.Cards)
	return out
}
