package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// ErrNotFound is wrapped by errors for unknown ids.
var ErrNotFound = errors.New("not found")

// Change flags the state categories an action touched. Each persisted
// category maps to one stored blob.
type Change uint8

const (
	ChangeUser Change = 1 << iota
	ChangeCollections
	ChangeDecks
	ChangeFilters
	ChangeFacets
)

// Has reports whether c includes flag.
func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

// Reduce applies a to s. It returns the next state and what changed; on
// error s is returned unchanged.
func Reduce(s AppState, a Action) (AppState, Change, error) {
	switch a := a.(type) {
	case Hydrate:
		s.User = a.User
		s.Collections = nonNil(a.Collections)
		s.Decks = nonNil(a.Decks)
		s.Filters = nonNil(a.Filters)
		return s, 0, nil

	case Login:
		if strings.TrimSpace(a.User.Name) == "" {
			return s, 0, models.NewValidationError("name", "name is required")
		}
		u := a.User
		s.User = &u
		return s, ChangeUser, nil

	case Logout:
		if s.User == nil {
			return s, 0, nil
		}
		s.User = nil
		return s, ChangeUser, nil

	case PutCollection:
		s.Collections = put(s.Collections, a.Collection, func(c models.Collection) string { return c.ID })
		return s, ChangeCollections, nil

	case DeleteCollection:
		next, ok := remove(s.Collections, a.ID, func(c models.Collection) string { return c.ID })
		if !ok {
			return s, 0, fmt.Errorf("collection %s: %w", a.ID, ErrNotFound)
		}
		s.Collections = next
		return s, ChangeCollections, nil

	case AddToCollection:
		c, ok := s.Collection(a.CollectionID)
		if !ok {
			return s, 0, fmt.Errorf("collection %s: %w", a.CollectionID, ErrNotFound)
		}
		if a.Quantity <= 0 {
			return s, 0, models.NewValidationError("quantity", "must be positive")
		}
		c = collection.AddCard(c, a.Card, a.Quantity, a.Options)
		s.Collections = put(s.Collections, c, func(c models.Collection) string { return c.ID })
		return s, ChangeCollections, nil

	case MergeIntoCollection:
		return updateCollection(s, a.CollectionID, func(c models.Collection) (models.Collection, error) {
			return collection.Merge(c, a.Entries), nil
		})

	case RenameCollection:
		return updateCollection(s, a.ID, func(c models.Collection) (models.Collection, error) {
			return collection.Rename(c, a.Name, a.Description)
		})

	case SetCollectionQuantity:
		c, ok := s.Collection(a.CollectionID)
		if !ok {
			return s, 0, fmt.Errorf("collection %s: %w", a.CollectionID, ErrNotFound)
		}
		c, err := collection.SetQuantity(c, a.CardID, a.Foil, a.Quantity)
		if err != nil {
			return s, 0, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		s.Collections = put(s.Collections, c, func(c models.Collection) string { return c.ID })
		return s, ChangeCollections, nil

	case PutDeck:
		s.Decks = put(s.Decks, a.Deck, func(d models.Deck) string { return d.ID })
		return s, ChangeDecks, nil

	case DeleteDeck:
		next, ok := remove(s.Decks, a.ID, func(d models.Deck) string { return d.ID })
		if !ok {
			return s, 0, fmt.Errorf("deck %s: %w", a.ID, ErrNotFound)
		}
		s.Decks = next
		return s, ChangeDecks, nil

	case AddToDeck:
		return updateDeck(s, a.DeckID, func(d models.Deck) (models.Deck, error) {
			return deck.AddCard(d, a.Card, a.Quantity, a.Board)
		})

	case RemoveFromDeck:
		return updateDeck(s, a.DeckID, func(d models.Deck) (models.Deck, error) {
			return deck.RemoveCard(d, a.CardID, a.Board), nil
		})

	case MoveInDeck:
		return updateDeck(s, a.DeckID, func(d models.Deck) (models.Deck, error) {
			return deck.MoveCard(d, a.CardID, a.From, a.To, a.Quantity)
		})

	case SaveFilter:
		s.Filters = put(s.Filters, a.Filter, func(f filter.SavedFilter) string { return f.ID })
		return s, ChangeFilters, nil

	case DeleteFilter:
		next, ok := remove(s.Filters, a.ID, func(f filter.SavedFilter) string { return f.ID })
		if !ok {
			return s, 0, fmt.Errorf("filter %s: %w", a.ID, ErrNotFound)
		}
		s.Filters = next
		return s, ChangeFilters, nil

	case ApplyFilter:
		f, ok := s.Filter(a.ID)
		if !ok {
			return s, 0, fmt.Errorf("filter %s: %w", a.ID, ErrNotFound)
		}
		s.Facets = s.Facets.With(f.Context, f.Replay())
		return s, ChangeFacets, nil

	case SetFacets:
		s.Facets = s.Facets.With(a.Context, a.Facets)
		return s, ChangeFacets, nil

	case ResetFacets:
		s.Facets = s.Facets.With(a.Context, filter.Default())
		return s, ChangeFacets, nil
	}

	return s, 0, fmt.Errorf("unknown action %T", a)
}

func updateCollection(s AppState, id string, fn func(models.Collection) (models.Collection, error)) (AppState, Change, error) {
	c, ok := s.Collection(id)
	if !ok {
		return s, 0, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	c, err := fn(c)
	if err != nil {
		return s, 0, err
	}
	s.Collections = put(s.Collections, c, func(c models.Collection) string { return c.ID })
	return s, ChangeCollections, nil
}

func updateDeck(s AppState, id string, fn func(models.Deck) (models.Deck, error)) (AppState, Change, error) {
	d, ok := s.Deck(id)
	if !ok {
		return s, 0, fmt.Errorf("deck %s: %w", id, ErrNotFound)
	}
	d, err := fn(d)
	if err != nil {
		return s, 0, err
	}
	s.Decks = put(s.Decks, d, func(d models.Deck) string { return d.ID })
	return s, ChangeDecks, nil
}

// put returns a new slice with v replacing the element of the same id, or
// appended.
func put[T any](list []T, v T, id func(T) string) []T {
	out := make([]T, 0, len(list)+1)
	replaced := false
	for _, item := range list {
		if id(item) == id(v) {
			out = append(out, v)
			replaced = true
			continue
		}
		out = append(out, item)
	}
	if !replaced {
		out = append(out, v)
	}
	return out
}

func remove[T any](list []T, target string, id func(T) string) ([]T, bool) {
	out := make([]T, 0, len(list))
	found := false
	for _, item := range list {
		if id(item) == target {
			found = true
			continue
		}
		out = append(out, item)
	}
	return out, found
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
