// Package state owns the application state. Every change goes through
// Reduce, a single function from (state, action) to the next state; Store
// wraps it with locking, persistence and event notification.
package state

import (
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// AppState is the complete application state. Values are replaced, never
// mutated in place, so a copy handed to a reader stays valid.
type AppState struct {
	User        *models.User         `json:"user,omitempty"`
	Collections []models.Collection  `json:"collections"`
	Decks       []models.Deck        `json:"decks"`
	Filters     []filter.SavedFilter `json:"filters"`
	Facets      FacetState           `json:"facets"`
}

// FacetState is the live facet set of each card browser, kept apart from
// the rest of the state so filtering code depends on nothing else.
type FacetState struct {
	Collection filter.Facets `json:"collection"`
	Deck       filter.Facets `json:"deck"`
}

// DefaultFacetState has every browser at its default facets.
func DefaultFacetState() FacetState {
	return FacetState{Collection: filter.Default(), Deck: filter.Default()}
}

// Get returns the facets of a browser context.
func (f FacetState) Get(context string) filter.Facets {
	if context == filter.ContextDeck {
		return f.Deck.Clone()
	}
	return f.Collection.Clone()
}

// With returns a copy with the facets of context replaced.
func (f FacetState) With(context string, facets filter.Facets) FacetState {
	if context == filter.ContextDeck {
		f.Deck = facets.Clone()
	} else {
		f.Collection = facets.Clone()
	}
	return f
}

// New returns the initial state.
func New() AppState {
	return AppState{
		Collections: []models.Collection{},
		Decks:       []models.Deck{},
		Filters:     []filter.SavedFilter{},
		Facets:      DefaultFacetState(),
	}
}

// Collection finds a collection by id.
func (s AppState) Collection(id string) (models.Collection, bool) {
	for _, c := range s.Collections {
		if c.ID == id {
			return c, true
		}
	}
	return models.Collection{}, false
}

// Deck finds a deck by id.
func (s AppState) Deck(id string) (models.Deck, bool) {
	for _, d := range s.Decks {
		if d.ID == id {
			return d, true
		}
	}
	return models.Deck{}, false
}

// Filter finds a saved filter by id.
func (s AppState) Filter(id string) (filter.SavedFilter, bool) {
	for _, f := range s.Filters {
		if f.ID == id {
			return f, true
		}
	}
	return filter.SavedFilter{}, false
}

// LoggedIn reports whether a user is signed in.
func (s AppState) LoggedIn() bool {
	return s.User != nil
}
