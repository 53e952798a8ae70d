package state

import (
	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	action()
}

// Login signs User in. No credentials are checked.
type Login struct{ User models.User }

// Logout clears the signed-in user.
type Logout struct{}

// PutCollection adds a collection or replaces the one with the same id.
type PutCollection struct{ Collection models.Collection }

// DeleteCollection removes a collection.
type DeleteCollection struct{ ID string }

// AddToCollection adds copies of a card to a collection.
type AddToCollection struct {
	CollectionID string
	Card         models.Card
	Quantity     int
	Options      collection.AddOptions
}

// MergeIntoCollection adds every entry to the current version of a
// collection, merging on (card id, foil).
type MergeIntoCollection struct {
	CollectionID string
	Entries      []models.CollectionEntry
}

// RenameCollection changes a collection's name and description.
type RenameCollection struct {
	ID          string
	Name        string
	Description string
}

// SetCollectionQuantity sets the quantity of an entry; zero removes it.
type SetCollectionQuantity struct {
	CollectionID string
	CardID       string
	Foil         bool
	Quantity     int
}

// PutDeck adds a deck or replaces the one with the same id.
type PutDeck struct{ Deck models.Deck }

// DeleteDeck removes a deck.
type DeleteDeck struct{ ID string }

// AddToDeck adds copies of a card to a deck board.
type AddToDeck struct {
	DeckID   string
	Card     models.Card
	Quantity int
	Board    deck.Board
}

// RemoveFromDeck removes a card from a deck board.
type RemoveFromDeck struct {
	DeckID string
	CardID string
	Board  deck.Board
}

// MoveInDeck moves copies between boards.
type MoveInDeck struct {
	DeckID   string
	CardID   string
	From, To deck.Board
	Quantity int
}

// SaveFilter stores a saved filter.
type SaveFilter struct{ Filter filter.SavedFilter }

// DeleteFilter removes a saved filter.
type DeleteFilter struct{ ID string }

// ApplyFilter replaces every live facet of the filter's browser with the
// saved snapshot.
type ApplyFilter struct{ ID string }

// SetFacets replaces the live facets of one browser.
type SetFacets struct {
	Context string
	Facets  filter.Facets
}

// ResetFacets restores one browser's default facets.
type ResetFacets struct{ Context string }

// Hydrate installs persisted state at startup.
type Hydrate struct {
	User        *models.User
	Collections []models.Collection
	Decks       []models.Deck
	Filters     []filter.SavedFilter
}

func (Login) action()                 {}
func (Logout) action()                {}
func (PutCollection) action()         {}
func (DeleteCollection) action()      {}
func (AddToCollection) action()       {}
func (MergeIntoCollection) action()   {}
func (RenameCollection) action()      {}
func (SetCollectionQuantity) action() {}
func (PutDeck) action()               {}
func (DeleteDeck) action()            {}
func (AddToDeck) action()             {}
func (RemoveFromDeck) action()        {}
func (MoveInDeck) action()            {}
func (SaveFilter) action()            {}
func (DeleteFilter) action()          {}
func (ApplyFilter) action()           {}
func (SetFacets) action()             {}
func (ResetFacets) action()           {}
func (Hydrate) action()               {}
