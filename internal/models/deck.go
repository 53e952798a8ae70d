package models

import "time"

// DeckFormat is a constructed play format.
type DeckFormat string

const (
	FormatStandard  DeckFormat = "standard"
	FormatModern    DeckFormat = "modern"
	FormatLegacy    DeckFormat = "legacy"
	FormatVintage   DeckFormat = "vintage"
	FormatCommander DeckFormat = "commander"
	FormatPioneer   DeckFormat = "pioneer"
)

// DeckFormats lists the supported formats.
var DeckFormats = []DeckFormat{FormatStandard, FormatModern, FormatLegacy, FormatVintage, FormatCommander, FormatPioneer}

// Valid reports whether f is a supported format.
func (f DeckFormat) Valid() bool {
	for _, known := range DeckFormats {
		if f == known {
			return true
		}
	}
	return false
}

// DeckCardEntry is a card placed in a deck.
type DeckCardEntry struct {
	Card        Card `json:"card"`
	Quantity    int  `json:"quantity"`
	IsCommander bool `json:"is_commander,omitempty"`
	IsSideboard bool `json:"is_sideboard,omitempty"`
}

// Deck holds three disjoint groupings: mainboard, sideboard and an
// optional single commander.
type Deck struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Format      DeckFormat      `json:"format"`
	Description string          `json:"description,omitempty"`
	Mainboard   []DeckCardEntry `json:"mainboard"`
	Sideboard   []DeckCardEntry `json:"sideboard"`
	Commander   *DeckCardEntry  `json:"commander,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MainboardCount returns the number of cards in the mainboard, commander included.
func (d *Deck) MainboardCount() int {
	total := 0
	for _, e := range d.Mainboard {
		total += e.Quantity
	}
	if d.Commander != nil {
		total += d.Commander.Quantity
	}
	return total
}

// SideboardCount returns the number of cards in the sideboard.
func (d *Deck) SideboardCount() int {
	total := 0
	for _, e := range d.Sideboard {
		total += e.Quantity
	}
	return total
}
