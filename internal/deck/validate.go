package deck

import (
	"fmt"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Format rules for constructed decks.
const (
	MinConstructedSize = 60
	MaxSideboardSize   = 15
	MaxCopies          = 4
	CommanderDeckSize  = 100
)

var basicLands = map[string]bool{
	"Plains": true, "Island": true, "Swamp": true, "Mountain": true, "Forest": true, "Wastes": true,
	"Snow-Covered Plains": true, "Snow-Covered Island": true, "Snow-Covered Swamp": true,
	"Snow-Covered Mountain": true, "Snow-Covered Forest": true,
}

// Legality is the result of checking a deck against its format.
type Legality struct {
	Format  models.DeckFormat `json:"format"`
	Legal   bool              `json:"legal"`
	Reasons []string          `json:"reasons,omitempty"`
}

func (l *Legality) fail(format string, args ...any) {
	l.Legal = false
	l.Reasons = append(l.Reasons, fmt.Sprintf(format, args...))
}

// Validate checks deck size, copy limits, commander rules and the per-card
// legalities reported by Scryfall.
func Validate(d models.Deck) Legality {
	legality := Legality{Format: d.Format, Legal: true}

	counts := make(map[string]int)
	cards := make(map[string]models.Card)
	for _, e := range d.Mainboard {
		counts[e.Card.ID] += e.Quantity
		cards[e.Card.ID] = e.Card
	}
	if d.Format != models.FormatCommander {
		for _, e := range d.Sideboard {
			counts[e.Card.ID] += e.Quantity
			cards[e.Card.ID] = e.Card
		}
	}

	total := d.MainboardCount()
	if d.Format == models.FormatCommander {
		if d.Commander == nil {
			legality.fail("Commander decks need a commander")
		}
		if total != CommanderDeckSize {
			legality.fail("Commander decks must have exactly %d cards including the commander (currently %d)", CommanderDeckSize, total)
		}
		for id, n := range counts {
			if n > 1 && !basicLands[cards[id].Name] {
				legality.fail("Card '%s' has %d copies (singleton format allows only 1)", cards[id].Name, n)
			}
		}
	} else {
		if total < MinConstructedSize {
			legality.fail("Deck has only %d cards (minimum %d for constructed)", total, MinConstructedSize)
		}
		if sb := d.SideboardCount(); sb > MaxSideboardSize {
			legality.fail("Sideboard has %d cards (maximum %d)", sb, MaxSideboardSize)
		}
		if d.Commander != nil {
			legality.fail("%s decks cannot have a commander", d.Format)
		}
		for id, n := range counts {
			if n > MaxCopies && !basicLands[cards[id].Name] {
				legality.fail("Card '%s' has %d copies (maximum %d)", cards[id].Name, n, MaxCopies)
			}
		}
	}

	check := func(c models.Card) {
		status, ok := c.Legalities[string(d.Format)]
		if !ok {
			return
		}
		switch status {
		case "banned":
			legality.fail("Card '%s' is banned in %s", c.Name, d.Format)
		case "not_legal":
			legality.fail("Card '%s' is not legal in %s", c.Name, d.Format)
		}
	}
	if d.Commander != nil {
		check(d.Commander.Card)
	}
	for _, e := range d.Mainboard {
		check(e.Card)
	}
	for _, e := range d.Sideboard {
		check(e.Card)
	}

	return legality
}
