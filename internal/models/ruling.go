package models

// RulingSource is one entry shown in the rulings panel of a card.
// It is one of ScryfallRuling, FallbackRuling or ErrorRuling.
type RulingSource interface {
	rulingSource()
	Kind() string
}

// ScryfallRuling is an official ruling returned by the API.
type ScryfallRuling struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// FallbackRuling is shown when the card has no published rulings.
type FallbackRuling struct {
	Message string `json:"message"`
}

// ErrorRuling is shown when rulings could not be fetched.
type ErrorRuling struct {
	Message string `json:"message"`
}

func (ScryfallRuling) rulingSource() {}
func (FallbackRuling) rulingSource() {}
func (ErrorRuling) rulingSource()    {}

func (ScryfallRuling) Kind() string { return "scryfall" }
func (FallbackRuling) Kind() string { return "fallback" }
func (ErrorRuling) Kind() string    { return "error" }
