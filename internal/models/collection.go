package models

import "time"

// Card conditions.
const (
	ConditionNearMint         = "NM"
	ConditionLightlyPlayed    = "LP"
	ConditionModeratelyPlayed = "MP"
	ConditionHeavilyPlayed    = "HP"
	ConditionDamaged          = "DMG"
)

// DefaultCondition and DefaultLanguage apply when an entry does not specify them.
const (
	DefaultCondition = ConditionNearMint
	DefaultLanguage  = "en"
)

// CollectionEntry is one inventory line. A collection holds at most one
// entry per (card id, foil) pair and never stores a zero quantity.
type CollectionEntry struct {
	Card          Card      `json:"card"`
	Quantity      int       `json:"quantity"`
	Condition     string    `json:"condition"`
	Foil          bool      `json:"foil"`
	Language      string    `json:"language,omitempty"`
	PurchasePrice float64   `json:"purchase_price,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

// Collection is a named set of owned cards.
type Collection struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Cards       []CollectionEntry `json:"cards"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TotalCopies returns the sum of all entry quantities.
func (c *Collection) TotalCopies() int {
	total := 0
	for _, e := range c.Cards {
		total += e.Quantity
	}
	return total
}
