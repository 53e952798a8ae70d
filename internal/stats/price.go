package stats

import (
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// CurrencyRate converts the USD-denominated base prices to the display
// currency (BRL).
const CurrencyRate = 5.2

// basePrices is the placeholder price per rarity, in USD.
var basePrices = map[models.Rarity]float64{
	models.RarityCommon:   0.5,
	models.RarityUncommon: 2.0,
	models.RarityRare:     15.0,
	models.RarityMythic:   35.0,
}

// typeMultipliers is checked in order; the first type found in the type
// line wins.
var typeMultipliers = []struct {
	typ        string
	multiplier float64
}{
	{"planeswalker", 2.0},
	{"legendary", 1.5},
	{"creature", 1.0},
	{"artifact", 1.2},
	{"enchantment", 1.1},
	{"instant", 0.9},
	{"sorcery", 0.9},
	{"land", 0.8},
}

// BasePrice returns the rarity base price. Unknown rarities price as common.
func BasePrice(r models.Rarity) float64 {
	if p, ok := basePrices[r]; ok {
		return p
	}
	return basePrices[models.RarityCommon]
}

// TypeMultiplier returns the multiplier of the first matching type.
func TypeMultiplier(typeLine string) float64 {
	lower := strings.ToLower(typeLine)
	for _, tm := range typeMultipliers {
		if strings.Contains(lower, tm.typ) {
			return tm.multiplier
		}
	}
	return 1.0
}

// PriceVariation derives a stable factor in [0.80, 1.20] from the first two
// characters of the card id, so repeated estimates agree.
func PriceVariation(cardID string) float64 {
	if len(cardID) < 2 {
		return 1.0
	}
	seed := int(cardID[0]) + int(cardID[1])
	return 0.8 + float64(seed%41)/100
}

// EstimatePrice is the synthetic per-copy price of a card. It is a
// placeholder estimator, not a market lookup.
func EstimatePrice(c *models.Card) float64 {
	return BasePrice(c.Rarity) * TypeMultiplier(c.TypeLine) * PriceVariation(c.ID) * CurrencyRate
}
