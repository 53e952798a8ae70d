// Package stats derives dashboard and deck statistics from collection or
// deck snapshots. Everything is recomputed from scratch on each call.
package stats

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Item is one card with its quantity.
type Item struct {
	Card     models.Card
	Quantity int
}

// Summary is the aggregated view of a list of items.
type Summary struct {
	TotalValue         float64        `json:"total_value"`
	UniqueCards        int            `json:"unique_cards"`
	TotalCopies        int            `json:"total_copies"`
	AverageCMC         float64        `json:"average_cmc"`
	TypeDistribution   map[string]int `json:"type_distribution"`
	ColorDistribution  map[string]int `json:"color_distribution"`
	RarityDistribution map[string]int `json:"rarity_distribution"`
	CMCDistribution    map[int]int    `json:"cmc_distribution"`
}

// Compute reduces items into a Summary. Items with a non-positive quantity
// are ignored. Every copy lands in exactly one color and one rarity bucket.
func Compute(items []Item) Summary {
	s := Summary{
		TypeDistribution:   make(map[string]int),
		ColorDistribution:  make(map[string]int),
		RarityDistribution: make(map[string]int),
		CMCDistribution:    make(map[int]int),
	}

	unique := make(map[string]struct{})
	var cmcTotal float64
	nonLand := 0

	for i := range items {
		item := &items[i]
		if item.Quantity <= 0 {
			continue
		}
		card := &item.Card
		q := item.Quantity

		unique[card.ID] = struct{}{}
		s.TotalCopies += q
		s.TotalValue += EstimatePrice(card) * float64(q)

		if typ := card.PrimaryType(); typ != "" {
			s.TypeDistribution[typ] += q
		}
		s.ColorDistribution[ColorBucket(card)] += q
		s.RarityDistribution[rarityBucket(card.Rarity)] += q
		s.CMCDistribution[int(card.CMC)] += q

		if !strings.Contains(strings.ToLower(card.TypeLine), "land") {
			cmcTotal += card.CMC * float64(q)
			nonLand += q
		}
	}

	s.UniqueCards = len(unique)
	if nonLand > 0 {
		s.AverageCMC = cmcTotal / float64(nonLand)
	}
	return s
}

// ColorBucket returns the single color bucket a card counts under: "C" for
// an empty identity, otherwise its first identity symbol in WUBRG order.
func ColorBucket(c *models.Card) string {
	for _, sym := range models.ColorSymbols {
		if sym == models.ColorColorless {
			continue
		}
		if c.HasColor(sym) {
			return sym
		}
	}
	return models.ColorColorless
}

func rarityBucket(r models.Rarity) string {
	if r == "" {
		return "unknown"
	}
	return string(r)
}

// CurveBucket is one bar of a mana curve.
type CurveBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ManaCurve folds the CMC histogram into 0..6 and 7+ buckets.
func (s Summary) ManaCurve() []CurveBucket {
	curve := make([]CurveBucket, 8)
	for i := 0; i < 7; i++ {
		curve[i].Label = strconv.Itoa(i)
	}
	curve[7].Label = "7+"
	for cmc, count := range s.CMCDistribution {
		idx := cmc
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		curve[idx].Count += count
	}
	return curve
}

// SortedKeys returns the keys of a histogram ordered by descending count,
// then name.
func SortedKeys(h map[string]int) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if h[keys[i]] != h[keys[j]] {
			return h[keys[i]] > h[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// CollectionItems flattens a collection. Foil and non-foil lines of the
// same card stay separate items.
func CollectionItems(c *models.Collection) []Item {
	items := make([]Item, 0, len(c.Cards))
	for _, e := range c.Cards {
		items = append(items, Item{Card: e.Card, Quantity: e.Quantity})
	}
	return items
}

// CollectionsItems flattens several collections, as shown on the dashboard.
func CollectionsItems(collections []models.Collection) []Item {
	var items []Item
	for i := range collections {
		items = append(items, CollectionItems(&collections[i])...)
	}
	return items
}

// DeckItems flattens a deck's commander and mainboard, plus the sideboard
// when includeSideboard is set.
func DeckItems(d *models.Deck, includeSideboard bool) []Item {
	items := make([]Item, 0, len(d.Mainboard)+len(d.Sideboard)+1)
	if d.Commander != nil {
		items = append(items, Item{Card: d.Commander.Card, Quantity: d.Commander.Quantity})
	}
	for _, e := range d.Mainboard {
		items = append(items, Item{Card: e.Card, Quantity: e.Quantity})
	}
	if includeSideboard {
		for _, e := range d.Sideboard {
			items = append(items, Item{Card: e.Card, Quantity: e.Quantity})
		}
	}
	return items
}
