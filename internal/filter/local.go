package filter

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/normalize"
)

// Ownership answers how many copies of a card are owned, per finish.
type Ownership interface {
	Quantities(cardID string) (nonFoil, foil int)
}

// Apply evaluates the facet set against an in-memory card list and returns
// a new, sorted slice. The input is not modified. ownership may be nil, in
// which case OwnedOnly matches nothing and the foil facet falls back to the
// finishes the card was printed in.
func Apply(cards []models.Card, f Facets, ownership Ownership) []models.Card {
	out := make([]models.Card, 0, len(cards))
	m := newMatcher(f, ownership)
	for i := range cards {
		if m.match(&cards[i]) {
			out = append(out, cards[i])
		}
	}
	Sort(out, f.SortBy, f.SortAscending)
	return out
}

// ApplyLocalOnly evaluates only the facets a remote search cannot express,
// ownership and sort order, for a page already narrowed by the remote
// query. The input is not modified.
func ApplyLocalOnly(cards []models.Card, f Facets, ownership Ownership) []models.Card {
	out := make([]models.Card, 0, len(cards))
	for i := range cards {
		if f.OwnedOnly && !owned(ownership, cards[i].ID) {
			continue
		}
		out = append(out, cards[i])
	}
	Sort(out, f.SortBy, f.SortAscending)
	return out
}

func owned(ownership Ownership, cardID string) bool {
	if ownership == nil {
		return false
	}
	nonFoil, foil := ownership.Quantities(cardID)
	return nonFoil+foil > 0
}

// Sort orders cards in place. Name sorting uses a locale collator; edition
// sorting uses the release date, newest first unless ascending is set.
func Sort(cards []models.Card, by SortField, ascending bool) {
	switch by {
	case SortName:
		c := newNameCollator()
		sort.SliceStable(cards, func(i, j int) bool {
			cmp := c.CompareString(cards[i].Name, cards[j].Name)
			if ascending {
				return cmp < 0
			}
			return cmp > 0
		})
	default:
		sort.SliceStable(cards, func(i, j int) bool {
			ti, tj := cards[i].ReleaseTime(), cards[j].ReleaseTime()
			if ascending {
				return ti.Before(tj)
			}
			return ti.After(tj)
		})
	}
}

// CompareNames compares two card names with the collator used by Sort.
func CompareNames(a, b string) int {
	return newNameCollator().CompareString(a, b)
}

func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

type matcher struct {
	f         Facets
	ownership Ownership

	search    string
	oracle    string
	typ       string
	rarity    string
	cmc       *float64
	cmcBad    bool
	symbols   map[string]bool
	colorless bool
	colors    bool
	foil      FoilFilter
}

func newMatcher(f Facets, ownership Ownership) *matcher {
	m := &matcher{
		f:         f,
		ownership: ownership,
		search:    normalize.String(strings.TrimSpace(f.SearchText)),
		oracle:    normalize.String(strings.TrimSpace(f.OracleText)),
		foil:      f.foil(),
	}
	if !isAll(f.Type) {
		m.typ = normalize.String(strings.TrimSpace(f.Type))
	}
	if !isAll(f.Rarity) {
		m.rarity = strings.ToLower(strings.TrimSpace(f.Rarity))
	}
	if v := strings.TrimSpace(f.CMC); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			m.cmcBad = true
		} else {
			m.cmc = &parsed
		}
	}
	symbols, colorless, restricted := f.colorRestriction()
	if restricted {
		m.colors = true
		m.colorless = colorless
		m.symbols = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			m.symbols[s] = true
		}
	}
	return m
}

func (m *matcher) match(c *models.Card) bool {
	if m.search != "" {
		if !normalize.Contains(c.Name, m.search) &&
			!normalize.Contains(c.TypeLine, m.search) &&
			!normalize.Contains(c.FullOracleText(), m.search) {
			return false
		}
	}
	if m.typ != "" && !normalize.Contains(c.TypeLine, m.typ) {
		return false
	}
	if m.rarity != "" && string(c.Rarity) != m.rarity {
		return false
	}
	if m.cmcBad {
		return false
	}
	if m.cmc != nil && c.CMC != *m.cmc {
		return false
	}
	if v := strings.TrimSpace(m.f.Power); v != "" && !statMatches(c, v, powerOf) {
		return false
	}
	if v := strings.TrimSpace(m.f.Toughness); v != "" && !statMatches(c, v, toughnessOf) {
		return false
	}
	if m.oracle != "" && !normalize.Contains(c.FullOracleText(), m.oracle) {
		return false
	}
	if m.colors && !m.matchColors(c) {
		return false
	}
	if m.foil != FoilAll && !m.matchFoil(c) {
		return false
	}
	if m.f.OwnedOnly && !owned(m.ownership, c.ID) {
		return false
	}
	return true
}

func powerOf(c *models.Card, face int) string {
	if face < 0 {
		return c.Power
	}
	return c.CardFaces[face].Power
}

func toughnessOf(c *models.Card, face int) string {
	if face < 0 {
		return c.Toughness
	}
	return c.CardFaces[face].Toughness
}

// statMatches compares v with the card's own stat and, like Scryfall's
// pow= and tou=, with the stat of every face.
func statMatches(c *models.Card, v string, stat func(*models.Card, int) string) bool {
	if strings.TrimSpace(stat(c, -1)) == v {
		return true
	}
	for i := range c.CardFaces {
		if strings.TrimSpace(stat(c, i)) == v {
			return true
		}
	}
	return false
}

// matchColors mirrors the remote identity predicate: with colored toggles
// active the card's identity must be a subset of them; with only colorless
// active the card must be colorless.
func (m *matcher) matchColors(c *models.Card) bool {
	if len(m.symbols) == 0 {
		return m.colorless && c.IsColorless()
	}
	for _, s := range c.ColorIdentity {
		if !m.symbols[strings.ToUpper(s)] {
			return false
		}
	}
	return true
}

func (m *matcher) matchFoil(c *models.Card) bool {
	if m.ownership != nil {
		nonFoil, foil := m.ownership.Quantities(c.ID)
		if nonFoil+foil > 0 {
			if m.foil == FoilOnly {
				return foil > 0
			}
			return nonFoil > 0
		}
	}
	if m.foil == FoilOnly {
		return c.Foil
	}
	return c.NonFoil
}
