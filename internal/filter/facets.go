// Package filter holds the card filter facets and the two ways of
// evaluating them: a remote Scryfall query and a local predicate over an
// in-memory card list.
package filter

import (
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// All is the facet value meaning "no restriction".
const All = "all"

// FoilFilter restricts results by finish.
type FoilFilter string

const (
	FoilAll     FoilFilter = "all"
	FoilOnly    FoilFilter = "foil"
	FoilNonFoil FoilFilter = "nonfoil"
)

// SortField selects the ordering of the local list.
type SortField string

const (
	SortEdition SortField = "edition"
	SortName    SortField = "name"
)

// Facets is the complete set of filter dimensions for one card browser.
// The zero value is equivalent to Default().
type Facets struct {
	SearchText    string     `json:"search_text"`
	Type          string     `json:"type"`
	Rarity        string     `json:"rarity"`
	CMC           string     `json:"cmc"`
	Power         string     `json:"power"`
	Toughness     string     `json:"toughness"`
	OracleText    string     `json:"oracle_text"`
	Colors        []string   `json:"colors"`
	Foil          FoilFilter `json:"foil"`
	SortBy        SortField  `json:"sort_by"`
	SortAscending bool       `json:"sort_ascending"`
	OwnedOnly     bool       `json:"owned_only"`
}

// Default returns the facet set with every dimension at its "all" value
// and every color toggle active.
func Default() Facets {
	colors := make([]string, len(models.ColorSymbols))
	copy(colors, models.ColorSymbols)
	return Facets{
		Type:   All,
		Rarity: All,
		Colors: colors,
		Foil:   FoilAll,
		SortBy: SortEdition,
	}
}

// Clone returns a deep copy of f.
func (f Facets) Clone() Facets {
	out := f
	if f.Colors != nil {
		out.Colors = make([]string, len(f.Colors))
		copy(out.Colors, f.Colors)
	}
	return out
}

// HasSpecificFilters reports whether any remote facet departs from its
// default. It is derived from the query fragments so the fetch-or-filter
// decision and the query text always agree.
func (f Facets) HasSpecificFilters() bool {
	return len(f.fragments()) > 0
}

// colorRestriction returns the active non-colorless symbols in WUBRG order,
// whether colorless is active, and whether the toggles restrict anything.
func (f Facets) colorRestriction() (symbols []string, colorless bool, restricted bool) {
	active := make(map[string]bool, len(f.Colors))
	for _, c := range f.Colors {
		active[strings.ToUpper(strings.TrimSpace(c))] = true
	}

	count := 0
	for _, sym := range models.ColorSymbols {
		if active[sym] {
			count++
		}
	}
	if count == 0 || count == len(models.ColorSymbols) {
		return nil, false, false
	}

	for _, sym := range models.ColorSymbols {
		if sym == models.ColorColorless {
			continue
		}
		if active[sym] {
			symbols = append(symbols, sym)
		}
	}
	return symbols, active[models.ColorColorless], true
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

func (f Facets) foil() FoilFilter {
	switch FoilFilter(strings.ToLower(string(f.Foil))) {
	case FoilOnly:
		return FoilOnly
	case FoilNonFoil:
		return FoilNonFoil
	default:
		return FoilAll
	}
}
