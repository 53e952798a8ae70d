package filter

import (
	"strings"
)

// BaseScope anchors every remote query to physical cards.
const BaseScope = "game:paper"

// BuildQuery converts the facet set into a Scryfall search query.
// Identical facet sets always produce identical queries.
func BuildQuery(f Facets) string {
	parts := append([]string{BaseScope}, f.fragments()...)
	return strings.Join(parts, " ")
}

// fragments returns one predicate per non-default remote facet, in a fixed order.
func (f Facets) fragments() []string {
	var out []string

	if text := quoteless(f.SearchText); text != "" {
		out = append(out, `"`+text+`"`)
	}
	if !isAll(f.Type) {
		out = append(out, "t:"+strings.ToLower(strings.TrimSpace(f.Type)))
	}
	if !isAll(f.Rarity) {
		out = append(out, "r:"+strings.ToLower(strings.TrimSpace(f.Rarity)))
	}
	if v := strings.TrimSpace(f.CMC); v != "" {
		out = append(out, "cmc="+v)
	}
	if v := strings.TrimSpace(f.Power); v != "" {
		out = append(out, "pow="+v)
	}
	if v := strings.TrimSpace(f.Toughness); v != "" {
		out = append(out, "tou="+v)
	}
	if text := quoteless(f.OracleText); text != "" {
		out = append(out, `o:"`+text+`"`)
	}
	if symbols, colorless, restricted := f.colorRestriction(); restricted {
		switch {
		case len(symbols) > 0:
			out = append(out, "id:"+strings.ToLower(strings.Join(symbols, "")))
		case colorless:
			out = append(out, "id:c")
		}
	}
	switch f.foil() {
	case FoilOnly:
		out = append(out, "is:foil")
	case FoilNonFoil:
		out = append(out, "is:nonfoil")
	}

	return out
}

func quoteless(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
