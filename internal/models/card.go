// Package models defines the domain types shared by the collection manager.
package models

import (
	"strings"
	"time"
)

// Rarity is the printed rarity of a card.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// Rarities lists the rarities in ascending order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

// Color symbols used in color identity.
const (
	ColorWhite     = "W"
	ColorBlue      = "U"
	ColorBlack     = "B"
	ColorRed       = "R"
	ColorGreen     = "G"
	ColorColorless = "C"
)

// ColorSymbols is the fixed symbol set, in WUBRG order followed by colorless.
var ColorSymbols = []string{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen, ColorColorless}

// colorNames maps a symbol to its display name.
var colorNames = map[string]string{
	ColorWhite:     "White",
	ColorBlue:      "Blue",
	ColorBlack:     "Black",
	ColorRed:       "Red",
	ColorGreen:     "Green",
	ColorColorless: "Colorless",
}

// ColorName returns the display name of a color symbol, or the symbol itself.
func ColorName(symbol string) string {
	if name, ok := colorNames[strings.ToUpper(symbol)]; ok {
		return name
	}
	return symbol
}

// ManaSymbolURL returns the Scryfall SVG for a mana symbol.
func ManaSymbolURL(symbol string) string {
	return "https://svgs.scryfall.io/card-symbols/" + strings.ToUpper(symbol) + ".svg"
}

// Card is one printed card face as returned by Scryfall.
// Cards are never mutated after decoding.
type Card struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id,omitempty"`
	Name            string            `json:"name"`
	Lang            string            `json:"lang,omitempty"`
	ReleasedAt      string            `json:"released_at,omitempty"`
	SetCode         string            `json:"set"`
	SetName         string            `json:"set_name"`
	CollectorNumber string            `json:"collector_number"`
	ManaCost        string            `json:"mana_cost,omitempty"`
	CMC             float64           `json:"cmc"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text,omitempty"`
	Power           string            `json:"power,omitempty"`
	Toughness       string            `json:"toughness,omitempty"`
	Loyalty         string            `json:"loyalty,omitempty"`
	Colors          []string          `json:"colors,omitempty"`
	ColorIdentity   []string          `json:"color_identity"`
	Rarity          Rarity            `json:"rarity"`
	Artist          string            `json:"artist,omitempty"`
	ImageURIs       *ImageURIs        `json:"image_uris,omitempty"`
	CardFaces       []CardFace        `json:"card_faces,omitempty"`
	Legalities      map[string]string `json:"legalities,omitempty"`
	Foil            bool              `json:"foil,omitempty"`
	NonFoil         bool              `json:"nonfoil,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	Power      string     `json:"power,omitempty"`
	Toughness  string     `json:"toughness,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small   string `json:"small,omitempty"`
	Normal  string `json:"normal,omitempty"`
	Large   string `json:"large,omitempty"`
	PNG     string `json:"png,omitempty"`
	ArtCrop string `json:"art_crop,omitempty"`
}

// DisplayImage returns the card images, falling back to the first face
// for double-faced cards.
func (c *Card) DisplayImage() *ImageURIs {
	if c.ImageURIs != nil {
		return c.ImageURIs
	}
	for _, face := range c.CardFaces {
		if face.ImageURIs != nil {
			return face.ImageURIs
		}
	}
	return nil
}

// FullOracleText joins the oracle text of every face.
func (c *Card) FullOracleText() string {
	if c.OracleText != "" || len(c.CardFaces) == 0 {
		return c.OracleText
	}
	parts := make([]string, 0, len(c.CardFaces))
	for _, face := range c.CardFaces {
		if face.OracleText != "" {
			parts = append(parts, face.OracleText)
		}
	}
	return strings.Join(parts, "\n//\n")
}

// PrimaryType returns the first word of the type line before the em dash,
// lowercased and restricted to letters. "Legendary Creature — Elf" yields
// "legendary".
func (c *Card) PrimaryType() string {
	head := c.TypeLine
	if i := strings.Index(head, "—"); i >= 0 {
		head = head[:i]
	}
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(fields[0]) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ReleaseTime parses ReleasedAt. Cards without a release date report the
// zero Unix time so they sort as the oldest printing.
func (c *Card) ReleaseTime() time.Time {
	if c.ReleasedAt == "" {
		return time.Unix(0, 0).UTC()
	}
	t, err := time.Parse("2006-01-02", c.ReleasedAt)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// IsColorless reports whether the card has an empty color identity.
func (c *Card) IsColorless() bool {
	return len(c.ColorIdentity) == 0
}

// HasColor reports whether symbol is part of the card's color identity.
func (c *Card) HasColor(symbol string) bool {
	for _, s := range c.ColorIdentity {
		if strings.EqualFold(s, symbol) {
			return true
		}
	}
	return false
}
