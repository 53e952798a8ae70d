package stats

import (
	"math"
	"testing"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

func card(id, name, typeLine string, rarity models.Rarity, cmc float64, identity ...string) models.Card {
	return models.Card{
		ID:            id,
		Name:          name,
		TypeLine:      typeLine,
		Rarity:        rarity,
		CMC:           cmc,
		ColorIdentity: identity,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute_SingleRareCreature(t *testing.T) {
	c := card("ab12", "Grizzly Bears", "Creature — Bear", models.RarityRare, 2, "G")
	s := Compute([]Item{{Card: c, Quantity: 3}})

	if s.TotalCopies != 3 {
		t.Errorf("TotalCopies = %d, want 3", s.TotalCopies)
	}
	if s.UniqueCards != 1 {
		t.Errorf("UniqueCards = %d, want 1", s.UniqueCards)
	}
	if len(s.RarityDistribution) != 1 || s.RarityDistribution["rare"] != 3 {
		t.Errorf("RarityDistribution = %v, want map[rare:3]", s.RarityDistribution)
	}
	want := 15.0 * 1.0 * PriceVariation("ab12") * 5.2 * 3
	if !almostEqual(s.TotalValue, want) {
		t.Errorf("TotalValue = %f, want %f", s.TotalValue, want)
	}
	if s.TypeDistribution["creature"] != 3 {
		t.Errorf("TypeDistribution = %v", s.TypeDistribution)
	}
	if s.ColorDistribution["G"] != 3 {
		t.Errorf("ColorDistribution = %v", s.ColorDistribution)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	if s.TotalCopies != 0 || s.UniqueCards != 0 || s.TotalValue != 0 || s.AverageCMC != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
	for name, h := range map[string]map[string]int{
		"type":   s.TypeDistribution,
		"color":  s.ColorDistribution,
		"rarity": s.RarityDistribution,
	} {
		if h == nil || len(h) != 0 {
			t.Errorf("%s distribution = %v, want empty non-nil map", name, h)
		}
	}
	if s.CMCDistribution == nil || len(s.CMCDistribution) != 0 {
		t.Errorf("CMCDistribution = %v, want empty", s.CMCDistribution)
	}
}

func TestCompute_BucketSumsMatchTotalCopies(t *testing.T) {
	items := []Item{
		{Card: card("aa", "Sol Ring", "Artifact", models.RarityUncommon, 1), Quantity: 2},
		{Card: card("bb", "Niv-Mizzet", "Legendary Creature — Dragon", models.RarityMythic, 6, "U", "R"), Quantity: 1},
		{Card: card("cc", "Forest", "Basic Land — Forest", models.RarityCommon, 0, "G"), Quantity: 10},
		{Card: card("dd", "Counterspell", "Instant", models.RarityCommon, 2, "U"), Quantity: 4},
		{Card: card("ee", "Emrakul", "Legendary Creature — Eldrazi", "", 15), Quantity: 1},
	}
	s := Compute(items)

	sum := func(h map[string]int) int {
		total := 0
		for _, v := range h {
			total += v
		}
		return total
	}
	if got := sum(s.ColorDistribution); got != s.TotalCopies {
		t.Errorf("color buckets sum to %d, want %d", got, s.TotalCopies)
	}
	if got := sum(s.RarityDistribution); got != s.TotalCopies {
		t.Errorf("rarity buckets sum to %d, want %d", got, s.TotalCopies)
	}
	if s.ColorDistribution["C"] != 3 {
		t.Errorf("colorless bucket = %d, want 3", s.ColorDistribution["C"])
	}
	// Multicolor cards land under their first WUBRG symbol.
	if s.ColorDistribution["U"] != 5 {
		t.Errorf("blue bucket = %d, want 5", s.ColorDistribution["U"])
	}
	if s.RarityDistribution["unknown"] != 1 {
		t.Errorf("unknown rarity bucket = %d, want 1", s.RarityDistribution["unknown"])
	}
	if s.UniqueCards != 5 || s.TotalCopies != 18 {
		t.Errorf("unique=%d copies=%d", s.UniqueCards, s.TotalCopies)
	}

	// Lands are excluded from the average: (1*2 + 6 + 2*4 + 15) / 8.
	wantAvg := (2.0 + 6 + 8 + 15) / 8
	if !almostEqual(s.AverageCMC, wantAvg) {
		t.Errorf("AverageCMC = %f, want %f", s.AverageCMC, wantAvg)
	}
}

func TestCompute_IgnoresNonPositiveQuantity(t *testing.T) {
	s := Compute([]Item{
		{Card: card("aa", "A", "Instant", models.RarityCommon, 1), Quantity: 0},
		{Card: card("bb", "B", "Instant", models.RarityCommon, 1), Quantity: -2},
	})
	if s.TotalCopies != 0 || s.UniqueCards != 0 {
		t.Errorf("got %+v", s)
	}
}

func TestManaCurve(t *testing.T) {
	s := Compute([]Item{
		{Card: card("aa", "A", "Instant", models.RarityCommon, 0), Quantity: 1},
		{Card: card("bb", "B", "Creature", models.RarityCommon, 3), Quantity: 2},
		{Card: card("cc", "C", "Creature", models.RarityCommon, 7), Quantity: 1},
		{Card: card("dd", "D", "Creature", models.RarityCommon, 12), Quantity: 1},
	})
	curve := s.ManaCurve()
	if len(curve) != 8 {
		t.Fatalf("len(curve) = %d, want 8", len(curve))
	}
	if curve[7].Label != "7+" || curve[7].Count != 2 {
		t.Errorf("7+ bucket = %+v", curve[7])
	}
	if curve[3].Count != 2 || curve[0].Count != 1 {
		t.Errorf("curve = %+v", curve)
	}
}

func TestDeckItems(t *testing.T) {
	d := &models.Deck{
		Commander: &models.DeckCardEntry{Card: card("cmd", "Atraxa", "Legendary Creature", models.RarityMythic, 4), Quantity: 1},
		Mainboard: []models.DeckCardEntry{{Card: card("m1", "Sol Ring", "Artifact", models.RarityUncommon, 1), Quantity: 1}},
		Sideboard: []models.DeckCardEntry{{Card: card("s1", "Negate", "Instant", models.RarityCommon, 2), Quantity: 2}},
	}
	if got := len(DeckItems(d, false)); got != 2 {
		t.Errorf("DeckItems without sideboard = %d items, want 2", got)
	}
	if got := len(DeckItems(d, true)); got != 3 {
		t.Errorf("DeckItems with sideboard = %d items, want 3", got)
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []string{"c", "a", "b"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("SortedKeys = %v, want %v", keys, want)
		}
	}
}
