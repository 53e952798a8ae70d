package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

var bolt = models.Card{ID: "bolt", Name: "Lightning Bolt"}
var negate = models.Card{ID: "negate", Name: "Negate"}

func fixedClock(t *testing.T) {
	t.Helper()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

func TestNew(t *testing.T) {
	c, err := New("  Binder  ", "trades")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Binder", c.Name)
	assert.Empty(t, c.Cards)

	_, err = New("   ", "")
	assert.Error(t, err)
}

func TestAddCard_MergesOnIDAndFoil(t *testing.T) {
	fixedClock(t)
	c, _ := New("Main", "")

	c = AddCard(c, bolt, 2, AddOptions{})
	c = AddCard(c, bolt, 1, AddOptions{})
	c = AddCard(c, bolt, 1, AddOptions{Foil: true})

	require.Len(t, c.Cards, 2)
	e, ok := Entry(c, "bolt", false)
	require.True(t, ok)
	assert.Equal(t, 3, e.Quantity)
	assert.Equal(t, models.DefaultCondition, e.Condition)
	assert.Equal(t, models.DefaultLanguage, e.Language)

	f, ok := Entry(c, "bolt", true)
	require.True(t, ok)
	assert.Equal(t, 1, f.Quantity)
}

func TestMerge(t *testing.T) {
	fixedClock(t)
	c, _ := New("Main", "")
	c = AddCard(c, bolt, 2, AddOptions{})

	merged := Merge(c, []models.CollectionEntry{
		{Card: bolt, Quantity: 1},
		{Card: negate, Quantity: 3, Foil: true, Condition: models.ConditionLightlyPlayed, Language: "pt"},
	})

	e, ok := Entry(merged, "bolt", false)
	require.True(t, ok)
	assert.Equal(t, 3, e.Quantity)
	f, ok := Entry(merged, "negate", true)
	require.True(t, ok)
	assert.Equal(t, 3, f.Quantity)
	assert.Equal(t, models.ConditionLightlyPlayed, f.Condition)
	assert.Equal(t, "pt", f.Language)

	e, _ = Entry(c, "bolt", false)
	assert.Equal(t, 2, e.Quantity, "input is not modified")
}

func TestAddCard_DoesNotMutateInput(t *testing.T) {
	c, _ := New("Main", "")
	c = AddCard(c, bolt, 2, AddOptions{})

	updated := AddCard(c, bolt, 2, AddOptions{})
	assert.Equal(t, 2, c.Cards[0].Quantity)
	assert.Equal(t, 4, updated.Cards[0].Quantity)

	same := AddCard(c, negate, 0, AddOptions{})
	assert.Len(t, same.Cards, 1)
}

func TestSetQuantity(t *testing.T) {
	c, _ := New("Main", "")
	c = AddCard(c, bolt, 2, AddOptions{})
	c = AddCard(c, negate, 1, AddOptions{})

	c, err := SetQuantity(c, "bolt", false, 5)
	require.NoError(t, err)
	e, _ := Entry(c, "bolt", false)
	assert.Equal(t, 5, e.Quantity)

	c, err = SetQuantity(c, "bolt", false, 0)
	require.NoError(t, err)
	_, ok := Entry(c, "bolt", false)
	assert.False(t, ok, "zero quantity removes the entry")
	assert.Len(t, c.Cards, 1)

	_, err = SetQuantity(c, "bolt", true, 1)
	assert.Error(t, err)
}

func TestRemoveCard(t *testing.T) {
	c, _ := New("Main", "")
	c = AddCard(c, bolt, 2, AddOptions{})
	c = AddCard(c, bolt, 1, AddOptions{Foil: true})

	removed := RemoveCard(c, "bolt", true)
	assert.Len(t, removed.Cards, 1)
	assert.Len(t, c.Cards, 2)

	unchanged := RemoveCard(c, "missing", false)
	assert.Len(t, unchanged.Cards, 2)
}

func TestBuildIndex(t *testing.T) {
	a, _ := New("A", "")
	a = AddCard(a, bolt, 2, AddOptions{})
	a = AddCard(a, bolt, 1, AddOptions{Foil: true})
	b, _ := New("B", "")
	b = AddCard(b, bolt, 3, AddOptions{})
	b = AddCard(b, negate, 1, AddOptions{})

	idx := BuildIndex([]models.Collection{a, b})
	nonFoil, foil := idx.Quantities("bolt")
	assert.Equal(t, 5, nonFoil)
	assert.Equal(t, 1, foil)
	assert.Equal(t, 2, idx.Len())

	h, ok := idx.Holding("bolt")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, h.CollectionIDs)

	nonFoil, foil = idx.Quantities("missing")
	assert.Zero(t, nonFoil)
	assert.Zero(t, foil)

	var nilIdx *Index
	nonFoil, _ = nilIdx.Quantities("bolt")
	assert.Zero(t, nonFoil)
}

func TestIndexSatisfiesOwnership(t *testing.T) {
	var _ filter.Ownership = BuildIndex(nil)
}
