package cardpool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

func testCards() []models.Card {
	return []models.Card{
		{ID: "bolt-m21", Name: "Lightning Bolt", SetCode: "m21", CollectorNumber: "123"},
		{ID: "bolt-2xm", Name: "Lightning Bolt", SetCode: "2xm", CollectorNumber: "129"},
		{ID: "eowyn", Name: "Éowyn, Fearless Knight", SetCode: "ltr", CollectorNumber: "201"},
		{ID: "delver", Name: "Delver of Secrets // Insectile Aberration", SetCode: "isd", CollectorNumber: "51"},
	}
}

func TestFind(t *testing.T) {
	p := New(testCards()...)

	tests := []struct {
		name   string
		lookup Lookup
		wantID string
		wantOK bool
	}{
		{"name only picks first printing", Lookup{Name: "lightning bolt"}, "bolt-m21", true},
		{"set narrows printing", Lookup{Name: "Lightning Bolt", SetCode: "2XM"}, "bolt-2xm", true},
		{"collector number narrows printing", Lookup{Name: "Lightning Bolt", CollectorNumber: "129"}, "bolt-2xm", true},
		{"diacritics ignored", Lookup{Name: "eowyn, fearless knight"}, "eowyn", true},
		{"front face resolves", Lookup{Name: "Delver of Secrets"}, "delver", true},
		{"unknown set fails", Lookup{Name: "Lightning Bolt", SetCode: "lea"}, "", false},
		{"unknown name fails", Lookup{Name: "Black Lotus"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := p.Find(tt.lookup)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
}

func TestAddReplacesSameID(t *testing.T) {
	p := New(testCards()...)
	p.Add(models.Card{ID: "bolt-m21", Name: "Lightning Bolt", SetCode: "m21", Rarity: models.RarityUncommon})

	assert.Equal(t, 4, p.Len())
	c, ok := p.Get("bolt-m21")
	require.True(t, ok)
	assert.Equal(t, models.RarityUncommon, c.Rarity)
}

func TestCardsReturnsCopy(t *testing.T) {
	p := New(testCards()...)
	cards := p.Cards()
	cards[0].Name = "changed"

	c, _ := p.Get("bolt-m21")
	assert.Equal(t, "Lightning Bolt", c.Name)
}

type pagedSearcher struct {
	pages  [][]models.Card
	calls  int
	cancel context.CancelFunc
	failAt int
}

func (s *pagedSearcher) SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchResult, error) {
	s.calls++
	if s.failAt == page {
		return nil, &scryfall.HTTPError{Status: 500}
	}
	if s.cancel != nil && page == 2 {
		s.cancel()
		return nil, ctx.Err()
	}
	total := 0
	for _, p := range s.pages {
		total += len(p)
	}
	return &scryfall.SearchResult{
		TotalCards: total,
		HasMore:    page < len(s.pages),
		Data:       s.pages[page-1],
	}, nil
}

func TestLoad(t *testing.T) {
	cards := testCards()
	s := &pagedSearcher{pages: [][]models.Card{cards[:2], cards[2:]}}

	var progress [][2]int
	p := New()
	stats, err := p.Load(context.Background(), s, LoadOptions{
		Progress: func(loaded, total int) { progress = append(progress, [2]int{loaded, total}) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 4, stats.Cards)
	assert.False(t, stats.Cancelled)
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, [][2]int{{2, 4}, {4, 4}}, progress)
}

func TestLoad_MaxPages(t *testing.T) {
	cards := testCards()
	s := &pagedSearcher{pages: [][]models.Card{cards[:1], cards[1:2], cards[2:]}}

	p := New()
	stats, err := p.Load(context.Background(), s, LoadOptions{MaxPages: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 2, s.calls)
}

func TestLoad_Cancelled(t *testing.T) {
	cards := testCards()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &pagedSearcher{pages: [][]models.Card{cards[:2], cards[2:]}, cancel: cancel}

	p := New()
	stats, err := p.Load(ctx, s, LoadOptions{})
	require.NoError(t, err)
	assert.True(t, stats.Cancelled)
	assert.Equal(t, 2, p.Len(), "cards from the first page are kept")
}

func TestLoad_Error(t *testing.T) {
	s := &pagedSearcher{pages: [][]models.Card{testCards()}, failAt: 1}

	_, err := New().Load(context.Background(), s, LoadOptions{})
	require.Error(t, err)
	var httpErr *scryfall.HTTPError
	assert.True(t, errors.As(err, &httpErr))
}
