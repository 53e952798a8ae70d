package rulings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

type fakeFetcher struct {
	rulings []scryfall.Ruling
	err     error
	calls   int
}

func (f *fakeFetcher) GetRulings(ctx context.Context, id string) ([]scryfall.Ruling, error) {
	f.calls++
	return f.rulings, f.err
}

var card = models.Card{ID: "bolt", Name: "Lightning Bolt"}

func TestForCard_Scryfall(t *testing.T) {
	f := &fakeFetcher{rulings: []scryfall.Ruling{{Source: "wotc", PublishedAt: "2020-01-01", Comment: "Deals 3 damage."}}}
	s := NewService(f, nil)

	got := s.ForCard(context.Background(), card)
	require.Len(t, got, 1)
	r, ok := got[0].(models.ScryfallRuling)
	require.True(t, ok)
	assert.Equal(t, "Deals 3 damage.", r.Text)
	assert.Equal(t, "2020-01-01", r.Date)

	s.ForCard(context.Background(), card)
	assert.Equal(t, 1, f.calls, "successful lookups are cached")
}

func TestForCard_Fallback(t *testing.T) {
	s := NewService(&fakeFetcher{}, nil)

	got := s.ForCard(context.Background(), card)
	require.Len(t, got, 1)
	fb, ok := got[0].(models.FallbackRuling)
	require.True(t, ok)
	assert.Contains(t, fb.Message, "Lightning Bolt")
}

func TestForCard_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", &scryfall.RateLimitedError{}, "rate limiting"},
		{"network", &scryfall.NetworkError{Err: context.Canceled}, "connection"},
		{"server", &scryfall.HTTPError{Status: 500}, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{err: tt.err}
			s := NewService(f, nil)

			got := s.ForCard(context.Background(), card)
			require.Len(t, got, 1)
			er, ok := got[0].(models.ErrorRuling)
			require.True(t, ok)
			assert.Contains(t, er.Message, tt.want)

			s.ForCard(context.Background(), card)
			assert.Equal(t, 2, f.calls, "errors are not cached")
		})
	}
}

func TestEntries(t *testing.T) {
	entries := Entries([]models.RulingSource{
		models.ScryfallRuling{Text: "t", Date: "d"},
		models.FallbackRuling{Message: "none"},
		models.ErrorRuling{Message: "boom"},
	})
	assert.Equal(t, []Entry{
		{Kind: "scryfall", Text: "t", Date: "d"},
		{Kind: "fallback", Message: "none"},
		{Kind: "error", Message: "boom"},
	}, entries)
}
