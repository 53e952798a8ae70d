package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
	"github.com/ramonehamilton/MTG-Collection/internal/state"
	"github.com/ramonehamilton/MTG-Collection/internal/storage"
)

// FakeGateway serves a fixed card list. Exported for use in other
// package tests.
type FakeGateway struct {
	Cards      []models.Card
	Rulings    map[string][]scryfall.Ruling
	Background string
	SearchErr  error

	mu      sync.Mutex
	queries []string
}

// SearchCards returns every card whose name contains the quoted search
// text of the query, or all cards when there is none.
func (g *FakeGateway) SearchCards(_ context.Context, query string, page int) (*scryfall.SearchResult, error) {
	g.mu.Lock()
	g.queries = append(g.queries, query)
	g.mu.Unlock()
	if g.SearchErr != nil {
		return nil, g.SearchErr
	}
	if page > 1 {
		return &scryfall.SearchResult{TotalCards: len(g.Cards), Data: []models.Card{}}, nil
	}

	term := ""
	if i := strings.Index(query, ` "`); i >= 0 {
		rest := query[i+2:]
		if j := strings.Index(rest, `"`); j >= 0 {
			term = strings.ToLower(rest[:j])
		}
	}
	var out []models.Card
	for _, c := range g.Cards {
		if term == "" || strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return &scryfall.SearchResult{Object: "list", TotalCards: len(out), Data: out}, nil
}

// Queries returns the searches received so far.
func (g *FakeGateway) Queries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

// GetCard finds a card by id.
func (g *FakeGateway) GetCard(_ context.Context, id string) (*models.Card, error) {
	for _, c := range g.Cards {
		if c.ID == id {
			card := c
			return &card, nil
		}
	}
	return nil, &scryfall.NotFoundError{URL: "/cards/" + id}
}

// FindNamed matches a card by case-insensitive name, preferring setCode
// when it matches.
func (g *FakeGateway) FindNamed(_ context.Context, name, setCode string) (*models.Card, error) {
	var found *models.Card
	for _, c := range g.Cards {
		if !strings.EqualFold(c.Name, name) {
			continue
		}
		card := c
		if setCode == "" || strings.EqualFold(c.SetCode, setCode) {
			return &card, nil
		}
		if found == nil {
			found = &card
		}
	}
	if found != nil {
		return found, nil
	}
	return nil, &scryfall.NotFoundError{URL: "/cards/named?exact=" + name}
}

// GetRulings returns the configured rulings.
func (g *FakeGateway) GetRulings(_ context.Context, id string) ([]scryfall.Ruling, error) {
	return g.Rulings[id], nil
}

// RandomBackground returns the configured URL.
func (g *FakeGateway) RandomBackground(context.Context, *slog.Logger) (string, error) {
	return g.Background, nil
}

// NewTestServices wires services over a temporary database and g.
func NewTestServices(t testing.TB, g Gateway) *Services {
	t.Helper()
	dispatcher := events.NewEventDispatcher()
	store := state.NewStore(storage.NewTestService(t), dispatcher, nil)
	s := NewServices(store, g, dispatcher, Options{Debounce: 10 * time.Millisecond})
	t.Cleanup(s.Close)
	return s
}
