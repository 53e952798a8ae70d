// Package cardpool holds the in-memory card list that browsing, CSV import
// and deck import resolve card names against.
package cardpool

import (
	"strings"
	"sync"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/normalize"
)

// Lookup identifies a card by name with optional set and collector number
// qualifiers. Empty qualifiers match any printing.
type Lookup struct {
	Name            string
	SetCode         string
	CollectorNumber string
}

// Pool is a concurrency-safe card list indexed by normalized name.
type Pool struct {
	mu     sync.RWMutex
	cards  []models.Card
	byID   map[string]int
	byName map[string][]int
}

// New creates a pool seeded with cards.
func New(cards ...models.Card) *Pool {
	p := &Pool{}
	p.Replace(cards)
	return p
}

// Replace swaps the whole card list.
func (p *Pool) Replace(cards []models.Card) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cards = make([]models.Card, 0, len(cards))
	p.byID = make(map[string]int, len(cards))
	p.byName = make(map[string][]int, len(cards))
	for _, c := range cards {
		p.addLocked(c)
	}
}

// Add appends cards, replacing any printing with the same id.
func (p *Pool) Add(cards ...models.Card) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.byID == nil {
		p.byID = make(map[string]int)
		p.byName = make(map[string][]int)
	}
	for _, c := range cards {
		p.addLocked(c)
	}
}

func (p *Pool) addLocked(c models.Card) {
	if idx, ok := p.byID[c.ID]; ok && c.ID != "" {
		p.cards[idx] = c
		return
	}
	idx := len(p.cards)
	p.cards = append(p.cards, c)
	if c.ID != "" {
		p.byID[c.ID] = idx
	}
	key := normalize.String(c.Name)
	p.byName[key] = append(p.byName[key], idx)

	// Double-faced cards also resolve by their front face name.
	if front, _, found := strings.Cut(c.Name, " // "); found {
		fkey := normalize.String(front)
		p.byName[fkey] = append(p.byName[fkey], idx)
	}
}

// Len returns the number of cards in the pool.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.cards)
}

// Cards returns a copy of the card list.
func (p *Pool) Cards() []models.Card {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// Get returns the card with the given id.
func (p *Pool) Get(id string) (models.Card, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx, ok := p.byID[id]
	if !ok {
		return models.Card{}, false
	}
	return p.cards[idx], true
}

// Find resolves a lookup by normalized name equality, narrowed by set code
// and collector number when given. The first matching printing wins.
func (p *Pool) Find(l Lookup) (models.Card, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, idx := range p.byName[normalize.String(strings.TrimSpace(l.Name))] {
		c := p.cards[idx]
		if l.SetCode != "" && !strings.EqualFold(c.SetCode, strings.TrimSpace(l.SetCode)) {
			continue
		}
		if l.CollectorNumber != "" && c.CollectorNumber != strings.TrimSpace(l.CollectorNumber) {
			continue
		}
		return c, true
	}
	return models.Card{}, false
}
