// Package rulings fetches card rulings and turns every outcome, including
// failures, into displayable ruling entries.
package rulings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

// Fetcher retrieves rulings by card id.
type Fetcher interface {
	GetRulings(ctx context.Context, id string) ([]scryfall.Ruling, error)
}

// Service resolves rulings and caches successful lookups per card.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string][]models.RulingSource
}

// NewService creates a rulings service.
func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string][]models.RulingSource),
	}
}

// ForCard returns the rulings of card. It never fails: a card without
// rulings yields one FallbackRuling and a failed request one ErrorRuling.
// Errors are not cached so a later call retries.
func (s *Service) ForCard(ctx context.Context, card models.Card) []models.RulingSource {
	s.mu.Lock()
	cached, ok := s.cache[card.ID]
	s.mu.Unlock()
	if ok {
		return cached
	}

	list, err := s.fetcher.GetRulings(ctx, card.ID)
	if err != nil {
		s.logger.Warn("failed to fetch rulings", "card", card.Name, "id", card.ID, "error", err)
		return []models.RulingSource{models.ErrorRuling{Message: errorMessage(err)}}
	}

	out := make([]models.RulingSource, 0, len(list))
	for _, r := range list {
		out = append(out, models.ScryfallRuling{Text: r.Comment, Date: r.PublishedAt})
	}
	if len(out) == 0 {
		out = append(out, models.FallbackRuling{
			Message: fmt.Sprintf("No official rulings have been published for %s.", card.Name),
		})
	}

	s.mu.Lock()
	s.cache[card.ID] = out
	s.mu.Unlock()
	return out
}

func errorMessage(err error) string {
	switch {
	case scryfall.IsRateLimited(err):
		return "Scryfall is rate limiting requests. Wait a moment and try again."
	case scryfall.IsNotFound(err):
		return "This card has no rulings page on Scryfall."
	case scryfall.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return "Could not reach Scryfall. Check your connection."
	default:
		return "Rulings are unavailable right now."
	}
}

// Entry is the JSON form of a RulingSource, tagged by Kind.
type Entry struct {
	Kind    string `json:"kind"`
	Text    string `json:"text,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
}

// Entries flattens rulings for encoding.
func Entries(rulings []models.RulingSource) []Entry {
	out := make([]Entry, 0, len(rulings))
	for _, r := range rulings {
		e := Entry{Kind: r.Kind()}
		switch v := r.(type) {
		case models.ScryfallRuling:
			e.Text, e.Date = v.Text, v.Date
		case models.FallbackRuling:
			e.Message = v.Message
		case models.ErrorRuling:
			e.Message = v.Message
		}
		out = append(out, e)
	}
	return out
}
