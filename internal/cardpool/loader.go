package cardpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

// DefaultQuery is the initial card list loaded at startup.
const DefaultQuery = "game:paper"

// Searcher pages through remote search results.
type Searcher interface {
	SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchResult, error)
}

// LoadOptions configures a bulk load.
type LoadOptions struct {
	// Query is the search that seeds the pool.
	Query string

	// MaxPages bounds the number of pages fetched (0 = until exhausted).
	MaxPages int

	// Progress is an optional callback receiving (cardsLoaded, totalCards)
	// after each page.
	Progress func(loaded, total int)

	Logger *slog.Logger
}

// DefaultLoadOptions returns the startup load settings.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Query:    DefaultQuery,
		MaxPages: 3,
	}
}

// LoadStats describes a finished or aborted load.
type LoadStats struct {
	Pages     int
	Cards     int
	Total     int
	Cancelled bool
	Duration  time.Duration
}

// Load fetches pages sequentially and adds them to the pool. Cancelling ctx
// aborts between or during page requests; cards loaded so far are kept and
// the returned stats report Cancelled.
func (p *Pool) Load(ctx context.Context, s Searcher, opts LoadOptions) (*LoadStats, error) {
	if opts.Query == "" {
		opts.Query = DefaultQuery
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	stats := &LoadStats{}
	for page := 1; opts.MaxPages == 0 || page <= opts.MaxPages; page++ {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}

		result, err := s.SearchCards(ctx, opts.Query, page)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				stats.Cancelled = true
				break
			}
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("load page %d: %w", page, err)
		}

		p.Add(result.Data...)
		stats.Pages++
		stats.Cards += len(result.Data)
		stats.Total = result.TotalCards
		if opts.Progress != nil {
			opts.Progress(stats.Cards, stats.Total)
		}

		if !result.HasMore || len(result.Data) == 0 {
			break
		}
	}

	stats.Duration = time.Since(start)
	logger.Info("card pool loaded",
		"query", opts.Query,
		"pages", stats.Pages,
		"cards", stats.Cards,
		"cancelled", stats.Cancelled,
		"duration", stats.Duration)
	return stats, nil
}
