// Package pagination drives a page-oriented card browser: it decides
// whether a facet change needs a remote search, debounces those searches,
// guards against overlapping fetches and tracks the page state.
package pagination

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

// DefaultDebounce is the quiet period before a facet change is fetched.
const DefaultDebounce = 500 * time.Millisecond

// Status is the controller's state machine position.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusLoaded   Status = "loaded"
	StatusError    Status = "error"
)

// Mode tells the caller which path serves the current facets.
type Mode string

const (
	// ModeLocal means the facets only need the local predicate filter.
	ModeLocal Mode = "local"
	// ModeRemote means a page-1 search has been scheduled.
	ModeRemote Mode = "remote"
)

// State is a snapshot of the controller.
type State struct {
	Context     string `json:"context"`
	Status      Status `json:"status"`
	Mode        Mode   `json:"mode"`
	Query       string `json:"query,omitempty"`
	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
	TotalCount  int    `json:"total_count"`
	HasMore     bool   `json:"has_more"`
	Message     string `json:"message,omitempty"`
	RateLimited bool   `json:"rate_limited,omitempty"`
}

// Fetcher performs the remote search for one page.
type Fetcher interface {
	SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchResult, error)
}

// Options configures a Controller.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Controller is the pagination state machine for one browser context.
// Only one fetch may be in flight; triggers arriving meanwhile are dropped.
type Controller struct {
	name     string
	fetcher  Fetcher
	debounce *debouncer
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	facets    filter.Facets
	cards     []models.Card
	loading   bool
	cancel    context.CancelFunc
	closed    bool
	listeners []func(State)
}

// NewController creates a controller named after its browser context,
// e.g. "collection" or "deck".
func NewController(name string, fetcher Fetcher, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		name:     name,
		fetcher:  fetcher,
		debounce: newDebouncer(opts.Debounce),
		logger:   opts.Logger.With("browser", name),
		facets:   filter.Default(),
		cards:    []models.Card{},
		state: State{
			Context: name,
			Status:  StatusIdle,
			Mode:    ModeLocal,
		},
	}
}

// OnChange registers a listener called after every state transition.
// Listeners run outside the controller lock.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// SetFacets installs a new facet set. When any remote facet is active a
// page-1 fetch is scheduled after the debounce period and ModeRemote is
// returned; otherwise pending fetches are cancelled and ModeLocal is
// returned so the caller filters the current list locally.
func (c *Controller) SetFacets(f filter.Facets) Mode {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ModeLocal
	}
	c.facets = f.Clone()
	specific := f.HasSpecificFilters()
	if specific {
		c.state.Mode = ModeRemote
		c.state.Query = filter.BuildQuery(f)
	} else {
		c.state.Mode = ModeLocal
		c.state.Query = ""
	}
	snapshot := c.state
	c.mu.Unlock()

	if !specific {
		c.debounce.Stop()
		c.notify(snapshot)
		return ModeLocal
	}

	c.debounce.Trigger(func() {
		if !c.startFetch(1) {
			c.logger.Debug("Debounced fetch dropped, another fetch is in flight")
		}
	})
	c.notify(snapshot)
	return ModeRemote
}

// Refresh fetches the current facets immediately, bypassing the debounce.
// It returns false when a fetch is already in flight or the facets are
// served locally.
func (c *Controller) Refresh() bool {
	c.mu.Lock()
	local := c.state.Mode == ModeLocal
	c.mu.Unlock()
	if local {
		return false
	}
	c.debounce.Stop()
	return c.startFetch(1)
}

// GoToPage fetches page n. It returns false without doing anything when n
// is outside [1, TotalPages], a fetch is in flight or the facets are served
// locally.
func (c *Controller) GoToPage(n int) bool {
	c.mu.Lock()
	if c.loading || c.state.Mode == ModeLocal || n < 1 || n > c.state.TotalPages {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()
	return c.startFetch(n)
}

// startFetch moves to Fetching(page) and runs the search in the background.
func (c *Controller) startFetch(page int) bool {
	c.mu.Lock()
	if c.loading || c.closed {
		c.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.loading = true
	c.cancel = cancel
	query := filter.BuildQuery(c.facets)
	previous := c.state
	c.state.Status = StatusFetching
	c.state.Page = page
	c.state.Query = query
	c.state.Message = ""
	c.state.RateLimited = false
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	go c.run(ctx, query, page, previous)
	return true
}

func (c *Controller) run(ctx context.Context, query string, page int, previous State) {
	result, err := c.fetcher.SearchCards(ctx, query, page)
	cancelled := errors.Is(ctx.Err(), context.Canceled)

	c.mu.Lock()
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	switch {
	case cancelled:
		mode := c.state.Mode
		c.state = previous
		c.state.Mode = mode
		c.state.Message = "search cancelled"
		c.logger.Info("Search cancelled", "query", query, "page", page)

	case err != nil && scryfall.IsRateLimited(err):
		c.state.Status = StatusError
		c.state.RateLimited = true
		c.state.Message = "Too many requests to Scryfall. Wait a moment and try again."
		c.logger.Warn("Search rate limited", "query", query, "page", page)

	case err != nil:
		c.state.Status = StatusError
		c.state.Message = "Failed to search cards: " + err.Error()
		c.logger.Error("Search failed", "query", query, "page", page, "error", err)

	default:
		cards := result.Data
		if cards == nil {
			cards = []models.Card{}
		}
		c.cards = cards
		totalPages := result.TotalPages()
		if totalPages < page && len(cards) > 0 {
			totalPages = page
		}
		c.state.Status = StatusLoaded
		c.state.Page = page
		c.state.TotalPages = totalPages
		c.state.TotalCount = result.TotalCards
		c.state.HasMore = result.HasMore && len(cards) > 0
		c.logger.Debug("Search loaded", "query", query, "page", page, "cards", len(cards), "total", result.TotalCards)
	}
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
}

// Cancel drops the pending debounced fetch and aborts the in-flight one.
func (c *Controller) Cancel() {
	c.debounce.Stop()
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
}

// Close cancels all work; later calls are ignored.
func (c *Controller) Close() {
	c.Cancel()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Facets returns the installed facet set.
func (c *Controller) Facets() filter.Facets {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets.Clone()
}

// Cards returns a copy of the current page of cards.
func (c *Controller) Cards() []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// IsLoading reports whether a fetch is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// View returns the current page for display. In remote mode the page was
// already narrowed by the search, so only ownership and sort order are
// applied; in local mode every facet is.
func (c *Controller) View(ownership filter.Ownership) []models.Card {
	c.mu.Lock()
	cards := c.cards
	facets := c.facets.Clone()
	remote := c.state.Mode == ModeRemote
	c.mu.Unlock()
	if remote {
		return filter.ApplyLocalOnly(cards, facets, ownership)
	}
	return filter.Apply(cards, facets, ownership)
}

func (c *Controller) notify(s State) {
	c.mu.Lock()
	listeners := make([]func(State), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
