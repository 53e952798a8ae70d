// Package app wires the collection manager's services together. The API
// server and the command line tool both drive the application through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/metrics"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/pagination"
	"github.com/ramonehamilton/MTG-Collection/internal/rulings"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
	"github.com/ramonehamilton/MTG-Collection/internal/state"
)

// Gateway is the subset of the Scryfall client the application uses.
// This interface allows for easy mocking in tests.
type Gateway interface {
	SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchResult, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	FindNamed(ctx context.Context, name, setCode string) (*models.Card, error)
	GetRulings(ctx context.Context, id string) ([]scryfall.Ruling, error)
	RandomBackground(ctx context.Context, logger *slog.Logger) (string, error)
}

// ErrNotFound is returned for unknown ids.
var ErrNotFound = state.ErrNotFound

// Options configures the services.
type Options struct {
	// Debounce is the browser quiet period before a remote search.
	Debounce time.Duration

	Logger *slog.Logger
}

// Services contains all shared services and the per-browser pagination
// controllers.
type Services struct {
	Store      *state.Store
	Pool       *cardpool.Pool
	Gateway    Gateway
	Rulings    *rulings.Service
	Dispatcher *events.EventDispatcher
	Metrics    *metrics.GatewayMetrics

	logger   *slog.Logger
	browsers map[string]*pagination.Controller

	mu         sync.Mutex
	loadCancel context.CancelFunc
	loadDone   chan struct{}
}

// NewServices creates the services around an existing store. The store
// should share dispatcher so its events reach the same observers.
func NewServices(store *state.Store, gateway Gateway, dispatcher *events.EventDispatcher, opts Options) *Services {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if dispatcher == nil {
		dispatcher = events.NewEventDispatcher()
	}
	m := metrics.NewGatewayMetrics()
	gateway = newMeteredGateway(gateway, m)

	s := &Services{
		Store:      store,
		Pool:       cardpool.New(),
		Gateway:    gateway,
		Rulings:    rulings.NewService(gateway, logger),
		Dispatcher: dispatcher,
		Metrics:    m,
		logger:     logger,
		browsers:   make(map[string]*pagination.Controller),
	}

	for _, name := range []string{filter.ContextCollection, filter.ContextDeck} {
		ctrl := pagination.NewController(name, gateway, pagination.Options{Debounce: opts.Debounce, Logger: logger})
		ctrl.OnChange(s.browserChanged(ctrl))
		s.browsers[name] = ctrl
	}
	return s
}

// browserChanged publishes controller transitions and merges loaded pages
// into the card pool so later lookups can resolve them.
func (s *Services) browserChanged(ctrl *pagination.Controller) func(pagination.State) {
	return func(st pagination.State) {
		if st.Status == pagination.StatusLoaded {
			s.Pool.Add(ctrl.Cards()...)
		}
		s.Dispatcher.Dispatch(events.NewEvent(context.Background(), events.TypeBrowserState, events.BrowserStateEvent{
			Context:     st.Context,
			Status:      string(st.Status),
			Mode:        string(st.Mode),
			Page:        st.Page,
			TotalPages:  st.TotalPages,
			TotalCount:  st.TotalCount,
			HasMore:     st.HasMore,
			Message:     st.Message,
			RateLimited: st.RateLimited,
		}))
	}
}

// Start restores persisted state and begins loading the initial card pool
// in the background. A zero MaxPages in opts skips the load.
func (s *Services) Start(ctx context.Context, opts cardpool.LoadOptions) error {
	if err := s.Store.Hydrate(ctx); err != nil {
		return err
	}
	if opts.MaxPages <= 0 {
		return nil
	}

	loadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.loadCancel = cancel
	s.loadDone = done
	s.mu.Unlock()

	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	go func() {
		defer close(done)
		defer cancel()
		stats, err := s.Pool.Load(loadCtx, s.Gateway, opts)
		if err != nil {
			s.logger.Error("Initial card load failed", "error", err)
		}
		ev := events.CardPoolLoadedEvent{Cards: s.Pool.Len()}
		if stats != nil {
			ev.Cancelled = stats.Cancelled
		}
		s.Dispatcher.Dispatch(events.NewEvent(ctx, events.TypeCardPoolLoaded, ev))
	}()
	return nil
}

// CancelLoad aborts the initial card load; cards loaded so far are kept.
func (s *Services) CancelLoad() {
	s.mu.Lock()
	cancel := s.loadCancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// WaitLoaded blocks until the initial load finishes or ctx ends.
func (s *Services) WaitLoaded(ctx context.Context) error {
	s.mu.Lock()
	done := s.loadDone
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the initial load and every browser fetch.
func (s *Services) Close() {
	s.CancelLoad()
	for _, ctrl := range s.browsers {
		ctrl.Close()
	}
}

// Card returns a card from the pool, fetching it when unknown.
func (s *Services) Card(ctx context.Context, id string) (models.Card, error) {
	if card, ok := s.Pool.Get(id); ok {
		s.Metrics.PoolHit()
		return card, nil
	}
	s.Metrics.PoolMiss()
	card, err := s.Gateway.GetCard(ctx, id)
	if err != nil {
		if scryfall.IsNotFound(err) {
			return models.Card{}, fmt.Errorf("card %s: %w", id, ErrNotFound)
		}
		return models.Card{}, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	s.Pool.Add(*card)
	return *card, nil
}

// CardRulings returns the rulings of a card.
func (s *Services) CardRulings(ctx context.Context, id string) ([]models.RulingSource, error) {
	card, err := s.Card(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Rulings.ForCard(ctx, card), nil
}

// Background returns the art crop URL of a random full-art card, retrying
// until one is found or ctx ends.
func (s *Services) Background(ctx context.Context) (string, error) {
	return s.Gateway.RandomBackground(ctx, s.logger)
}

// IsNotFound reports whether err is an unknown-id error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
