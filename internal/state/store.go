package state

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/storage"
)

// Persister saves the state blobs. *storage.Service implements it.
type Persister interface {
	Load(ctx context.Context) (*storage.State, []*storage.ParseError, error)
	SaveFilters(ctx context.Context, filters []filter.SavedFilter) error
	SaveDecks(ctx context.Context, decks []models.Deck) error
	SaveCollections(ctx context.Context, collections []models.Collection) error
	SaveCurrentUser(ctx context.Context, user *models.User) error
}

// Store serializes actions through Reduce, writes every changed persisted
// category and notifies observers.
type Store struct {
	mu         sync.RWMutex
	state      AppState
	ownership  *collection.Index
	persist    Persister
	dispatcher *events.EventDispatcher
	logger     *slog.Logger
}

// NewStore creates a store at the initial state. persist and dispatcher may
// be nil.
func NewStore(persist Persister, dispatcher *events.EventDispatcher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:      New(),
		ownership:  collection.BuildIndex(nil),
		persist:    persist,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Hydrate loads persisted state. Malformed blobs are logged and replaced by
// their defaults.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	loaded, parseErrs, err := s.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	for _, pe := range parseErrs {
		s.logger.Warn("discarded malformed saved state", "key", pe.Key, "error", pe.Err)
	}
	_, err = s.Dispatch(ctx, Hydrate{
		User:        loaded.CurrentUser,
		Collections: loaded.Collections,
		Decks:       loaded.Decks,
		Filters:     loaded.Filters,
	})
	return err
}

// State returns the current state.
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ownership returns the ownership index over all collections.
func (s *Store) Ownership() *collection.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownership
}

// Dispatch applies a. The new state is kept even if persisting it fails; the
// persistence error is returned so callers can surface it.
func (s *Store) Dispatch(ctx context.Context, a Action) (AppState, error) {
	s.mu.Lock()
	next, change, err := Reduce(s.state, a)
	if err != nil {
		current := s.state
		s.mu.Unlock()
		return current, err
	}
	s.state = next
	if change.Has(ChangeCollections) || isHydrate(a) {
		s.ownership = collection.BuildIndex(next.Collections)
	}
	persistErr := s.save(ctx, next, change)
	s.mu.Unlock()

	s.notify(ctx, next, change, a)
	return next, persistErr
}

func isHydrate(a Action) bool {
	_, ok := a.(Hydrate)
	return ok
}

func (s *Store) save(ctx context.Context, st AppState, change Change) error {
	if s.persist == nil {
		return nil
	}
	var errs []string
	check := func(what string, err error) {
		if err != nil {
			s.logger.Error("failed to persist state", "category", what, "error", err)
			errs = append(errs, what)
		}
	}
	if change.Has(ChangeUser) {
		check("user", s.persist.SaveCurrentUser(ctx, st.User))
	}
	if change.Has(ChangeCollections) {
		check("collections", s.persist.SaveCollections(ctx, st.Collections))
	}
	if change.Has(ChangeDecks) {
		check("decks", s.persist.SaveDecks(ctx, st.Decks))
	}
	if change.Has(ChangeFilters) {
		check("filters", s.persist.SaveFilters(ctx, st.Filters))
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to persist %s", strings.Join(errs, ", "))
	}
	return nil
}

func (s *Store) notify(ctx context.Context, st AppState, change Change, a Action) {
	if s.dispatcher == nil {
		return
	}
	if change.Has(ChangeUser) {
		ev := events.AuthChangedEvent{LoggedIn: st.User != nil}
		if st.User != nil {
			ev.UserID, ev.Name = st.User.ID, st.User.Name
		}
		s.dispatcher.Dispatch(events.NewEvent(ctx, events.TypeAuthChanged, ev))
	}
	if change.Has(ChangeCollections) {
		s.dispatcher.Dispatch(events.NewEvent(ctx, events.TypeCollectionUpdated, collectionEvent(st, a)))
	}
	if change.Has(ChangeDecks) {
		s.dispatcher.Dispatch(events.NewEvent(ctx, events.TypeDeckUpdated, deckEvent(st, a)))
	}
	if change.Has(ChangeFilters) {
		s.dispatcher.Dispatch(events.NewEvent(ctx, events.TypeFiltersUpdated, events.FiltersUpdatedEvent{Count: len(st.Filters)}))
	}
}

func collectionEvent(st AppState, a Action) events.CollectionUpdatedEvent {
	var id, action string
	switch a := a.(type) {
	case PutCollection:
		id, action = a.Collection.ID, "updated"
	case DeleteCollection:
		return events.CollectionUpdatedEvent{CollectionID: a.ID, Action: "deleted"}
	case AddToCollection:
		id, action = a.CollectionID, "updated"
	case MergeIntoCollection:
		id, action = a.CollectionID, "imported"
	case RenameCollection:
		id, action = a.ID, "updated"
	case SetCollectionQuantity:
		id, action = a.CollectionID, "updated"
	}
	ev := events.CollectionUpdatedEvent{CollectionID: id, Action: action}
	if c, ok := st.Collection(id); ok {
		ev.UniqueCards = len(c.Cards)
		ev.TotalCopies = c.TotalCopies()
	}
	return ev
}

func deckEvent(st AppState, a Action) events.DeckUpdatedEvent {
	var id string
	switch a := a.(type) {
	case PutDeck:
		id = a.Deck.ID
	case DeleteDeck:
		return events.DeckUpdatedEvent{DeckID: a.ID, Action: "deleted"}
	case AddToDeck:
		id = a.DeckID
	case RemoveFromDeck:
		id = a.DeckID
	case MoveInDeck:
		id = a.DeckID
	}
	ev := events.DeckUpdatedEvent{DeckID: id, Action: "updated"}
	if d, ok := st.Deck(id); ok {
		ev.Cards = d.MainboardCount()
	}
	return ev
}

// CreateCollection creates and stores an empty collection.
func (s *Store) CreateCollection(ctx context.Context, name, description string) (models.Collection, error) {
	c, err := collection.New(name, description)
	if err != nil {
		return models.Collection{}, err
	}
	if _, err := s.Dispatch(ctx, PutCollection{Collection: c}); err != nil {
		return c, err
	}
	return c, nil
}

// CreateDeck creates and stores an empty deck.
func (s *Store) CreateDeck(ctx context.Context, name string, format models.DeckFormat, description string) (models.Deck, error) {
	d, err := deck.New(name, format, description)
	if err != nil {
		return models.Deck{}, err
	}
	if _, err := s.Dispatch(ctx, PutDeck{Deck: d}); err != nil {
		return d, err
	}
	return d, nil
}

// SaveFilter captures facets under a name.
func (s *Store) SaveFilter(ctx context.Context, name, context string, facets filter.Facets) (filter.SavedFilter, error) {
	f, err := filter.NewSavedFilter(name, context, facets)
	if err != nil {
		return filter.SavedFilter{}, models.NewValidationError("name", err.Error())
	}
	if _, err := s.Dispatch(ctx, SaveFilter{Filter: *f}); err != nil {
		return *f, err
	}
	return *f, nil
}

// Login signs in a simulated user built from name and email.
func (s *Store) Login(ctx context.Context, name, email string) (models.User, error) {
	u := NewUser(name, email)
	if _, err := s.Dispatch(ctx, Login{User: u}); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Logout clears the signed-in user.
func (s *Store) Logout(ctx context.Context) error {
	_, err := s.Dispatch(ctx, Logout{})
	return err
}

// NewUser builds a local profile. The first word of the name becomes the
// first name and the rest the last name.
func NewUser(name, email string) models.User {
	name = strings.Join(strings.Fields(name), " ")
	u := models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: strings.TrimSpace(email),
	}
	if first, last, ok := strings.Cut(name, " "); ok {
		u.FirstName, u.LastName = first, last
	} else {
		u.FirstName = name
	}
	return u
}
