package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Keys of the persisted state blobs. Each blob is rewritten in full on
// every change to its category.
const (
	KeySavedFilters     = "saved_filters"
	KeySavedDecks       = "saved_decks"
	KeySavedCollections = "saved_collections"
	KeyCurrentUser      = "current_user"
)

// ParseError reports a stored blob that could not be decoded.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed stored value for %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// State is everything that survives a restart.
type State struct {
	Filters     []filter.SavedFilter `json:"saved_filters"`
	Decks       []models.Deck        `json:"saved_decks"`
	Collections []models.Collection  `json:"saved_collections"`
	CurrentUser *models.User         `json:"current_user,omitempty"`
}

// Service provides typed access to the persisted state blobs.
type Service struct {
	db     *DB
	kv     *KVStore
	logger *slog.Logger
}

// NewService creates a new storage service.
func NewService(db *DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, kv: NewKVStore(db.Conn()), logger: logger}
}

// KV exposes the raw key-value repository.
func (s *Service) KV() *KVStore {
	return s.kv
}

// Load reads all four blobs. A blob that fails to decode is logged and
// replaced by its default; the returned ParseErrors say which. Only
// database failures are returned as err.
func (s *Service) Load(ctx context.Context) (*State, []*ParseError, error) {
	state := &State{
		Filters:     []filter.SavedFilter{},
		Decks:       []models.Deck{},
		Collections: []models.Collection{},
	}
	var parseErrs []*ParseError

	load := func(key string, dst any, reset func()) error {
		raw, found, err := s.kv.Get(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			reset()
			perr := &ParseError{Key: key, Err: err}
			s.logger.Warn("discarding malformed stored state", "key", key, "error", err)
			parseErrs = append(parseErrs, perr)
		}
		return nil
	}

	if err := load(KeySavedFilters, &state.Filters, func() { state.Filters = []filter.SavedFilter{} }); err != nil {
		return nil, nil, err
	}
	if err := load(KeySavedDecks, &state.Decks, func() { state.Decks = []models.Deck{} }); err != nil {
		return nil, nil, err
	}
	if err := load(KeySavedCollections, &state.Collections, func() { state.Collections = []models.Collection{} }); err != nil {
		return nil, nil, err
	}
	if err := load(KeyCurrentUser, &state.CurrentUser, func() { state.CurrentUser = nil }); err != nil {
		return nil, nil, err
	}

	// A stored JSON null decodes to a nil slice.
	if state.Filters == nil {
		state.Filters = []filter.SavedFilter{}
	}
	if state.Decks == nil {
		state.Decks = []models.Deck{}
	}
	if state.Collections == nil {
		state.Collections = []models.Collection{}
	}
	return state, parseErrs, nil
}

// SaveFilters rewrites the saved filter list.
func (s *Service) SaveFilters(ctx context.Context, filters []filter.SavedFilter) error {
	if filters == nil {
		filters = []filter.SavedFilter{}
	}
	return s.put(ctx, KeySavedFilters, filters)
}

// SaveDecks rewrites the deck list.
func (s *Service) SaveDecks(ctx context.Context, decks []models.Deck) error {
	if decks == nil {
		decks = []models.Deck{}
	}
	return s.put(ctx, KeySavedDecks, decks)
}

// SaveCollections rewrites the collection list.
func (s *Service) SaveCollections(ctx context.Context, collections []models.Collection) error {
	if collections == nil {
		collections = []models.Collection{}
	}
	return s.put(ctx, KeySavedCollections, collections)
}

// SaveCurrentUser stores the logged-in user; nil clears it.
func (s *Service) SaveCurrentUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.kv.Delete(ctx, KeyCurrentUser)
	}
	return s.put(ctx, KeyCurrentUser, user)
}

func (s *Service) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.kv.Put(ctx, key, data)
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
