package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/storage"
)

func testCard(id, name string) models.Card {
	return models.Card{ID: id, Name: name, TypeLine: "Creature — Elf", Rarity: models.RarityCommon}
}

func TestReduce_CollectionLifecycle(t *testing.T) {
	s := New()
	c, err := collection.New("Main", "")
	require.NoError(t, err)

	s, change, err := Reduce(s, PutCollection{Collection: c})
	require.NoError(t, err)
	assert.True(t, change.Has(ChangeCollections))
	assert.False(t, change.Has(ChangeDecks))

	s, _, err = Reduce(s, AddToCollection{CollectionID: c.ID, Card: testCard("a", "Llanowar Elves"), Quantity: 3})
	require.NoError(t, err)
	got, ok := s.Collection(c.ID)
	require.True(t, ok)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, 3, got.Cards[0].Quantity)

	s, _, err = Reduce(s, SetCollectionQuantity{CollectionID: c.ID, CardID: "a", Quantity: 0})
	require.NoError(t, err)
	got, _ = s.Collection(c.ID)
	assert.Empty(t, got.Cards)

	s, _, err = Reduce(s, DeleteCollection{ID: c.ID})
	require.NoError(t, err)
	assert.Empty(t, s.Collections)
}

func TestReduce_MergeAndRenameReadCurrentCollection(t *testing.T) {
	s := New()
	c, err := collection.New("Main", "")
	require.NoError(t, err)
	s, _, err = Reduce(s, PutCollection{Collection: c})
	require.NoError(t, err)

	// An add lands between reading the collection and merging the import.
	s, _, err = Reduce(s, AddToCollection{CollectionID: c.ID, Card: testCard("a", "Llanowar Elves"), Quantity: 2})
	require.NoError(t, err)
	s, change, err := Reduce(s, MergeIntoCollection{CollectionID: c.ID, Entries: []models.CollectionEntry{
		{Card: testCard("a", "Llanowar Elves"), Quantity: 1},
		{Card: testCard("b", "Elvish Mystic"), Quantity: 4},
	}})
	require.NoError(t, err)
	assert.True(t, change.Has(ChangeCollections))

	s, _, err = Reduce(s, RenameCollection{ID: c.ID, Name: "Binder", Description: "elves"})
	require.NoError(t, err)

	got, ok := s.Collection(c.ID)
	require.True(t, ok)
	assert.Equal(t, "Binder", got.Name)
	require.Len(t, got.Cards, 2)
	assert.Equal(t, 7, got.TotalCopies())

	_, _, err = Reduce(s, RenameCollection{ID: c.ID, Name: "  "})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestReduce_UnknownIDs(t *testing.T) {
	s := New()
	tests := []struct {
		name   string
		action Action
	}{
		{"delete collection", DeleteCollection{ID: "x"}},
		{"add to collection", AddToCollection{CollectionID: "x", Card: testCard("a", "A"), Quantity: 1}},
		{"merge into collection", MergeIntoCollection{CollectionID: "x"}},
		{"rename collection", RenameCollection{ID: "x", Name: "New"}},
		{"delete deck", DeleteDeck{ID: "x"}},
		{"add to deck", AddToDeck{DeckID: "x", Card: testCard("a", "A"), Quantity: 1, Board: deck.BoardMain}},
		{"delete filter", DeleteFilter{ID: "x"}},
		{"apply filter", ApplyFilter{ID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, change, err := Reduce(s, tt.action)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.Zero(t, change)
			assert.Equal(t, s, next)
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	c, err := collection.New("Main", "")
	require.NoError(t, err)
	before, _, err := Reduce(New(), PutCollection{Collection: c})
	require.NoError(t, err)

	after, _, err := Reduce(before, AddToCollection{CollectionID: c.ID, Card: testCard("a", "A"), Quantity: 1})
	require.NoError(t, err)

	orig, _ := before.Collection(c.ID)
	assert.Empty(t, orig.Cards)
	updated, _ := after.Collection(c.ID)
	assert.Len(t, updated.Cards, 1)
}

func TestReduce_DeckActions(t *testing.T) {
	d, err := deck.New("Elves", models.FormatStandard, "")
	require.NoError(t, err)
	s, _, err := Reduce(New(), PutDeck{Deck: d})
	require.NoError(t, err)

	s, change, err := Reduce(s, AddToDeck{DeckID: d.ID, Card: testCard("a", "A"), Quantity: 4, Board: deck.BoardMain})
	require.NoError(t, err)
	assert.True(t, change.Has(ChangeDecks))

	s, _, err = Reduce(s, MoveInDeck{DeckID: d.ID, CardID: "a", From: deck.BoardMain, To: deck.BoardSideboard, Quantity: 1})
	require.NoError(t, err)
	got, _ := s.Deck(d.ID)
	assert.Equal(t, 3, got.MainboardCount())
	assert.Equal(t, 1, got.SideboardCount())

	s, _, err = Reduce(s, RemoveFromDeck{DeckID: d.ID, CardID: "a", Board: deck.BoardSideboard})
	require.NoError(t, err)
	got, _ = s.Deck(d.ID)
	assert.Equal(t, 0, got.SideboardCount())
}

func TestReduce_Facets(t *testing.T) {
	s := New()
	f := filter.Default()
	f.Rarity = "rare"
	f.SearchText = "elf"

	s, change, err := Reduce(s, SetFacets{Context: filter.ContextDeck, Facets: f})
	require.NoError(t, err)
	assert.True(t, change.Has(ChangeFacets))
	assert.Equal(t, "rare", s.Facets.Get(filter.ContextDeck).Rarity)
	assert.Equal(t, filter.All, s.Facets.Get(filter.ContextCollection).Rarity)

	saved, err := filter.NewSavedFilter("Rares", filter.ContextCollection, f)
	require.NoError(t, err)
	s, _, err = Reduce(s, SaveFilter{Filter: *saved})
	require.NoError(t, err)
	s, _, err = Reduce(s, ApplyFilter{ID: saved.ID})
	require.NoError(t, err)
	assert.Equal(t, "elf", s.Facets.Get(filter.ContextCollection).SearchText)

	s, _, err = Reduce(s, ResetFacets{Context: filter.ContextCollection})
	require.NoError(t, err)
	assert.Equal(t, filter.Default(), s.Facets.Get(filter.ContextCollection))
}

func TestReduce_LoginRequiresName(t *testing.T) {
	_, _, err := Reduce(New(), Login{User: models.User{Name: "  "}})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestNewUser_SplitsName(t *testing.T) {
	u := NewUser("  Ana   Maria  Silva ", "ana@example.com")
	assert.Equal(t, "Ana Maria Silva", u.Name)
	assert.Equal(t, "Ana", u.FirstName)
	assert.Equal(t, "Maria Silva", u.LastName)
	assert.NotEmpty(t, u.ID)

	single := NewUser("Jace", "")
	assert.Equal(t, "Jace", single.FirstName)
	assert.Empty(t, single.LastName)
}

type recorder struct {
	mu    sync.Mutex
	types []string
}

func (r *recorder) OnEvent(e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.Type)
	return nil
}

func (r *recorder) GetName() string          { return "recorder" }
func (r *recorder) ShouldHandle(string) bool { return true }

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func TestStore_PersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	svc := storage.NewTestService(t)
	dispatcher := events.NewEventDispatcher()
	rec := &recorder{}
	dispatcher.Register(rec)

	store := NewStore(svc, dispatcher, nil)
	_, err := store.Login(ctx, "Liliana Vess", "lili@example.com")
	require.NoError(t, err)
	c, err := store.CreateCollection(ctx, "Binder", "")
	require.NoError(t, err)
	_, err = store.Dispatch(ctx, AddToCollection{CollectionID: c.ID, Card: testCard("a", "A"), Quantity: 2, Options: collection.AddOptions{Foil: true}})
	require.NoError(t, err)
	_, err = store.CreateDeck(ctx, "Zombies", models.FormatModern, "")
	require.NoError(t, err)
	_, err = store.SaveFilter(ctx, "Everything", filter.ContextCollection, filter.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{
		events.TypeAuthChanged,
		events.TypeCollectionUpdated,
		events.TypeCollectionUpdated,
		events.TypeDeckUpdated,
		events.TypeFiltersUpdated,
	}, rec.seen())

	nonFoil, foil := store.Ownership().Quantities("a")
	assert.Equal(t, 0, nonFoil)
	assert.Equal(t, 2, foil)

	restored := NewStore(svc, nil, nil)
	require.NoError(t, restored.Hydrate(ctx))
	st := restored.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "Liliana", st.User.FirstName)
	assert.Len(t, st.Collections, 1)
	assert.Len(t, st.Decks, 1)
	assert.Len(t, st.Filters, 1)
	_, foil = restored.Ownership().Quantities("a")
	assert.Equal(t, 2, foil)

	require.NoError(t, restored.Logout(ctx))
	again := NewStore(svc, nil, nil)
	require.NoError(t, again.Hydrate(ctx))
	assert.False(t, again.State().LoggedIn())
}

func TestStore_FailedActionLeavesState(t *testing.T) {
	store := NewStore(nil, nil, nil)
	_, err := store.Dispatch(context.Background(), DeleteDeck{ID: "missing"})
	require.Error(t, err)
	assert.Empty(t, store.State().Decks)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore(nil, nil, nil)
	ctx := context.Background()
	c, err := store.CreateCollection(ctx, "Main", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Dispatch(ctx, AddToCollection{CollectionID: c.ID, Card: testCard("a", "A"), Quantity: 1})
		}()
		go func() {
			defer wg.Done()
			st, err := store.Dispatch(ctx, DeleteDeck{ID: "missing"})
			assert.Error(t, err)
			assert.Len(t, st.Collections, 1)
		}()
	}
	wg.Wait()

	got, ok := store.State().Collection(c.ID)
	require.True(t, ok)
	assert.Equal(t, 20, got.TotalCopies())
}
