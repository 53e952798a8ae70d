package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/cardpool"
	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/metrics"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/scryfall"
)

func testCards() []models.Card {
	return []models.Card{
		{ID: "elf-1", Name: "Llanowar Elves", SetCode: "dom", CollectorNumber: "168", TypeLine: "Creature — Elf Druid", CMC: 1, Colors: []string{"G"}, ColorIdentity: []string{"G"}, Rarity: models.RarityCommon},
		{ID: "bolt-1", Name: "Lightning Bolt", SetCode: "m10", CollectorNumber: "146", TypeLine: "Instant", CMC: 1, Colors: []string{"R"}, ColorIdentity: []string{"R"}, Rarity: models.RarityCommon},
	}
}

// testRouter mounts the handlers the way the API server does.
func testRouter(t *testing.T) (http.Handler, *app.Services) {
	t.Helper()
	g := &app.FakeGateway{
		Cards:      testCards(),
		Background: "https://img.example/art.jpg",
		Rulings: map[string][]scryfall.Ruling{
			"bolt-1": {{Source: "wotc", PublishedAt: "2009-10-01", Comment: "Deals 3 damage."}},
		},
	}
	s := app.NewTestServices(t, g)
	require.NoError(t, s.Start(context.Background(), cardpool.LoadOptions{MaxPages: 1}))
	require.NoError(t, s.WaitLoaded(context.Background()))

	r := chi.NewRouter()
	auth := NewAuthHandler(s)
	r.Post("/auth/login", auth.Login)
	r.Post("/auth/logout", auth.Logout)
	r.Get("/auth/me", auth.Me)

	col := NewCollectionHandler(s)
	r.Get("/collections", col.GetCollections)
	r.Post("/collections", col.CreateCollection)
	r.Get("/collections/{collectionID}", col.GetCollection)
	r.Delete("/collections/{collectionID}", col.DeleteCollection)
	r.Post("/collections/{collectionID}/cards", col.AddCard)
	r.Put("/collections/{collectionID}/cards/{cardID}", col.SetQuantity)
	r.Post("/collections/{collectionID}/import", col.ImportCSV)
	r.Get("/collections/{collectionID}/export", col.ExportCollection)
	r.Get("/ownership/{cardID}", col.GetOwnership)

	dk := NewDeckHandler(s)
	r.Post("/decks", dk.CreateDeck)
	r.Post("/decks/import", dk.ImportDeck)
	r.Get("/decks/{deckID}", dk.GetDeck)
	r.Post("/decks/{deckID}/cards", dk.AddCard)
	r.Delete("/decks/{deckID}/cards/{cardID}", dk.RemoveCard)
	r.Post("/decks/{deckID}/move", dk.MoveCard)
	r.Get("/decks/{deckID}/validate", dk.ValidateDeck)
	r.Get("/decks/{deckID}/export", dk.ExportDeck)

	fl := NewFilterHandler(s)
	r.Get("/filters", fl.GetFilters)
	r.Post("/filters", fl.SaveFilter)
	r.Delete("/filters/{filterID}", fl.DeleteFilter)
	r.Post("/filters/{filterID}/apply", fl.ApplyFilter)

	br := NewBrowserHandler(s)
	r.Get("/browser/{context}", br.GetView)
	r.Put("/browser/{context}/facets", br.SetFacets)
	r.Post("/browser/{context}/reset", br.ResetFacets)
	r.Post("/browser/{context}/page/{page}", br.GoToPage)

	cards := NewCardHandler(s)
	r.Get("/cards", cards.SearchCards)
	r.Get("/cards/{cardID}", cards.GetCard)
	r.Get("/cards/{cardID}/rulings", cards.GetCardRulings)

	st := NewStatsHandler(s)
	r.Get("/stats", st.GetDashboardStats)
	r.Get("/stats/decks/{deckID}", st.GetDeckStats)
	r.Get("/charts", st.GetDashboardChart)

	sys := NewSystemHandler(s)
	r.Get("/system/status", sys.GetStatus)
	r.Get("/system/background", sys.GetBackground)
	r.Get("/system/metrics", sys.GetMetrics)
	r.Delete("/system/metrics", sys.ResetMetrics)
	return r, s
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// data decodes the data field of a success response into v.
func data(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler(t *testing.T) {
	h, _ := testRouter(t)

	w := do(t, h, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":null}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/auth/login", LoginRequest{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", errorBody(t, w)["field"])

	w = do(t, h, http.MethodPost, "/auth/login", LoginRequest{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	data(t, w, &user)
	assert.Equal(t, "Ada", user.FirstName)

	w = do(t, h, http.MethodGet, "/auth/me", nil)
	var me map[string]interface{}
	data(t, w, &me)
	assert.Equal(t, "AL", me["initials"])

	w = do(t, h, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCollectionHandler_Flow(t *testing.T) {
	h, s := testRouter(t)

	w := do(t, h, http.MethodPost, "/collections", CollectionRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/collections", CollectionRequest{Name: "Binder"})
	require.Equal(t, http.StatusCreated, w.Code)
	var c models.Collection
	data(t, w, &c)
	require.NotEmpty(t, c.ID)

	w = do(t, h, http.MethodPost, "/collections/"+c.ID+"/cards", AddCardRequest{CardID: "bolt-1", Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code)
	data(t, w, &c)
	require.Len(t, c.Cards, 1)
	assert.Equal(t, 3, c.Cards[0].Quantity)

	w = do(t, h, http.MethodPost, "/collections/"+c.ID+"/cards", AddCardRequest{CardID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/ownership/bolt-1", nil)
	var owned map[string]int
	data(t, w, &owned)
	assert.Equal(t, 3, owned["quantity"])

	w = do(t, h, http.MethodPut, "/collections/"+c.ID+"/cards/bolt-1", SetQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)
	data(t, w, &c)
	assert.Empty(t, c.Cards)

	w = do(t, h, http.MethodPost, "/collections/"+c.ID+"/import", ImportCSVRequest{
		Content:  "Name,Quantity,Set Code\nLlanowar Elves,4,dom\n",
		FileName: "elves.csv",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Imported int `json:"imported"`
		Copies   int `json:"copies"`
	}
	data(t, w, &result)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 4, result.Copies)

	w = do(t, h, http.MethodGet, "/collections/"+c.ID+"/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Llanowar Elves")

	w = do(t, h, http.MethodGet, "/collections/"+c.ID+"/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/collections/"+c.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/collections/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, s.Collections())
}

func TestCollectionHandler_InvalidBody(t *testing.T) {
	h, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/collections", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeckHandler_Flow(t *testing.T) {
	h, _ := testRouter(t)

	w := do(t, h, http.MethodPost, "/decks", DeckRequest{Name: "Burn", Format: "modern"})
	require.Equal(t, http.StatusCreated, w.Code)
	var d models.Deck
	data(t, w, &d)

	w = do(t, h, http.MethodPost, "/decks/"+d.ID+"/cards", DeckCardRequest{CardID: "bolt-1", Quantity: 4})
	require.Equal(t, http.StatusOK, w.Code)
	data(t, w, &d)
	require.Len(t, d.Mainboard, 1)

	w = do(t, h, http.MethodPost, "/decks/"+d.ID+"/cards", DeckCardRequest{CardID: "bolt-1", Board: "maybeboard"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/decks/"+d.ID+"/move", DeckCardRequest{CardID: "bolt-1", Quantity: 1, To: "sideboard"})
	require.Equal(t, http.StatusOK, w.Code)
	data(t, w, &d)
	assert.Equal(t, 3, d.Mainboard[0].Quantity)
	require.Len(t, d.Sideboard, 1)

	w = do(t, h, http.MethodDelete, "/decks/"+d.ID+"/cards/bolt-1?board=sideboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data(t, w, &d)
	assert.Empty(t, d.Sideboard)

	w = do(t, h, http.MethodGet, "/decks/"+d.ID+"/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var legality struct {
		Legal bool `json:"legal"`
	}
	data(t, w, &legality)
	assert.False(t, legality.Legal)

	w = do(t, h, http.MethodGet, "/decks/"+d.ID+"/export?format=plaintext", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var exp struct {
		Content string `json:"content"`
	}
	data(t, w, &exp)
	assert.Contains(t, exp.Content, "3x Lightning Bolt")

	w = do(t, h, http.MethodGet, "/decks/"+d.ID+"/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/stats/decks/"+d.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary StatsResponse
	data(t, w, &summary)
	assert.Equal(t, 3, summary.TotalCopies)
	assert.Len(t, summary.ManaCurve, 8)

	w = do(t, h, http.MethodGet, "/decks/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeckHandler_Import(t *testing.T) {
	h, _ := testRouter(t)

	w := do(t, h, http.MethodPost, "/decks/import", ImportDeckRequest{
		Name:   "Elves",
		Format: "standard",
		Text:   "4 Llanowar Elves\n2 Unknown Card\n",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var result app.DeckImport
	data(t, w, &result)
	assert.Equal(t, 1, result.Resolved)
	assert.Len(t, result.Unresolved, 1)
	assert.Equal(t, "Elves", result.Deck.Name)
}

func TestFilterHandler_SaveAndApply(t *testing.T) {
	h, _ := testRouter(t)

	w := do(t, h, http.MethodPut, "/browser/collection/facets", map[string]interface{}{"type": "Instant"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/filters", SaveFilterRequest{Name: "Instants", Context: "collection"})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved struct {
		ID string `json:"id"`
	}
	data(t, w, &saved)

	w = do(t, h, http.MethodPost, "/browser/collection/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/filters/"+saved.ID+"/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view app.BrowserView
	data(t, w, &view)
	assert.Equal(t, "Instant", view.Facets.Type)

	// The type facet is remote; the fetched page is narrowed locally.
	require.Eventually(t, func() bool {
		w := do(t, h, http.MethodGet, "/browser/collection", nil)
		var v app.BrowserView
		data(t, w, &v)
		return v.State.Status == "loaded" && len(v.Cards) == 1 && v.Cards[0].Name == "Lightning Bolt"
	}, 2*time.Second, 10*time.Millisecond)

	w = do(t, h, http.MethodPost, "/filters", SaveFilterRequest{Name: "Bad", Context: "trade"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodDelete, "/filters/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodPost, "/filters/"+saved.ID+"/apply", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBrowserHandler_RemoteSearch(t *testing.T) {
	h, _ := testRouter(t)

	w := do(t, h, http.MethodGet, "/browser/deck", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view app.BrowserView
	data(t, w, &view)
	assert.Len(t, view.Cards, 2)

	w = do(t, h, http.MethodPut, "/browser/deck/facets", map[string]interface{}{"search_text": "elves"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		w := do(t, h, http.MethodGet, "/browser/deck", nil)
		var v app.BrowserView
		data(t, w, &v)
		return v.State.Status == "loaded" && len(v.Cards) == 1
	}, 2*time.Second, 10*time.Millisecond)

	w = do(t, h, http.MethodPost, "/browser/deck/page/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/browser/trade", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardHandler(t *testing.T) {
	h, _ := testRouter(t)

	w := do(t, h, http.MethodGet, "/cards?q=bolt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data       []models.Card `json:"data"`
		TotalCount int           `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalCount)

	w = do(t, h, http.MethodGet, "/cards/elf-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/cards/none", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/cards/bolt-1/rulings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	data(t, w, &entries)
	require.NotEmpty(t, entries)
	assert.Equal(t, "Deals 3 damage.", entries[0].Text)
}

func TestStatsAndSystemHandlers(t *testing.T) {
	h, s := testRouter(t)

	c, err := s.CreateCollection(context.Background(), "Main", "")
	require.NoError(t, err)
	_, err = s.AddToCollection(context.Background(), c.ID, "bolt-1", 2, collection.AddOptions{})
	require.NoError(t, err)

	w := do(t, h, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary StatsResponse
	data(t, w, &summary)
	assert.Equal(t, 2, summary.TotalCopies)
	require.Len(t, summary.Colors, 1)
	assert.Equal(t, "R", summary.Colors[0].Symbol)
	assert.Equal(t, "https://svgs.scryfall.io/card-symbols/R.svg", summary.Colors[0].Icon)

	w = do(t, h, http.MethodGet, "/charts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "echarts")

	w = do(t, h, http.MethodGet, "/system/status", nil)
	var status StatusResponse
	data(t, w, &status)
	assert.Equal(t, 2, status.PoolSize)
	assert.Equal(t, 1, status.Collections)

	w = do(t, h, http.MethodGet, "/system/background", nil)
	var bg map[string]string
	data(t, w, &bg)
	assert.Equal(t, "https://img.example/art.jpg", bg["url"])

	w = do(t, h, http.MethodGet, "/system/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gm metrics.Stats
	data(t, w, &gm)
	assert.GreaterOrEqual(t, gm.Requests, uint64(2), "pool load and background")
	assert.GreaterOrEqual(t, gm.Latency[metrics.OpSearch].Count, 1)
	assert.Equal(t, 1, gm.Latency[metrics.OpBackground].Count)

	w = do(t, h, http.MethodDelete, "/system/metrics", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, s.Metrics.GetStats().Requests)
}
