package handlers

import (
	"net/http"
	"strconv"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/rulings"
)

// defaultSearchLimit caps pool search results when no limit is given.
const defaultSearchLimit = 100

// CardHandler handles card lookup requests.
type CardHandler struct {
	services *app.Services
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(services *app.Services) *CardHandler {
	return &CardHandler{services: services}
}

// SearchCards filters the local card pool. Query parameters: q (name
// text), type, rarity, owned and limit.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	facets := filter.Default()
	facets.SearchText = q.Get("q")
	if v := q.Get("type"); v != "" {
		facets.Type = v
	}
	if v := q.Get("rarity"); v != "" {
		facets.Rarity = v
	}
	facets.OwnedOnly = queryBool(r, "owned")
	facets.SortBy = filter.SortName
	facets.SortAscending = true

	limit := defaultSearchLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	cards := filter.Apply(h.services.Pool.Cards(), facets, h.services.Store.Ownership())
	total := len(cards)
	if len(cards) > limit {
		cards = cards[:limit]
	}
	response.Paginated(w, cards, 1, 1, total, total > limit)
}

// GetCard returns a single card by ID.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := urlParam(w, r, "cardID", "card ID")
	if !ok {
		return
	}

	card, err := h.services.Card(r.Context(), cardID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, card)
}

// GetCardRulings returns a card's rulings. Lookup failures for the rulings
// themselves are reported as entries, never as an error status.
func (h *CardHandler) GetCardRulings(w http.ResponseWriter, r *http.Request) {
	cardID, ok := urlParam(w, r, "cardID", "card ID")
	if !ok {
		return
	}

	list, err := h.services.CardRulings(r.Context(), cardID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, rulings.Entries(list))
}

