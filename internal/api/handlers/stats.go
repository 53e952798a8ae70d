package handlers

import (
	"bytes"
	"net/http"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/charts"
	"github.com/ramonehamilton/MTG-Collection/internal/stats"
)

// StatsHandler serves aggregate statistics and their charts.
type StatsHandler struct {
	services *app.Services
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(services *app.Services) *StatsHandler {
	return &StatsHandler{services: services}
}

// StatsResponse is a summary with its mana curve and the color buckets
// with their mana symbol icons.
type StatsResponse struct {
	stats.Summary
	ManaCurve []stats.CurveBucket `json:"mana_curve"`
	Colors    []charts.DataPoint  `json:"colors"`
}

func newStatsResponse(s stats.Summary) StatsResponse {
	colors := charts.ColorPoints(s)
	if colors == nil {
		colors = []charts.DataPoint{}
	}
	return StatsResponse{Summary: s, ManaCurve: s.ManaCurve(), Colors: colors}
}

// GetDashboardStats aggregates every collection.
func (h *StatsHandler) GetDashboardStats(w http.ResponseWriter, _ *http.Request) {
	s, err := h.services.CollectionStats("")
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, newStatsResponse(s))
}

// GetCollectionStats aggregates one collection.
func (h *StatsHandler) GetCollectionStats(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}

	s, err := h.services.CollectionStats(collectionID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, newStatsResponse(s))
}

// GetDeckStats aggregates a deck. The sideboard is counted when the
// sideboard query parameter is true.
func (h *StatsHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}

	s, err := h.services.DeckStats(deckID, queryBool(r, "sideboard"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, newStatsResponse(s))
}

// GetDashboardChart renders the chart page for every collection.
func (h *StatsHandler) GetDashboardChart(w http.ResponseWriter, _ *http.Request) {
	s, err := h.services.CollectionStats("")
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeChart(w, "Collection Overview", s)
}

// GetCollectionChart renders the chart page for one collection.
func (h *StatsHandler) GetCollectionChart(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}
	c, err := h.services.Collection(collectionID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	s, err := h.services.CollectionStats(collectionID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeChart(w, c.Name, s)
}

// GetDeckChart renders the chart page for a deck.
func (h *StatsHandler) GetDeckChart(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	d, err := h.services.Deck(deckID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	s, err := h.services.DeckStats(deckID, queryBool(r, "sideboard"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeChart(w, d.Name, s)
}

// writeChart renders into a buffer first so a render failure still
// produces a JSON error.
func writeChart(w http.ResponseWriter, title string, s stats.Summary) {
	var buf bytes.Buffer
	if err := charts.RenderDashboard(&buf, title, s, charts.DefaultChartConfig()); err != nil {
		response.InternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
