package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/deck"
	"github.com/ramonehamilton/MTG-Collection/internal/deckexport"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	services *app.Services
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(services *app.Services) *DeckHandler {
	return &DeckHandler{services: services}
}

// GetDecks returns all decks, optionally narrowed by format.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	format := models.DeckFormat(r.URL.Query().Get("format"))
	decks := h.services.Decks()
	if format != "" {
		filtered := make([]models.Deck, 0, len(decks))
		for _, d := range decks {
			if d.Format == format {
				filtered = append(filtered, d)
			}
		}
		decks = filtered
	}
	response.Success(w, decks)
}

// DeckRequest represents a create or update request.
type DeckRequest struct {
	Name        string `json:"name"`
	Format      string `json:"format"`
	Description string `json:"description"`
}

// CreateDeck creates a new deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req DeckRequest
	if !decode(w, r, &req) {
		return
	}

	d, err := h.services.CreateDeck(r.Context(), req.Name, models.DeckFormat(req.Format), req.Description)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, d)
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}

	d, err := h.services.Deck(deckID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, d)
}

// UpdateDeck changes a deck's name, format and description.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	var req DeckRequest
	if !decode(w, r, &req) {
		return
	}

	d, err := h.services.UpdateDeck(r.Context(), deckID, req.Name, models.DeckFormat(req.Format), req.Description)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, d)
}

// DeleteDeck deletes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}

	if err := h.services.DeleteDeck(r.Context(), deckID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// CloneDeckRequest names the copy.
type CloneDeckRequest struct {
	Name string `json:"name"`
}

// CloneDeck copies a deck.
func (h *DeckHandler) CloneDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	var req CloneDeckRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}

	d, err := h.services.CloneDeck(r.Context(), deckID, req.Name)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, d)
}

// DeckCardRequest represents a card operation on a deck.
type DeckCardRequest struct {
	CardID   string `json:"card_id"`
	Quantity int    `json:"quantity"`
	Board    string `json:"board"`
	To       string `json:"to,omitempty"`
}

func (req *DeckCardRequest) board() (deck.Board, error) {
	if req.Board == "" {
		return deck.BoardMain, nil
	}
	return deck.ParseBoard(req.Board)
}

// AddCard adds copies of a card to a deck board.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	var req DeckCardRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CardID == "" {
		response.BadRequest(w, errors.New("card_id is required"))
		return
	}
	board, err := req.board()
	if err != nil {
		response.FromError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	d, err := h.services.AddToDeck(r.Context(), deckID, req.CardID, req.Quantity, board)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, d)
}

// RemoveCard removes a card from a deck board given by the board query
// parameter (default main).
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	cardID, ok := urlParam(w, r, "cardID", "card ID")
	if !ok {
		return
	}
	req := DeckCardRequest{Board: r.URL.Query().Get("board")}
	board, err := req.board()
	if err != nil {
		response.FromError(w, err)
		return
	}

	d, err := h.services.RemoveFromDeck(r.Context(), deckID, cardID, board)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, d)
}

// MoveCard moves copies between boards. A zero quantity moves all.
func (h *DeckHandler) MoveCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	var req DeckCardRequest
	if !decode(w, r, &req) {
		return
	}
	from, err := req.board()
	if err != nil {
		response.FromError(w, err)
		return
	}
	to, err := deck.ParseBoard(req.To)
	if err != nil {
		response.FromError(w, err)
		return
	}

	d, err := h.services.MoveInDeck(r.Context(), deckID, req.CardID, from, to, req.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, d)
}

// ValidateDeck checks a deck against its format.
func (h *DeckHandler) ValidateDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}

	legality, err := h.services.ValidateDeck(deckID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, legality)
}

// ImportDeckRequest carries a text deck list.
type ImportDeckRequest struct {
	DeckID string `json:"deck_id,omitempty"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Text   string `json:"text"`
}

// ImportDeck parses a deck list into a new or existing deck.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	var req ImportDeckRequest
	if !decode(w, r, &req) {
		return
	}
	if req.DeckID == "" && req.Name == "" {
		req.Name = "Imported Deck"
	}

	result, err := h.services.ImportDeckList(r.Context(), req.DeckID, req.Name, models.DeckFormat(req.Format), req.Text)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if req.DeckID == "" {
		response.Created(w, result)
		return
	}
	response.Success(w, result)
}

// ExportDeck renders a deck as text. The format query parameter selects
// arena, plaintext or mtgo.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	deckID, ok := urlParam(w, r, "deckID", "deck ID")
	if !ok {
		return
	}
	format, err := deckexport.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	exp, err := h.services.ExportDeck(deckID, format, !queryBool(r, "no_headers"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	if queryBool(r, "download") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
		_, _ = w.Write([]byte(exp.Content))
		return
	}
	response.Success(w, exp)
}

// GetExportFormats lists the deck export formats.
func (h *DeckHandler) GetExportFormats(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, deckexport.Formats)
}
