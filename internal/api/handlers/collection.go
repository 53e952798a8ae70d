package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/export"
)

// CollectionHandler handles collection-related API requests.
type CollectionHandler struct {
	services *app.Services
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(services *app.Services) *CollectionHandler {
	return &CollectionHandler{services: services}
}

// GetCollections returns all collections.
func (h *CollectionHandler) GetCollections(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.services.Collections())
}

// CollectionRequest represents a create or rename request.
type CollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCollection creates a new collection.
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.services.CreateCollection(r.Context(), req.Name, req.Description)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, c)
}

// GetCollection returns a single collection.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}

	c, err := h.services.Collection(id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, c)
}

// UpdateCollection renames a collection.
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}
	var req CollectionRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.services.RenameCollection(r.Context(), id, req.Name, req.Description)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, c)
}

// DeleteCollection deletes a collection.
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}

	if err := h.services.DeleteCollection(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// AddCardRequest represents a request to add copies of a card.
type AddCardRequest struct {
	CardID        string  `json:"card_id"`
	Quantity      int     `json:"quantity"`
	Foil          bool    `json:"foil"`
	Condition     string  `json:"condition"`
	Language      string  `json:"language"`
	PurchasePrice float64 `json:"purchase_price"`
}

// AddCard adds copies of a card to a collection.
func (h *CollectionHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}
	var req AddCardRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CardID == "" {
		response.BadRequest(w, errors.New("card_id is required"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	c, err := h.services.AddToCollection(r.Context(), id, req.CardID, req.Quantity, collection.AddOptions{
		Foil:          req.Foil,
		Condition:     req.Condition,
		Language:      req.Language,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, c)
}

// SetQuantityRequest represents a request to set an entry's quantity.
type SetQuantityRequest struct {
	Foil     bool `json:"foil"`
	Quantity int  `json:"quantity"`
}

// SetQuantity sets the quantity of an entry; zero removes it.
func (h *CollectionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}
	cardID, ok := urlParam(w, r, "cardID", "card ID")
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.services.SetCollectionQuantity(r.Context(), id, cardID, req.Foil, req.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, c)
}

// ImportCSVRequest carries CSV text to import.
type ImportCSVRequest struct {
	Content  string `json:"content"`
	FileName string `json:"fileName"`
}

// ImportCSV merges CSV rows into a collection.
func (h *CollectionHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}
	var req ImportCSVRequest
	if !decode(w, r, &req) {
		return
	}

	source := req.FileName
	if source == "" {
		source = "upload"
	}
	result, err := h.services.ImportCSV(r.Context(), id, strings.NewReader(req.Content), source, nil)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportCollection downloads a collection as CSV or JSON.
func (h *CollectionHandler) ExportCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParam(w, r, "collectionID", "collection ID")
	if !ok {
		return
	}
	format := export.Format(r.URL.Query().Get("format"))
	switch format {
	case "":
		format = export.FormatCSV
	case export.FormatCSV, export.FormatJSON:
	default:
		response.BadRequest(w, fmt.Errorf("unsupported export format: %s", format))
		return
	}

	filename, err := h.services.ExportCollectionFilename(id, format)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if format == export.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := h.services.ExportCollection(w, id, format, true); err != nil {
		response.FromError(w, err)
	}
}

// GetOwnership returns the owned copies of a card across collections.
func (h *CollectionHandler) GetOwnership(w http.ResponseWriter, r *http.Request) {
	cardID, ok := urlParam(w, r, "cardID", "card ID")
	if !ok {
		return
	}
	nonFoil, foil := h.services.Owned(cardID)
	response.Success(w, map[string]int{"quantity": nonFoil, "foil_quantity": foil})
}
