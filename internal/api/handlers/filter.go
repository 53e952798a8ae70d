package handlers

import (
	"net/http"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
)

// FilterHandler handles saved filter requests.
type FilterHandler struct {
	services *app.Services
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(services *app.Services) *FilterHandler {
	return &FilterHandler{services: services}
}

// GetFilters lists the saved filters.
func (h *FilterHandler) GetFilters(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.services.Filters())
}

// SaveFilterRequest names the browser whose facets are captured.
type SaveFilterRequest struct {
	Name    string `json:"name"`
	Context string `json:"context"`
}

// SaveFilter captures a browser's current facets.
func (h *FilterHandler) SaveFilter(w http.ResponseWriter, r *http.Request) {
	var req SaveFilterRequest
	if !decode(w, r, &req) {
		return
	}

	f, err := h.services.SaveFilter(r.Context(), req.Name, req.Context)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, f)
}

// DeleteFilter removes a saved filter.
func (h *FilterHandler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	filterID, ok := urlParam(w, r, "filterID", "filter ID")
	if !ok {
		return
	}

	if err := h.services.DeleteFilter(r.Context(), filterID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

// ApplyFilter installs a saved filter in its browser and returns the
// resulting view.
func (h *FilterHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	filterID, ok := urlParam(w, r, "filterID", "filter ID")
	if !ok {
		return
	}

	if _, err := h.services.ApplyFilter(r.Context(), filterID); err != nil {
		response.FromError(w, err)
		return
	}

	for _, f := range h.services.Filters() {
		if f.ID == filterID {
			view, err := h.services.Browse(f.Context)
			if err != nil {
				response.FromError(w, err)
				return
			}
			response.Success(w, view)
			return
		}
	}
	response.NoContent(w)
}
