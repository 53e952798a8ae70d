package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/filter"
)

// BrowserHandler drives the collection and deck card browsers.
type BrowserHandler struct {
	services *app.Services
}

// NewBrowserHandler creates a new BrowserHandler.
func NewBrowserHandler(services *app.Services) *BrowserHandler {
	return &BrowserHandler{services: services}
}

// context returns the browser name from the path.
func (h *BrowserHandler) context(w http.ResponseWriter, r *http.Request) (string, bool) {
	return urlParam(w, r, "context", "browser")
}

// GetView returns the cards a browser currently shows.
func (h *BrowserHandler) GetView(w http.ResponseWriter, r *http.Request) {
	name, ok := h.context(w, r)
	if !ok {
		return
	}
	h.writeView(w, name)
}

func (h *BrowserHandler) writeView(w http.ResponseWriter, name string) {
	view, err := h.services.Browse(name)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, view)
}

// SetFacets replaces a browser's facets. A remote search is scheduled
// when the facets need one; the returned view reflects the state at the
// time of the call and later pages arrive as browser:state events.
func (h *BrowserHandler) SetFacets(w http.ResponseWriter, r *http.Request) {
	name, ok := h.context(w, r)
	if !ok {
		return
	}
	facets := filter.Default()
	if !decode(w, r, &facets) {
		return
	}

	if _, err := h.services.SetFacets(r.Context(), name, facets); err != nil {
		response.FromError(w, err)
		return
	}
	h.writeView(w, name)
}

// ResetFacets restores a browser's default facets.
func (h *BrowserHandler) ResetFacets(w http.ResponseWriter, r *http.Request) {
	name, ok := h.context(w, r)
	if !ok {
		return
	}

	if _, err := h.services.ResetFacets(r.Context(), name); err != nil {
		response.FromError(w, err)
		return
	}
	h.writeView(w, name)
}

// GoToPage fetches another page of remote results.
func (h *BrowserHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	name, ok := h.context(w, r)
	if !ok {
		return
	}
	pageStr, ok := urlParam(w, r, "page", "page")
	if !ok {
		return
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		response.BadRequest(w, errors.New("invalid page"))
		return
	}

	started, err := h.services.GoToPage(name, page)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]bool{"started": started})
}

// Refresh re-runs a browser's remote search.
func (h *BrowserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	name, ok := h.context(w, r)
	if !ok {
		return
	}

	started, err := h.services.Refresh(name)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]bool{"started": started})
}

// Cancel aborts a browser's pending and in-flight searches.
func (h *BrowserHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	name, ok := h.context(w, r)
	if !ok {
		return
	}

	if err := h.services.CancelSearch(name); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
