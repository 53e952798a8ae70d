package handlers

import (
	"net/http"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
	"github.com/ramonehamilton/MTG-Collection/internal/version"
)

// SystemHandler serves status and cosmetic endpoints.
type SystemHandler struct {
	services *app.Services
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(services *app.Services) *SystemHandler {
	return &SystemHandler{services: services}
}

// StatusResponse describes the running service.
type StatusResponse struct {
	Version     string `json:"version"`
	PoolSize    int    `json:"pool_size"`
	Collections int    `json:"collections"`
	Decks       int    `json:"decks"`
	Filters     int    `json:"filters"`
	LoggedIn    bool   `json:"logged_in"`
}

// GetStatus returns the service status.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	st := h.services.Store.State()
	response.Success(w, StatusResponse{
		Version:     version.GetVersion(),
		PoolSize:    h.services.Pool.Len(),
		Collections: len(st.Collections),
		Decks:       len(st.Decks),
		Filters:     len(st.Filters),
		LoggedIn:    st.User != nil,
	})
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"version": version.GetVersion()})
}

// GetBackground returns the art crop URL of a random full-art card.
func (h *SystemHandler) GetBackground(w http.ResponseWriter, r *http.Request) {
	url, err := h.services.Background(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"url": url})
}

// GetMetrics returns card data gateway statistics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.services.Metrics.GetStats())
}

// ResetMetrics clears card data gateway statistics.
func (h *SystemHandler) ResetMetrics(w http.ResponseWriter, _ *http.Request) {
	h.services.Metrics.Reset()
	w.WriteHeader(http.StatusNoContent)
}
