package handlers

import (
	"net/http"

	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/app"
)

// AuthHandler handles the simulated login.
type AuthHandler struct {
	services *app.Services
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *app.Services) *AuthHandler {
	return &AuthHandler{services: services}
}

// LoginRequest represents a login request. No password is checked.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login signs in a local profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.services.Login(r.Context(), req.Name, req.Email)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, user)
}

// Logout clears the profile.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Logout(r.Context()); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Me returns the signed-in profile or null.
func (h *AuthHandler) Me(w http.ResponseWriter, _ *http.Request) {
	user := h.services.CurrentUser()
	if user == nil {
		response.Success(w, nil)
		return
	}
	response.Success(w, map[string]interface{}{
		"user":         user,
		"initials":     user.Initials(),
		"display_name": user.DisplayName(),
	})
}
