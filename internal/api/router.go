package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/MTG-Collection/internal/api/handlers"
	"github.com/ramonehamilton/MTG-Collection/internal/api/response"
	"github.com/ramonehamilton/MTG-Collection/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	if s.services == nil {
		return
	}

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		authHandler := handlers.NewAuthHandler(s.services)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		// Collection routes
		collectionHandler := handlers.NewCollectionHandler(s.services)
		r.Route("/collections", func(r chi.Router) {
			r.Get("/", collectionHandler.GetCollections)
			r.Post("/", collectionHandler.CreateCollection)
			r.Get("/ownership/{cardID}", collectionHandler.GetOwnership)
			r.Get("/{collectionID}", collectionHandler.GetCollection)
			r.Put("/{collectionID}", collectionHandler.UpdateCollection)
			r.Delete("/{collectionID}", collectionHandler.DeleteCollection)
			r.Post("/{collectionID}/cards", collectionHandler.AddCard)
			r.Put("/{collectionID}/cards/{cardID}", collectionHandler.SetQuantity)
			r.Post("/{collectionID}/import", collectionHandler.ImportCSV)
			r.Get("/{collectionID}/export", collectionHandler.ExportCollection)
		})

		// Deck routes
		deckHandler := handlers.NewDeckHandler(s.services)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Post("/import", deckHandler.ImportDeck)
			r.Get("/export-formats", deckHandler.GetExportFormats)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Put("/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Post("/{deckID}/clone", deckHandler.CloneDeck)
			r.Post("/{deckID}/cards", deckHandler.AddCard)
			r.Delete("/{deckID}/cards/{cardID}", deckHandler.RemoveCard)
			r.Post("/{deckID}/move", deckHandler.MoveCard)
			r.Get("/{deckID}/validate", deckHandler.ValidateDeck)
			r.Get("/{deckID}/export", deckHandler.ExportDeck)
		})

		// Saved filter routes
		filterHandler := handlers.NewFilterHandler(s.services)
		r.Route("/filters", func(r chi.Router) {
			r.Get("/", filterHandler.GetFilters)
			r.Post("/", filterHandler.SaveFilter)
			r.Delete("/{filterID}", filterHandler.DeleteFilter)
			r.Post("/{filterID}/apply", filterHandler.ApplyFilter)
		})

		// Card browser routes
		browserHandler := handlers.NewBrowserHandler(s.services)
		r.Route("/browser/{context}", func(r chi.Router) {
			r.Get("/", browserHandler.GetView)
			r.Put("/facets", browserHandler.SetFacets)
			r.Post("/reset", browserHandler.ResetFacets)
			r.Post("/refresh", browserHandler.Refresh)
			r.Post("/cancel", browserHandler.Cancel)
			r.Post("/page/{page}", browserHandler.GoToPage)
		})

		// Card routes
		cardHandler := handlers.NewCardHandler(s.services)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.SearchCards)
			r.Get("/{cardID}", cardHandler.GetCard)
			r.Get("/{cardID}/rulings", cardHandler.GetCardRulings)
		})

		// Stats and chart routes
		statsHandler := handlers.NewStatsHandler(s.services)
		r.Route("/stats", func(r chi.Router) {
			r.Get("/", statsHandler.GetDashboardStats)
			r.Get("/collections/{collectionID}", statsHandler.GetCollectionStats)
			r.Get("/decks/{deckID}", statsHandler.GetDeckStats)
		})
		r.Route("/charts", func(r chi.Router) {
			r.Get("/", statsHandler.GetDashboardChart)
			r.Get("/collections/{collectionID}", statsHandler.GetCollectionChart)
			r.Get("/decks/{deckID}", statsHandler.GetDeckChart)
		})

		// System routes
		systemHandler := handlers.NewSystemHandler(s.services)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/background", systemHandler.GetBackground)
			r.Get("/metrics", systemHandler.GetMetrics)
			r.Delete("/metrics", systemHandler.ResetMetrics)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": version.Name + "-api",
		"version": version.GetVersion(),
	})
}
