package scryfall

import (
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// PageSize is the number of cards Scryfall returns per search page.
const PageSize = 175

// SearchResult represents one page of search results.
type SearchResult struct {
	Object     string        `json:"object"`
	TotalCards int           `json:"total_cards"`
	HasMore    bool          `json:"has_more"`
	NextPage   string        `json:"next_page,omitempty"`
	Data       []models.Card `json:"data"`
}

// TotalPages derives the page count from TotalCards.
func (r *SearchResult) TotalPages() int {
	if r.TotalCards <= 0 {
		return 0
	}
	return (r.TotalCards + PageSize - 1) / PageSize
}

// Ruling is one official ruling.
type Ruling struct {
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Comment     string `json:"comment"`
}

// RulingList is the rulings endpoint response.
type RulingList struct {
	Object  string   `json:"object"`
	HasMore bool     `json:"has_more"`
	Data    []Ruling `json:"data"`
}

// APIError represents an error response body from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// RateLimitedError is returned for HTTP 429.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return "rate limited (HTTP 429): wait a moment before searching again"
}

// HTTPError is returned for any other non-2xx status.
type HTTPError struct {
	Status  int
	Details string
}

func (e *HTTPError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.Status, e.Details)
	}
	return fmt.Sprintf("API request failed with status %d", e.Status)
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error requesting %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if the error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
