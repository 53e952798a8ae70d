package filter

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Browser contexts a saved filter can be captured under.
const (
	ContextCollection = "collection"
	ContextDeck       = "deck"
)

// SavedFilter is a named snapshot of every facet value.
type SavedFilter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Facets    Facets    `json:"facets"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSavedFilter captures facets under the given browser context.
func NewSavedFilter(name, context string, facets Facets) (*SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("filter name is required")
	}
	if context != ContextCollection && context != ContextDeck {
		context = ContextCollection
	}
	return &SavedFilter{
		ID:        uuid.NewString(),
		Name:      name,
		Facets:    facets.Clone(),
		Context:   context,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Replay returns the facet set to install. Every live facet is overwritten.
func (s *SavedFilter) Replay() Facets {
	return s.Facets.Clone()
}
