package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ramonehamilton/MTG-Collection/internal/collection"
	"github.com/ramonehamilton/MTG-Collection/internal/events"
	"github.com/ramonehamilton/MTG-Collection/internal/export"
	"github.com/ramonehamilton/MTG-Collection/internal/importer"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/state"
	"github.com/ramonehamilton/MTG-Collection/internal/stats"
)

// Collections lists every collection.
func (s *Services) Collections() []models.Collection {
	return s.Store.State().Collections
}

// Collection returns one collection.
func (s *Services) Collection(id string) (models.Collection, error) {
	c, ok := s.Store.State().Collection(id)
	if !ok {
		return models.Collection{}, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// CreateCollection creates an empty collection.
func (s *Services) CreateCollection(ctx context.Context, name, description string) (models.Collection, error) {
	return s.Store.CreateCollection(ctx, name, description)
}

// RenameCollection changes the name and description of a collection.
func (s *Services) RenameCollection(ctx context.Context, id, name, description string) (models.Collection, error) {
	st, err := s.Store.Dispatch(ctx, state.RenameCollection{ID: id, Name: name, Description: description})
	if err != nil {
		return models.Collection{}, err
	}
	c, _ := st.Collection(id)
	return c, nil
}

// DeleteCollection removes a collection.
func (s *Services) DeleteCollection(ctx context.Context, id string) error {
	_, err := s.Store.Dispatch(ctx, state.DeleteCollection{ID: id})
	return err
}

// AddToCollection adds copies of a card, fetching the card if needed.
func (s *Services) AddToCollection(ctx context.Context, collectionID, cardID string, quantity int, opts collection.AddOptions) (models.Collection, error) {
	card, err := s.Card(ctx, cardID)
	if err != nil {
		return models.Collection{}, err
	}
	st, err := s.Store.Dispatch(ctx, state.AddToCollection{
		CollectionID: collectionID,
		Card:         card,
		Quantity:     quantity,
		Options:      opts,
	})
	if err != nil {
		return models.Collection{}, err
	}
	c, _ := st.Collection(collectionID)
	return c, nil
}

// SetCollectionQuantity sets an entry's quantity; zero removes it.
func (s *Services) SetCollectionQuantity(ctx context.Context, collectionID, cardID string, foil bool, quantity int) (models.Collection, error) {
	st, err := s.Store.Dispatch(ctx, state.SetCollectionQuantity{
		CollectionID: collectionID,
		CardID:       cardID,
		Foil:         foil,
		Quantity:     quantity,
	})
	if err != nil {
		return models.Collection{}, err
	}
	c, _ := st.Collection(collectionID)
	return c, nil
}

// ImportCSV merges a CSV file into a collection. Rows are resolved against
// the card pool into a staging copy, then merged into whatever the
// collection holds at that point. source names the input in the completion
// event.
func (s *Services) ImportCSV(ctx context.Context, collectionID string, r io.Reader, source string, progress func(processed, total int)) (*importer.Result, error) {
	target, err := s.Collection(collectionID)
	if err != nil {
		return nil, err
	}
	staging := target
	staging.Cards = []models.CollectionEntry{}

	result, err := importer.Import(r, staging, s.Pool, importer.Options{Logger: s.logger, Progress: progress})
	if err != nil {
		return nil, err
	}
	st, err := s.Store.Dispatch(ctx, state.MergeIntoCollection{CollectionID: collectionID, Entries: result.Collection.Cards})
	if merged, ok := st.Collection(collectionID); ok {
		result.Collection = merged
	}
	if err != nil {
		return result, err
	}

	s.Dispatcher.Dispatch(events.NewEvent(ctx, events.TypeImportCompleted, events.ImportCompletedEvent{
		CollectionID: collectionID,
		Source:       source,
		Imported:     result.Imported,
		Failed:       result.Failed,
	}))
	return result, nil
}

// ExportCollection writes a collection as CSV or JSON.
func (s *Services) ExportCollection(w io.Writer, id string, format export.Format, prettyJSON bool) error {
	c, err := s.Collection(id)
	if err != nil {
		return err
	}
	return export.ExportToWriter(w, format, &c, prettyJSON)
}

// ExportCollectionFilename is the download name for a collection export.
func (s *Services) ExportCollectionFilename(id string, format export.Format) (string, error) {
	c, err := s.Collection(id)
	if err != nil {
		return "", err
	}
	return export.Filename(c.Name, time.Now(), format), nil
}

// CollectionStats aggregates one collection, or every collection when id
// is empty.
func (s *Services) CollectionStats(id string) (stats.Summary, error) {
	if id == "" {
		return stats.Compute(stats.CollectionsItems(s.Collections())), nil
	}
	c, err := s.Collection(id)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Compute(stats.CollectionItems(&c)), nil
}

// Owned returns the owned non-foil and foil copies of a card across all
// collections.
func (s *Services) Owned(cardID string) (nonFoil, foil int) {
	return s.Store.Ownership().Quantities(cardID)
}
