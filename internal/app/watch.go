package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ramonehamilton/MTG-Collection/internal/importer"
	"github.com/ramonehamilton/MTG-Collection/internal/watch"
)

// DefaultImportCollection receives watched files when no collection id is
// configured.
const DefaultImportCollection = "Imported"

// ImportFile imports the CSV file at path into a collection. An empty
// collectionID selects the collection named DefaultImportCollection,
// creating it on first use.
func (s *Services) ImportFile(ctx context.Context, collectionID, path string) (*importer.Result, error) {
	if collectionID == "" {
		id, err := s.defaultImportCollection(ctx)
		if err != nil {
			return nil, err
		}
		collectionID = id
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	result, err := s.ImportCSV(ctx, collectionID, f, filepath.Base(path), nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Imported file", "path", path, "collection", result.Collection.Name,
		"imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func (s *Services) defaultImportCollection(ctx context.Context) (string, error) {
	for _, c := range s.Collections() {
		if c.Name == DefaultImportCollection {
			return c.ID, nil
		}
	}
	c, err := s.CreateCollection(ctx, DefaultImportCollection, "Cards imported from the watch folder")
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// ImportWatcher returns a watcher over the configured import folder, or
// nil when none is configured.
func (r *Runtime) ImportWatcher() (*watch.Watcher, error) {
	cfg := r.Config.Import
	if cfg.WatchDir == "" {
		return nil, nil
	}
	handler := func(ctx context.Context, path string) error {
		_, err := r.ImportFile(ctx, cfg.CollectionID, path)
		return err
	}
	return watch.New(cfg.WatchDir, handler, watch.Options{
		Pattern:    cfg.Pattern,
		Dispatcher: r.Dispatcher,
	})
}
