package app

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/MTG-Collection/internal/filter"
	"github.com/ramonehamilton/MTG-Collection/internal/models"
	"github.com/ramonehamilton/MTG-Collection/internal/pagination"
	"github.com/ramonehamilton/MTG-Collection/internal/state"
)

// BrowserView is what a card browser shows.
type BrowserView struct {
	State  pagination.State `json:"state"`
	Facets filter.Facets    `json:"facets"`
	Cards  []models.Card    `json:"cards"`
}

func (s *Services) browser(context string) (*pagination.Controller, error) {
	ctrl, ok := s.browsers[context]
	if !ok {
		return nil, models.NewValidationError("context", fmt.Sprintf("unknown browser %q", context))
	}
	return ctrl, nil
}

// SetFacets stores the facets of a browser and hands them to its
// controller, which either schedules a remote search or stays local.
func (s *Services) SetFacets(ctx context.Context, browser string, f filter.Facets) (pagination.Mode, error) {
	ctrl, err := s.browser(browser)
	if err != nil {
		return "", err
	}
	if _, err := s.Store.Dispatch(ctx, state.SetFacets{Context: browser, Facets: f}); err != nil {
		return "", err
	}
	return ctrl.SetFacets(f), nil
}

// ResetFacets restores a browser's default facets.
func (s *Services) ResetFacets(ctx context.Context, browser string) (pagination.Mode, error) {
	return s.SetFacets(ctx, browser, filter.Default())
}

// ApplyFilter installs a saved filter in its browser.
func (s *Services) ApplyFilter(ctx context.Context, id string) (pagination.Mode, error) {
	st, err := s.Store.Dispatch(ctx, state.ApplyFilter{ID: id})
	if err != nil {
		return "", err
	}
	f, _ := st.Filter(id)
	ctrl, err := s.browser(f.Context)
	if err != nil {
		return "", err
	}
	return ctrl.SetFacets(st.Facets.Get(f.Context)), nil
}

// GoToPage fetches page n of a browser's remote results. It returns false
// when n is out of range or a fetch is already running.
func (s *Services) GoToPage(browser string, n int) (bool, error) {
	ctrl, err := s.browser(browser)
	if err != nil {
		return false, err
	}
	return ctrl.GoToPage(n), nil
}

// Refresh re-runs a browser's remote search immediately.
func (s *Services) Refresh(browser string) (bool, error) {
	ctrl, err := s.browser(browser)
	if err != nil {
		return false, err
	}
	return ctrl.Refresh(), nil
}

// CancelSearch aborts a browser's pending and in-flight searches.
func (s *Services) CancelSearch(browser string) error {
	ctrl, err := s.browser(browser)
	if err != nil {
		return err
	}
	ctrl.Cancel()
	return nil
}

// Browse returns the cards a browser currently shows. In local mode the
// whole pool is filtered; in remote mode the fetched page is.
func (s *Services) Browse(browser string) (*BrowserView, error) {
	ctrl, err := s.browser(browser)
	if err != nil {
		return nil, err
	}
	st := ctrl.State()
	facets := ctrl.Facets()
	ownership := s.Store.Ownership()

	var cards []models.Card
	if st.Mode == pagination.ModeRemote {
		cards = ctrl.View(ownership)
	} else {
		cards = filter.Apply(s.Pool.Cards(), facets, ownership)
	}
	return &BrowserView{State: st, Facets: facets, Cards: cards}, nil
}

// SaveFilter captures the current facets of a browser under name.
func (s *Services) SaveFilter(ctx context.Context, name, browser string) (filter.SavedFilter, error) {
	ctrl, err := s.browser(browser)
	if err != nil {
		return filter.SavedFilter{}, err
	}
	return s.Store.SaveFilter(ctx, name, browser, ctrl.Facets())
}

// DeleteFilter removes a saved filter.
func (s *Services) DeleteFilter(ctx context.Context, id string) error {
	_, err := s.Store.Dispatch(ctx, state.DeleteFilter{ID: id})
	return err
}

// Filters lists the saved filters.
func (s *Services) Filters() []filter.SavedFilter {
	return s.Store.State().Filters
}
