package app

import (
	"context"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

// Login signs in a local profile. There is no credential check.
func (s *Services) Login(ctx context.Context, name, email string) (models.User, error) {
	return s.Store.Login(ctx, name, email)
}

// Logout clears the signed-in profile.
func (s *Services) Logout(ctx context.Context) error {
	return s.Store.Logout(ctx)
}

// CurrentUser returns the signed-in profile, or nil.
func (s *Services) CurrentUser() *models.User {
	return s.Store.State().User
}
