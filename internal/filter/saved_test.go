package filter

import "testing"

func TestSavedFilter_Replay(t *testing.T) {
	f := Default()
	f.Rarity = "mythic"
	f.Colors = []string{"U"}

	saved, err := NewSavedFilter("  Blue mythics ", ContextDeck, f)
	if err != nil {
		t.Fatalf("NewSavedFilter() error = %v", err)
	}
	if saved.Name != "Blue mythics" {
		t.Errorf("Name = %q", saved.Name)
	}
	if saved.ID == "" {
		t.Error("ID is empty")
	}

	// Mutating the live facets must not leak into the snapshot.
	f.Colors[0] = "R"
	replayed := saved.Replay()
	if replayed.Colors[0] != "U" || replayed.Rarity != "mythic" {
		t.Errorf("Replay() = %+v", replayed)
	}
}

func TestSavedFilter_Validation(t *testing.T) {
	if _, err := NewSavedFilter("   ", ContextCollection, Default()); err == nil {
		t.Error("expected error for empty name")
	}

	saved, err := NewSavedFilter("x", "bogus", Default())
	if err != nil {
		t.Fatalf("NewSavedFilter() error = %v", err)
	}
	if saved.Context != ContextCollection {
		t.Errorf("Context = %q, want %q", saved.Context, ContextCollection)
	}
}
