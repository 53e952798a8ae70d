package main

import (
	"testing"

	"github.com/ramonehamilton/MTG-Collection/internal/filter"
)

func TestSearchFacets(t *testing.T) {
	searchFlags.cardType = "creature"
	searchFlags.colors = "ug"
	defer func() {
		searchFlags.cardType = ""
		searchFlags.colors = ""
	}()

	f := searchFacets([]string{"llanowar", "elves"})

	if f.SearchText != "llanowar elves" {
		t.Errorf("Expected joined search text, got %q", f.SearchText)
	}
	if f.Type != "creature" {
		t.Errorf("Expected type creature, got %q", f.Type)
	}
	if f.Rarity != filter.All {
		t.Errorf("Expected default rarity, got %q", f.Rarity)
	}
	if len(f.Colors) != 2 || f.Colors[0] != "U" || f.Colors[1] != "G" {
		t.Errorf("Expected U and G toggles, got %v", f.Colors)
	}
}

func TestFlagDefaults(t *testing.T) {
	tests := []struct {
		cmd, flag, want string
	}{
		{"add", "quantity", "1"},
		{"move", "quantity", "0"},
		{"move", "to", "sideboard"},
		{"export", "format", "plaintext"},
		{"import", "name", "Imported Deck"},
	}
	for _, tt := range tests {
		cmd, _, err := deckCmd.Find([]string{tt.cmd})
		if err != nil {
			t.Fatalf("deck %s: %v", tt.cmd, err)
		}
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Fatalf("deck %s has no --%s flag", tt.cmd, tt.flag)
		}
		if f.DefValue != tt.want {
			t.Errorf("deck %s --%s default = %q, want %q", tt.cmd, tt.flag, f.DefValue, tt.want)
		}
	}

	if deckFlags.format != "" {
		t.Errorf("deck create format should start empty, got %q", deckFlags.format)
	}
	if deckFlags.quantity != 1 {
		t.Errorf("deck add quantity should start at 1, got %d", deckFlags.quantity)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"search", "card", "collection", "deck", "import", "export", "stats", "login", "logout", "whoami", "serve", "events"} {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd == rootCmd {
			t.Errorf("command %q not registered", name)
		}
	}
}
