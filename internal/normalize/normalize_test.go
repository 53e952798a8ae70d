package normalize

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ação", "acao"},
		{"É", "e"},
		{"Lightning Bolt", "lightning bolt"},
		{"Jötun Grunt", "jotun grunt"},
		{"Æther Vial", "æther vial"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestString_Idempotent(t *testing.T) {
	inputs := []string{"Ação", "ÉLAN", "Séance", "plain", "Lim-Dûl's Vault", "ñandú"}
	for _, in := range inputs {
		once := String(in)
		if twice := String(once); twice != once {
			t.Errorf("String(String(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestValue(t *testing.T) {
	s := "Éclair"
	var nilPtr *string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Ação", "acao"},
		{"pointer", &s, "eclair"},
		{"nil pointer", nilPtr, ""},
		{"int", 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(tt.in); got != tt.want {
				t.Errorf("Value(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEqualAndContains(t *testing.T) {
	if !Equal("É", "e") {
		t.Error(`Equal("É", "e") = false`)
	}
	if !Contains("Ação Rápida", "rapida") {
		t.Error("Contains should match across diacritics")
	}
	if !Contains("anything", "") {
		t.Error("empty needle should match")
	}
	if Contains("Bolt", "shock") {
		t.Error("unexpected match")
	}
}
