package usecase

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Kylian MBAPPE", "kylian mbappe"},
		{"strips diacritics", "Kylian Mbappé", "kylian mbappe"},
		{"keeps hyphens", "Jean-Luc Picard", "jean-luc picard"},
		{"drops punctuation", "O'Neill, Shaq.", "oneill shaq"},
		{"collapses whitespace", "  Max    Verstappen ", "max verstappen"},
		{"empty", "   ", ""},
		{"digits survive", "Driver 44", "driver 44"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeName(tc.input); got != tc.want {
				t.Fatalf("unexpected normalization: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"Kylian MBAPPE",
		"Kylian Mbappé",
		"Šéf O'Çonnor, Jr.",
		"Jean-Luc Picard",
		"  Max    Verstappen ",
		"Driver 44",
		"   ",
	}

	for _, input := range inputs {
		once := normalizeName(input)
		if twice := normalizeName(once); twice != once {
			t.Fatalf("normalization is not a fixed point for %q: once=%q twice=%q", input, once, twice)
		}
	}
}

func TestAliasTableCanonical(t *testing.T) {
	table := NewAliasTable()

	if got := table.Canonical("K. Mbappé"); got != "kylian mbappe" {
		t.Fatalf("unexpected canonical: got=%q want=%q", got, "kylian mbappe")
	}
	// Names without an alias pass through normalized.
	if got := table.Canonical("Erling Håland"); got != "erling haland" {
		t.Fatalf("unexpected canonical: got=%q", got)
	}
}

func TestLoadAliasTableMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	content := `{"R9": "Ronaldo Nazario", "K. Mbappe": "Kylian Mbappe Lottin"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	table, err := LoadAliasTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := table.Canonical("r9"); got != "ronaldo nazario" {
		t.Fatalf("unexpected canonical for file alias: got=%q", got)
	}
	// File entries win over built-in defaults.
	if got := table.Canonical("k. mbappe"); got != "kylian mbappe lottin" {
		t.Fatalf("unexpected canonical for overridden alias: got=%q", got)
	}
}

func TestLoadAliasTableRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}
	if _, err := LoadAliasTable(path); err == nil {
		t.Fatal("expected error for malformed alias file")
	}
}
