package usecase

import (
	"os"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeName folds a person or team name to its canonical key:
// lowercase, diacritics stripped, punctuation removed except spaces and
// hyphens, runs of whitespace collapsed. "Kylian Mbappé" and
// "kylian mbappe" normalize identically.
func normalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}

	stripped, _, err := transform.String(diacriticStripper(), lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func diacriticStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// AliasTable maps normalized name variants to a canonical normalized
// name, catching spellings normalization alone cannot fold, like
// abbreviated first names.
type AliasTable struct {
	aliases map[string]string
}

// defaultAliases ships with the binary so fusion works without any
// external file.
var defaultAliases = map[string]string{
	"k. mbappe":     "kylian mbappe",
	"c. ronaldo":    "cristiano ronaldo",
	"l. messi":      "lionel messi",
	"e. haaland":    "erling haaland",
	"l. hamilton":   "lewis hamilton",
	"m. verstappen": "max verstappen",
	"n. djokovic":   "novak djokovic",
	"c. alcaraz":    "carlos alcaraz",
}

func NewAliasTable() *AliasTable {
	aliases := make(map[string]string, len(defaultAliases))
	for variant, canonical := range defaultAliases {
		aliases[normalizeName(variant)] = normalizeName(canonical)
	}
	return &AliasTable{aliases: aliases}
}

// LoadAliasTable merges a JSON file of {"variant": "canonical"} pairs on
// top of the built-in defaults. An empty path returns the defaults.
func LoadAliasTable(path string) (*AliasTable, error) {
	table := NewAliasTable()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrap(err, "read alias table")
	}

	var fileAliases map[string]string
	if err := sonic.Unmarshal(raw, &fileAliases); err != nil {
		return nil, crerr.Wrap(err, "decode alias table")
	}

	for variant, canonical := range fileAliases {
		table.aliases[normalizeName(variant)] = normalizeName(canonical)
	}
	return table, nil
}

// Canonical resolves a raw name to its canonical normalized form,
// following at most one alias hop.
func (t *AliasTable) Canonical(name string) string {
	normalized := normalizeName(name)
	if canonical, ok := t.aliases[normalized]; ok {
		return canonical
	}
	return normalized
}
