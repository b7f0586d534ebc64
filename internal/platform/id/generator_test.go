package id

import (
	"encoding/hex"
	"testing"
)

func TestRandomGeneratorNewID(t *testing.T) {
	g := NewRandomGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := g.NewID()
		if err != nil {
			t.Fatalf("NewID error: %v", err)
		}
		if len(got) != 32 {
			t.Fatalf("id %q has length %d, want 32", got, len(got))
		}
		if _, err := hex.DecodeString(got); err != nil {
			t.Fatalf("id %q is not hex: %v", got, err)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}
