package event

import "testing"

func TestParseScore(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{"0", 0},
		{"W", 1},
		{"w", 1},
		{"L", 0},
		{" 12 ", 12},
		{"DNF", 0},
		{"", 0},
		{"-4", 0},
		{"2nd", 0},
	}

	for _, tc := range cases {
		if got := ParseScore(tc.raw); got != tc.want {
			t.Fatalf("unexpected score for %q: got=%d want=%d", tc.raw, got, tc.want)
		}
	}
}
