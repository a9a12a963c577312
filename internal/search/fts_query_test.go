package search

import "testing"

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`hello`, `"hello"`},
		{`apple banana`, `"apple" OR "banana"`},
		{`"cdent starts"`, `"cdent starts"`},
		{`say "hi there" now`, `"say" OR "hi there" OR "now"`},
		{`foo*`, `"foo"*`},
		{`left-hand`, `"left-hand"`},
		{`+apple +pear banana`, `"apple" AND "pear"`},
		{`+apple -banana cherry`, `("apple") NOT "banana"`},
		{`apple -banana -kiwi`, `("apple") NOT "banana" NOT "kiwi"`},
		{`-only`, `""`},
		{`   `, `""`},
		{`~fuzzy >more`, `"fuzzy" OR "more"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ftsQuery(tt.in); got != tt.want {
				t.Errorf("ftsQuery(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
