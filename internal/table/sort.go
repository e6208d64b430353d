package table

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/prabalesh/tasktop/internal/models"
)

// Sorter orders body lines by one column of a schema.
type Sorter struct {
	Schema models.Schema
	Locale language.Tag
}

// Sort returns a stably sorted copy of body. Magnitude keys compare
// largest-first; Inverted reverses the result afterwards.
func (s Sorter) Sort(body []string, state models.SortState) []string {
	out := slices.Clone(body)
	if len(out) < 2 {
		return out
	}

	col := s.Schema.Column(state.Key)
	// collate.Collator keeps scratch buffers, so each call gets its own.
	c := collate.New(s.Locale)
	cmp := func(a, b string) int {
		return c.CompareString(col.Slice(a), col.Slice(b))
	}
	if state.Key.Magnitude() {
		cmp = func(a, b string) int {
			return c.CompareString(col.Slice(b), col.Slice(a))
		}
	}

	slices.SortStableFunc(out, cmp)
	if state.Inverted {
		slices.Reverse(out)
	}
	return out
}
