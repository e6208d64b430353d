package table

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/prabalesh/tasktop/internal/models"
)

// Render joins the three regions, one line per row, with a trailing newline.
func Render(header, body, footer []string) string {
	var b strings.Builder
	for _, region := range [][]string{header, body, footer} {
		for _, line := range region {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Engine runs the filter, sort and render steps over a raw listing.
type Engine struct {
	schema models.Schema
	filter Filter
	sorter Sorter
}

// NewEngine panics if schema is invalid.
func NewEngine(schema models.Schema, filter Filter, locale language.Tag) *Engine {
	schema = models.MustSchema(schema)
	return &Engine{
		schema: schema,
		filter: filter,
		sorter: Sorter{Schema: schema, Locale: locale},
	}
}

func (e *Engine) Schema() models.Schema { return e.schema }

// Render produces the displayed table for raw under state.
func (e *Engine) Render(raw string, state models.SortState) (string, error) {
	lines := e.filter.Apply(SplitLines(raw))
	header, body, footer, err := Regions(lines, e.schema)
	if err != nil {
		return "", err
	}
	return Render(header, e.sorter.Sort(body, state), footer), nil
}

// ResolvePID maps a line of text previously returned by Render to its
// process id.
func (e *Engine) ResolvePID(text string, line int) (int, error) {
	return ResolvePID(e.schema, text, line)
}
