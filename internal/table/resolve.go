package table

import (
	"strconv"
	"strings"

	"github.com/prabalesh/tasktop/internal/models"
)

// BodyRange returns the half-open range of body line indexes in text.
func BodyRange(schema models.Schema, text string) (first, end int) {
	return schema.HeaderLines, len(SplitLines(text)) - schema.FooterLines
}

// ResolvePID returns the process id on line (zero-based) of a rendered
// table. It has no side effects.
func ResolvePID(schema models.Schema, text string, line int) (int, error) {
	lines := SplitLines(text)
	first, end := schema.HeaderLines, len(lines)-schema.FooterLines
	if line < first || line >= end {
		return 0, &OutOfRangeError{Line: line, First: first, End: end}
	}

	field := strings.TrimSpace(schema.Column(models.SortByPID).Slice(lines[line]))
	pid, err := strconv.Atoi(field)
	if err != nil || pid <= 0 {
		return 0, &InvalidIdentifierError{Line: line, Field: field}
	}
	return pid, nil
}
