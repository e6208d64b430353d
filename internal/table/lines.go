package table

import (
	"strings"

	"github.com/prabalesh/tasktop/internal/models"
)

// SplitLines normalises CRLF to LF and splits text into lines. A trailing
// newline terminates the last line rather than starting an empty one.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Regions splits lines into header, body and footer. The returned slices
// share the backing array of lines.
func Regions(lines []string, schema models.Schema) (header, body, footer []string, err error) {
	want := schema.HeaderLines + schema.FooterLines
	if len(lines) < want {
		return nil, nil, nil, &MalformedSnapshotError{Lines: len(lines), Want: want}
	}
	end := len(lines) - schema.FooterLines
	return lines[:schema.HeaderLines], lines[schema.HeaderLines:end], lines[end:], nil
}
