package models

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Region sizes of a tasklist /V listing.
const (
	HeaderLines = 3
	FooterLines = 1
)

// ColumnSpec addresses one fixed-width field as the half-open character
// range [Start, End) of a line.
type ColumnSpec struct {
	Name  string
	Start int
	End   int
}

// Slice returns the field text of line. Ranges past the end of the line are
// clamped, so short lines yield a shorter (possibly empty) field.
func (c ColumnSpec) Slice(line string) string {
	if !isASCII(line) {
		runes := []rune(line)
		start, end := clamp(c.Start, c.End, len(runes))
		return string(runes[start:end])
	}
	start, end := clamp(c.Start, c.End, len(line))
	return line[start:end]
}

func (c ColumnSpec) String() string {
	return fmt.Sprintf("%s[%d,%d)", c.Name, c.Start, c.End)
}

// Schema is the column layout and region split of a raw listing.
type Schema struct {
	Columns     [numSortKeys]ColumnSpec
	HeaderLines int
	FooterLines int
}

// DefaultSchema matches the output of `tasklist /V`.
func DefaultSchema() Schema {
	return Schema{
		Columns: [numSortKeys]ColumnSpec{
			SortByName:        {Name: "Image Name", Start: 0, End: 25},
			SortByPID:         {Name: "PID", Start: 27, End: 34},
			SortByMemoryUsage: {Name: "Mem Usage", Start: 64, End: 76},
			SortByCPUTime:     {Name: "CPU Time", Start: 144, End: 156},
			SortByWindowTitle: {Name: "Window Title", Start: 157, End: 230},
		},
		HeaderLines: HeaderLines,
		FooterLines: FooterLines,
	}
}

// Column returns the range addressed by key.
func (s Schema) Column(key SortKey) ColumnSpec {
	if !key.Valid() {
		return ColumnSpec{}
	}
	return s.Columns[key]
}

// Validate reports ranges that are empty, negative or overlapping, and
// negative region sizes.
func (s Schema) Validate() error {
	if s.HeaderLines < 0 || s.FooterLines < 0 {
		return fmt.Errorf("negative region size: header=%d footer=%d", s.HeaderLines, s.FooterLines)
	}

	cols := make([]ColumnSpec, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Start < 0 || c.End <= c.Start {
			return fmt.Errorf("invalid column %s", c)
		}
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Start < cols[j].Start })
	for i := 1; i < len(cols); i++ {
		if cols[i].Start < cols[i-1].End {
			return fmt.Errorf("column %s overlaps %s", cols[i], cols[i-1])
		}
	}
	return nil
}

// MustSchema panics if s is not a valid layout.
func MustSchema(s Schema) Schema {
	if err := s.Validate(); err != nil {
		panic("models: " + err.Error())
	}
	return s
}

func clamp(start, end, n int) (int, int) {
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
