package table

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultLegend replaces the first header line of every rendered table.
const DefaultLegend = "k - Kill process, Toggle Sort By: i - Image Name, p - PID, m - Memory Usage, c - CPU Time, w - Window Title, r - Reload, q - Quit"

// Predicate reports whether a trimmed line should be hidden.
type Predicate func(line string) bool

// PrefixPredicate hides lines starting with any of prefixes.
func PrefixPredicate(prefixes ...string) Predicate {
	ps := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return nil
	}
	return func(line string) bool {
		for _, p := range ps {
			if strings.HasPrefix(line, p) {
				return true
			}
		}
		return false
	}
}

// PatternPredicate hides lines matching any of the regular expressions.
func PatternPredicate(patterns ...string) (Predicate, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	if len(res) == 0 {
		return nil, nil
	}
	return func(line string) bool {
		for _, re := range res {
			if re.MatchString(line) {
				return true
			}
		}
		return false
	}, nil
}

// AnyOf hides a line if any non-nil predicate does.
func AnyOf(preds ...Predicate) Predicate {
	var ps []Predicate
	for _, p := range preds {
		if p != nil {
			ps = append(ps, p)
		}
	}
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	return func(line string) bool {
		for _, p := range ps {
			if p(line) {
				return true
			}
		}
		return false
	}
}

// Filter rewrites the legend line, drops excluded rows and trims the rest.
type Filter struct {
	Legend  string
	Exclude Predicate

	// Lines at these leading and trailing positions are never excluded.
	KeepLeading  int
	KeepTrailing int
}

// DefaultFilter hides svchost.exe rows, which flood tasklist output.
func DefaultFilter() Filter {
	return Filter{
		Legend:       DefaultLegend,
		Exclude:      PrefixPredicate("svchost.exe"),
		KeepLeading:  2,
		KeepTrailing: 1,
	}
}

// Apply returns a new slice; lines is not modified.
func (f Filter) Apply(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			line = f.Legend
		}
		line = strings.TrimSpace(line)
		if f.Exclude != nil && !f.exempt(i, len(lines)) && f.Exclude(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func (f Filter) exempt(i, n int) bool {
	return i < f.KeepLeading || i >= n-f.KeepTrailing
}
