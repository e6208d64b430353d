package models

import (
	"fmt"
	"strings"
)

// SortKey selects the column Body rows are ordered by.
type SortKey int

const (
	SortByName SortKey = iota
	SortByPID
	SortByMemoryUsage
	SortByCPUTime
	SortByWindowTitle

	numSortKeys
)

var sortKeyNames = [numSortKeys]string{"name", "pid", "mem", "cpu", "window"}

// SortKeys lists every addressable key in column order.
func SortKeys() []SortKey {
	return []SortKey{SortByName, SortByPID, SortByMemoryUsage, SortByCPUTime, SortByWindowTitle}
}

func (k SortKey) Valid() bool { return k >= 0 && k < numSortKeys }

func (k SortKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

// Magnitude reports whether the key's natural order is largest-first.
func (k SortKey) Magnitude() bool {
	return k == SortByMemoryUsage || k == SortByCPUTime
}

// ParseSortKey accepts the short names used on the command line and in
// config files.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "image", "image-name", "i":
		return SortByName, nil
	case "pid", "p":
		return SortByPID, nil
	case "mem", "memory", "mem-usage", "m":
		return SortByMemoryUsage, nil
	case "cpu", "cpu-time", "c":
		return SortByCPUTime, nil
	case "window", "title", "window-title", "w":
		return SortByWindowTitle, nil
	}
	return 0, fmt.Errorf("unknown sort key %q", s)
}

// UnmarshalText lets config files name the key as a string.
func (k *SortKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSortKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k SortKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SortState is the active key and whether its natural order is reversed.
type SortState struct {
	Key      SortKey
	Inverted bool
}

// Select returns the state after the user picks key: the same key toggles
// Inverted, a new key starts un-inverted.
func (s SortState) Select(key SortKey) SortState {
	if key == s.Key {
		return SortState{Key: key, Inverted: !s.Inverted}
	}
	return SortState{Key: key}
}

// Descending reports the effective presentation order.
func (s SortState) Descending() bool {
	return s.Key.Magnitude() != s.Inverted
}

func (s SortState) String() string {
	dir := "asc"
	if s.Descending() {
		dir = "desc"
	}
	return s.Key.String() + " " + dir
}
