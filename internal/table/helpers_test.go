package table

import (
	"fmt"
	"strings"
)

// row lays out a tasklist /V style line for the default schema.
func row(name string, pid int, mem, cpu, title string) string {
	b := []byte(strings.Repeat(" ", 230))
	put := func(at int, s string) { copy(b[at:], s) }
	put(0, name)
	put(26, fmt.Sprintf("%8d", pid))
	put(64, fmt.Sprintf("%12s", mem))
	put(144, fmt.Sprintf("%12s", cpu))
	put(157, title)
	return strings.TrimRight(string(b), " ")
}

func listing(rows ...string) string {
	lines := []string{"", "Image Name   PID   Mem Usage", "=========== ===== ========="}
	lines = append(lines, rows...)
	lines = append(lines, "")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func names(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l[:min(len(l), 25)])
	}
	return out
}
