package collector

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/prabalesh/tasktop/internal/models"
)

// Field widths of `tasklist /V`. Fields are separated by one space, which
// puts Mem Usage at [64,76), CPU Time at [144,156) and Window Title at 157.
var tasklistWidths = [...]int{25, 8, 16, 11, 12, 15, 50, 12, 72}

var tasklistHeaders = [...]string{
	"Image Name", "PID", "Session Name", "Session#", "Mem Usage",
	"Status", "User Name", "CPU Time", "Window Title",
}

// WriteTasklist writes list in the fixed-width layout of `tasklist /V`: a
// blank line, column names, underline, one row per process and a summary
// footer.
func WriteTasklist(w io.Writer, list models.ProcessList) error {
	var b strings.Builder

	b.WriteString("\n")
	for i, h := range tasklistHeaders {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == len(tasklistHeaders)-1 {
			b.WriteString(h)
		} else if i == 1 || i == 3 || i == 4 || i == 7 {
			fmt.Fprintf(&b, "%*s", tasklistWidths[i], h)
		} else {
			fmt.Fprintf(&b, "%-*s", tasklistWidths[i], h)
		}
	}
	b.WriteByte('\n')
	for i, width := range tasklistWidths {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Repeat("=", width))
	}
	b.WriteByte('\n')

	for _, p := range list.Processes {
		b.WriteString(FormatTasklistRow(p))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Total: %d | Running: %d | Sleeping: %d | Zombie: %d\n",
		list.Total, list.Running, list.Sleeping, list.Zombie)

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatTasklistRow lays out one process. Text fields are cut to their
// column width so the following columns stay aligned.
func FormatTasklistRow(p models.Process) string {
	return fmt.Sprintf("%-25s %8d %-16s %11d %12s %-15s %-50s %12s %s",
		truncate(p.Name, 25),
		p.PID,
		truncate(p.SessionName, 16),
		p.SessionNumber,
		formatMemory(p.MemRSS),
		truncate(p.Status, 15),
		truncate(p.User, 50),
		formatCPUTime(p.CPUTime),
		truncate(p.WindowTitle, 72),
	)
}

// formatMemory renders bytes as kilobytes with thousands separators,
// e.g. "12,345 K".
func formatMemory(rss uint64) string {
	return humanize.Comma(int64(rss/1024)) + " K"
}

// formatCPUTime renders d as H:MM:SS.
func formatCPUTime(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
