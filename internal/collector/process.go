package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/prabalesh/tasktop/internal/models"
)

// ProcessCollector enumerates processes through gopsutil.
type ProcessCollector struct {
	list func(ctx context.Context) ([]*process.Process, error)
}

func NewProcessCollector() *ProcessCollector {
	return &ProcessCollector{list: process.ProcessesWithContext}
}

// GetProcessList skips processes that exit while being read.
func (s *ProcessCollector) GetProcessList(ctx context.Context) (models.ProcessList, error) {
	procs, err := s.list(ctx)
	if err != nil {
		return models.ProcessList{}, fmt.Errorf("list processes: %w", err)
	}

	var processes []models.Process
	var running, sleeping, zombie int

	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return models.ProcessList{}, err
		}

		proc, ok := s.getProcessInfo(ctx, p)
		if !ok {
			continue
		}
		processes = append(processes, proc)

		switch proc.Status {
		case "Running":
			running++
		case "Sleep", "Idle", "Wait":
			sleeping++
		case "Zombie":
			zombie++
		}
	}

	return models.ProcessList{
		Processes: processes,
		Total:     len(processes),
		Running:   running,
		Sleeping:  sleeping,
		Zombie:    zombie,
	}, nil
}

func (s *ProcessCollector) getProcessInfo(ctx context.Context, p *process.Process) (models.Process, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil || name == "" {
		return models.Process{}, false
	}

	proc := models.Process{
		PID:         int(p.Pid),
		Name:        name,
		SessionName: "Services",
		Status:      "Unknown",
		User:        "N/A",
		WindowTitle: "N/A",
	}
	if tty, err := p.TerminalWithContext(ctx); err == nil && tty != "" {
		proc.SessionName = strings.TrimPrefix(tty, "/dev/")
	}
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 && st[0] != "" {
		proc.Status = strings.ToUpper(st[0][:1]) + st[0][1:]
	}
	if user, err := p.UsernameWithContext(ctx); err == nil && user != "" {
		proc.User = user
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		proc.MemRSS = mem.RSS
	}
	if times, err := p.TimesWithContext(ctx); err == nil && times != nil {
		proc.CPUTime = time.Duration((times.User + times.System) * float64(time.Second))
	}
	return proc, true
}

// ProcessCapturer captures a listing from gopsutil and lays it out like
// `tasklist /V`, so the default schema applies on every platform.
type ProcessCapturer struct {
	Collector *ProcessCollector
	Timeout   time.Duration
}

func (c *ProcessCapturer) Capture(ctx context.Context) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	list, err := c.Collector.GetProcessList(ctx)
	if err != nil {
		return "", &CaptureError{Source: "gopsutil", ExitCode: -1, Err: err}
	}

	var b strings.Builder
	if err := WriteTasklist(&b, list); err != nil {
		return "", &CaptureError{Source: "gopsutil", ExitCode: -1, Err: err}
	}
	return b.String(), nil
}

// ProcessTerminator kills processes through gopsutil.
type ProcessTerminator struct {
	Logger *slog.Logger
}

func (t *ProcessTerminator) Terminate(ctx context.Context, pid int) error {
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return &TerminationError{PID: pid, Err: err}
	}
	if err := p.KillWithContext(ctx); err != nil {
		return &TerminationError{PID: pid, Err: err}
	}
	if t.Logger != nil {
		t.Logger.Info("killed process", "pid", pid)
	}
	return nil
}
