package collector

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// Capturer produces one raw process listing.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// Terminator ends the process with the given id.
type Terminator interface {
	Terminate(ctx context.Context, pid int) error
}

// CaptureFunc adapts a function to Capturer.
type CaptureFunc func(ctx context.Context) (string, error)

func (f CaptureFunc) Capture(ctx context.Context) (string, error) { return f(ctx) }

// TerminateFunc adapts a function to Terminator.
type TerminateFunc func(ctx context.Context, pid int) error

func (f TerminateFunc) Terminate(ctx context.Context, pid int) error { return f(ctx, pid) }

// Capture sources.
const (
	SourceAuto    = "auto"
	SourceCommand = "command"
	SourceProcess = "process"
)

// Options selects and configures the capture and termination collaborators.
type Options struct {
	Source         string
	CaptureArgs    []string
	TerminateArgs  []string
	CaptureTimeout time.Duration
	Logger         *slog.Logger
}

// ResolveSource maps SourceAuto to the platform default.
func ResolveSource(source string) string {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" || source == SourceAuto {
		if runtime.GOOS == "windows" {
			return SourceCommand
		}
		return SourceProcess
	}
	return source
}

// New builds the collaborators for opts.Source.
func New(opts Options) (Capturer, Terminator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch src := ResolveSource(opts.Source); src {
	case SourceCommand:
		capArgs := opts.CaptureArgs
		if len(capArgs) == 0 {
			capArgs = DefaultCaptureArgs
		}
		termArgs := opts.TerminateArgs
		if len(termArgs) == 0 {
			termArgs = DefaultTerminateArgs
		}
		return &CommandCapturer{Args: capArgs, Timeout: opts.CaptureTimeout, Logger: logger},
			&CommandTerminator{Args: termArgs, Logger: logger}, nil
	case SourceProcess:
		return &ProcessCapturer{Collector: NewProcessCollector(), Timeout: opts.CaptureTimeout},
			&ProcessTerminator{Logger: logger}, nil
	default:
		return nil, nil, fmt.Errorf("unknown capture source %q", opts.Source)
	}
}
