package collector

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Default commands for Windows hosts.
var (
	DefaultCaptureArgs   = []string{"cmd", "/C", "tasklist", "/V"}
	DefaultTerminateArgs = []string{"cmd", "/C", "taskkill", "/F", "/PID", "{pid}"}
)

// PIDPlaceholder is replaced by the process id in terminate arguments.
const PIDPlaceholder = "{pid}"

// CommandCapturer runs an external listing command such as `tasklist /V`.
type CommandCapturer struct {
	Args    []string
	Timeout time.Duration // zero means no limit
	Logger  *slog.Logger
}

// Capture fails with a *CaptureError if the command cannot start, exits
// non-zero or writes to stderr.
func (c *CommandCapturer) Capture(ctx context.Context) (string, error) {
	if len(c.Args) == 0 {
		return "", &CaptureError{Source: "command", ExitCode: -1, Err: errors.New("no command configured")}
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, code, err := run(ctx, c.Args)
	source := strings.Join(c.Args, " ")
	if err != nil || code != 0 || stderr != "" {
		return "", &CaptureError{Source: source, ExitCode: code, Stderr: stderr, Err: err}
	}

	if c.Logger != nil {
		c.Logger.Debug("captured process listing", "command", source, "bytes", len(stdout), "elapsed", time.Since(start))
	}
	return withFooter(strings.ReplaceAll(stdout, "\r\n", "\n")), nil
}

// withFooter makes the listing end in a blank line. tasklist has no footer
// of its own, so the blank line after the last row serves as one.
func withFooter(out string) string {
	if out == "" {
		return out
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if !strings.HasSuffix(out, "\n\n") {
		out += "\n"
	}
	return out
}

// CommandTerminator kills a process by running an external command such as
// `taskkill /F /PID {pid}`.
type CommandTerminator struct {
	Args   []string
	Logger *slog.Logger
}

func (t *CommandTerminator) Terminate(ctx context.Context, pid int) error {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = strings.ReplaceAll(a, PIDPlaceholder, strconv.Itoa(pid))
	}
	if len(args) == 0 {
		return &TerminationError{PID: pid, Err: errors.New("no command configured")}
	}

	_, stderr, code, err := run(ctx, args)
	if t.Logger != nil {
		t.Logger.Info("terminate command exited", "pid", pid, "code", code, "stderr", stderr)
	}
	if err != nil || code != 0 {
		return &TerminationError{PID: pid, ExitCode: code, Err: err}
	}
	return nil
}

// run executes args and returns its output and exit code. err is non-nil
// only when the command could not run to completion; a non-zero exit is
// reported through code alone.
func run(ctx context.Context, args []string) (stdout, stderr string, code int, err error) {
	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.WaitDelay = time.Second

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = strings.TrimSpace(errBuf.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout, stderr, 0, nil
	case ctx.Err() != nil:
		return stdout, stderr, -1, ctx.Err()
	case errors.As(err, &exitErr) && exitErr.ExitCode() > 0:
		return stdout, stderr, exitErr.ExitCode(), nil
	default:
		return stdout, stderr, -1, err
	}
}
