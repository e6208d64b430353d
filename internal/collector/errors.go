package collector

import "fmt"

// CaptureError reports a failed snapshot acquisition.
type CaptureError struct {
	Source   string
	ExitCode int // -1 when the command did not exit normally
	Stderr   string
	Err      error
}

func (e *CaptureError) Error() string {
	msg := "capture " + e.Source
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(": exit status %d", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CaptureError) Unwrap() error { return e.Err }

// TerminationError reports a failed kill.
type TerminationError struct {
	PID      int
	ExitCode int
	Err      error
}

func (e *TerminationError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("terminate %d: exit status %d", e.PID, e.ExitCode)
	}
	return fmt.Sprintf("terminate %d: %v", e.PID, e.Err)
}

func (e *TerminationError) Unwrap() error { return e.Err }
