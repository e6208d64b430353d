package table

import "fmt"

// OutOfRangeError is returned when a selected line is outside the body.
type OutOfRangeError struct {
	Line  int
	First int // first body line
	End   int // one past the last body line
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("line %d is outside the process rows [%d,%d)", e.Line, e.First, e.End)
}

// InvalidIdentifierError is returned when the PID field of a selected line
// is not a positive integer.
type InvalidIdentifierError struct {
	Line  int
	Field string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("line %d: invalid process id %q", e.Line, e.Field)
}

// MalformedSnapshotError is returned when a listing has fewer lines than its
// header and footer need.
type MalformedSnapshotError struct {
	Lines int
	Want  int
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("snapshot has %d lines, need at least %d", e.Lines, e.Want)
}
