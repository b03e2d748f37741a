package siga

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameNotFound is returned by a Driver when the named frame does not
	// (yet) exist in the current window.
	ErrFrameNotFound = errors.New("frame not found")
	// ErrTimeout is wrapped by a NavigationError when a bounded wait expires.
	ErrTimeout = errors.New("timed out")
)

// NavigationError means a window or frame transition did not complete, the
// driver has been reset on a best-effort basis but the row was not read.
type NavigationError struct {
	Row  int
	Step string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed at row %d (%s): %v", e.Row, e.Step, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ExtractionError means an element the parser depends on is missing from a
// page.
type ExtractionError struct {
	Element string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Element, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s not found", e.Element)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// MalformedRowError means a results row cannot be placed in the
// subject -> section hierarchy.
type MalformedRowError struct {
	Row    int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d: %s", e.Row, e.Reason)
}

// RowError attaches the row and the phase of the walk to a failure so a run
// can be resumed by hand.
type RowError struct {
	Row   int
	Phase string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Row, e.Phase, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
