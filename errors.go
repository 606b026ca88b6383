package budget

import (
	"errors"
	"strings"
)

// Error kinds returned by the engine. Callers match them with errors.Is.
//
// Structural errors abort an operation immediately and leave the book
// unchanged. Validation warnings are collected exhaustively and reported
// together through ValidationError.
var (
	// ErrInvalidArgument reports an invalid or missing input, such as a nil
	// budget or an out-of-order reconciliation date.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicate reports an attempt to register something that already
	// exists, such as an envelope or a reconciliation date.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound reports an unknown transaction, entry or envelope id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState reports a mutation that the current state forbids,
	// such as editing a locked line or unlocking a non-head line.
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError aggregates non-fatal business-rule messages raised while
// preparing a reconciliation. All checks run to completion before the error
// is returned, so the caller sees the complete picture in one pass and can
// decide to proceed with ignoreWarnings.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "reconciliation warnings: " + strings.Join(e.Messages, "; ")
}
