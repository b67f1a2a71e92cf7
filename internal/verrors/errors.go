// Package verrors carries source-location context alongside the three
// error categories the verifier distinguishes: a bad input file, a
// malformed upstream AST (an invariant violation), and a solver that
// refused to cooperate.
package verrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies why an Error was raised.
type Kind string

const (
	// Input marks a failure to read or parse the source file.
	Input Kind = "InputError"
	// Invariant marks a malformed upstream AST: an unbound name, an
	// unsupported term variant, an out-of-range arena index. These halt
	// verification; they are not outcomes.
	Invariant Kind = "InvariantViolation"
	// Solver marks a child solver process that failed to spawn or exited
	// abnormally.
	Solver Kind = "SolverError"
)

// Location pinpoints a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// Error is the verifier's error type. It is either returned normally (at
// the input and solver boundary) or raised via panic and recovered at the
// CLI boundary (for invariant violations raised deep in the parser or VC
// generator, matching the teacher's panic-as-programmer-error idiom).
type Error struct {
	Kind     Kind
	Message  string
	Location Location
	Source   string // source line the error occurred on, if known
	cause    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("\n  at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column))
		if e.Source != "" {
			sb.WriteString(fmt.Sprintf("\n\n  %d | %s\n  ", e.Location.Line, e.Source))
			if e.Location.Column > 0 {
				sb.WriteString(strings.Repeat(" ", len(fmt.Sprintf("%d | ", e.Location.Line))+e.Location.Column-1))
			}
			sb.WriteString("^")
		}
	}
	if e.cause != nil {
		sb.WriteString(fmt.Sprintf("\ncaused by: %v", e.cause))
	}
	return sb.String()
}

// Unwrap exposes the underlying cause, if any, so errors.Is/As keep working
// through this type.
func (e *Error) Unwrap() error { return e.cause }

// NewInput reports a failure to read or parse a source file.
func NewInput(message, file string, line, column int) *Error {
	return &Error{Kind: Input, Message: message, Location: Location{File: file, Line: line, Column: column}}
}

// NewInvariant reports a malformed upstream AST.
func NewInvariant(message string) *Error {
	return &Error{Kind: Invariant, Message: message}
}

// NewInvariantAt reports a malformed upstream AST at a known source
// location.
func NewInvariantAt(message, file string, line, column int) *Error {
	return &Error{Kind: Invariant, Message: message, Location: Location{File: file, Line: line, Column: column}}
}

// NewSolver wraps a subprocess failure (spawn failure or abnormal exit)
// with the low-level cause chain preserved.
func NewSolver(message string, cause error) *Error {
	return &Error{Kind: Solver, Message: message, cause: errors.WithStack(cause)}
}

// WithSource attaches the offending source line for caret-annotated
// rendering.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// Unsupported is a convenience constructor for the translator's "this AST
// variant isn't handled yet" category of invariant violation (open
// question (c) in the design notes: arrays and tuples).
func Unsupported(what string) *Error {
	return NewInvariant(fmt.Sprintf("unsupported construct: %s", what))
}
