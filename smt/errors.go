package smt

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrBinaryNotFound means none of the candidate paths of a solver binary exist.
	ErrBinaryNotFound = errors.New("solver binary not found")
	// ErrKilledBeforeResult means the solver process was terminated before it could give a verdict.
	ErrKilledBeforeResult = errors.New("solver was killed before producing a result")
	// ErrUnsupportedOperation is returned by remote queries.
	ErrUnsupportedOperation = errors.New("operation not supported")
	// ErrCancelled means the context of the query was done before the solver terminated.
	ErrCancelled = errors.New("query cancelled")
	// ErrUnrecognizedResult is matched by every *UnrecognizedResultError.
	ErrUnrecognizedResult = errors.New("unrecognized solver result")
)

// A TranslationError is returned when an expression cannot be written in SMT-LIB v2.
type TranslationError struct {
	Expr   string // Textual form of the offending expression
	Reason string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("cannot translate %s to SMT-LIB v2: %s", e.Expr, e.Reason)
}

// A ProcessError is returned when a solver process could not be started or communicated with.
type ProcessError struct {
	Argv   []string
	Stderr string // What the process wrote on stderr, if anything
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("could not run %q: %v", strings.Join(e.Argv, " "), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += " (stderr: " + stderr + ")"
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// A ModelParseError is returned when a solver declared a problem satisfiable
// but the model it provided could not be understood.
type ModelParseError struct {
	Solver SolverType
	Offset int // Byte offset of the problem in the model text
	Reason string
}

func (e *ModelParseError) Error() string {
	return fmt.Sprintf("invalid %s model at offset %d: %s", e.Solver, e.Offset, e.Reason)
}

// An UnrecognizedResultError is returned when the first line of a solver output is not a verdict.
type UnrecognizedResultError struct {
	Token string // The raw first line of the output
}

func (e *UnrecognizedResultError) Error() string {
	return fmt.Sprintf("%v %q", ErrUnrecognizedResult, e.Token)
}

func (e *UnrecognizedResultError) Is(target error) bool {
	return target == ErrUnrecognizedResult
}
