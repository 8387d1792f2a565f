package smt

import (
	"strings"
)

// Status is the verdict of a solver on a set of constraints.
type Status byte

const (
	// Unknown means the solver could not decide, for instance because it ran out of time.
	Unknown = Status(iota)
	// Sat means the constraints can be satisfied.
	Sat
	// Unsat means the constraints cannot be satisfied.
	Unsat
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		panic("invalid status")
	}
}

// A Result is the outcome of a query.
// Model is only non-nil when Status is Sat and a model was requested.
type Result struct {
	Status Status
	Model  Model
}

// The Boolector notice is followed by the limit that was reached, so it is matched as a prefix.
const boolectorAlarm = "[btor>main] alarm triggered: time limit"

// isTimeoutNotice is true iff verdict, lower-cased, is how a solver reports it ran out of time.
func isTimeoutNotice(verdict string) bool {
	return verdict == "timeout" || strings.HasPrefix(verdict, boolectorAlarm)
}

// Interpret classifies the output of a solver run with the given config.
// A killed process yields ErrKilledBeforeResult whatever its output.
// When the verdict is sat and config.GenerateModel is set, the rest of the output is parsed
// as a model; failing to parse it is an error, not a Sat result without a model.
func Interpret(killed bool, stdout string, config QueryConfig) (Result, error) {
	if killed {
		return Result{}, ErrKilledBeforeResult
	}
	token, remainder := stdout, ""
	if i := strings.IndexByte(stdout, '\n'); i >= 0 {
		token, remainder = stdout[:i], stdout[i+1:]
	}
	switch verdict := strings.ToLower(strings.TrimSpace(token)); verdict {
	case "sat":
		if !config.GenerateModel {
			return Result{Status: Sat}, nil
		}
		model, err := ParseModel(remainder, config.Solver)
		if err != nil {
			return Result{}, err
		}
		return Result{Status: Sat, Model: model}, nil
	case "unsat":
		return Result{Status: Unsat}, nil
	case "unknown":
		return Result{Status: Unknown}, nil
	default:
		if isTimeoutNotice(verdict) {
			return Result{Status: Unknown}, nil
		}
		return Result{}, &UnrecognizedResultError{Token: token}
	}
}
