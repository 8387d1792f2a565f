package smt

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/netre/smtbridge/bv"
)

// SolverType identifies an SMT solver program.
type SolverType byte

const (
	// Z3 is the solver from Microsoft Research.
	Z3 = SolverType(iota)
	// Boolector is the bit-vector and array solver from JKU Linz.
	Boolector
)

func (t SolverType) String() string {
	switch t {
	case Z3:
		return "Z3"
	case Boolector:
		return "Boolector"
	default:
		return fmt.Sprintf("SolverType(%d)", t)
	}
}

// binary is the name of the executable of the solver.
func (t SolverType) binary() string {
	return strings.ToLower(t.String())
}

// ParseSolverType returns the solver named name, which is not case-sensitive.
func ParseSolverType(name string) (SolverType, error) {
	switch strings.ToLower(name) {
	case "z3":
		return Z3, nil
	case "boolector", "btor":
		return Boolector, nil
	default:
		return 0, fmt.Errorf("unknown solver %q", name)
	}
}

// QueryConfig holds the parameters of a query.
type QueryConfig struct {
	TimeoutInSeconds uint       // Time limit given to the solver
	Solver           SolverType // Which solver to call
	GenerateModel    bool       // Should a model be computed when the constraints are satisfiable?
	Local            bool       // Run the solver on this machine. Remote solving is not supported
}

// DefaultQueryConfig returns a config calling a local Z3 with a 10 second timeout, without model generation.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{TimeoutInSeconds: 10, Solver: Z3, Local: true}
}

// WithTimeout returns a copy of c with the given timeout.
func (c QueryConfig) WithTimeout(seconds uint) QueryConfig {
	c.TimeoutInSeconds = seconds
	return c
}

// WithSolver returns a copy of c calling the given solver.
func (c QueryConfig) WithSolver(solver SolverType) QueryConfig {
	c.Solver = solver
	return c
}

// WithModel returns a copy of c asking, or not, for a model.
func (c QueryConfig) WithModel(generate bool) QueryConfig {
	c.GenerateModel = generate
	return c
}

// WithLocal returns a copy of c running the solver locally, or not.
func (c QueryConfig) WithLocal(local bool) QueryConfig {
	c.Local = local
	return c
}

// A Constraint states that two expressions have the same value.
type Constraint struct {
	LHS bv.Expr
	RHS bv.Expr
}

// NewConstraint returns the constraint lhs = rhs.
func NewConstraint(lhs, rhs bv.Expr) Constraint {
	return Constraint{LHS: lhs, RHS: rhs}
}

// Assert returns the constraint stating that the 1-bit expression e is true.
func Assert(e bv.Expr) Constraint {
	return Constraint{LHS: e, RHS: bv.Const(1, 1)}
}

func (c Constraint) String() string {
	if c.LHS == nil || c.RHS == nil {
		return "<incomplete constraint>"
	}
	return bv.Equation(c).String()
}

// terms returns the translation of both sides of c.
func (c Constraint) terms() (lhs, rhs string, err error) {
	if c.LHS == nil || c.RHS == nil {
		return "", "", &TranslationError{Expr: c.String(), Reason: "missing side"}
	}
	if lw, rw := c.LHS.Width(), c.RHS.Width(); lw != rw {
		return "", "", &TranslationError{Expr: c.String(), Reason: fmt.Sprintf("sides have widths %d and %d", lw, rw)}
	}
	if lhs, err = Translate(c.LHS); err != nil {
		return "", "", err
	}
	if rhs, err = Translate(c.RHS); err != nil {
		return "", "", err
	}
	return lhs, rhs, nil
}

// A Solver accumulates constraints and asks SMT solvers whether they can be satisfied.
// Queries do not modify the solver, so they can be run concurrently as long as no constraint is added.
type Solver struct {
	Verbose bool   // Indicates whether the solver should display information during queries or not. False by default
	Runner  Runner // Runs the solver processes. An ExecRunner is used if nil

	constraints []Constraint
	backendFor  func(SolverType) (Backend, error)
}

// New returns a solver with the given constraints.
func New(constraints ...Constraint) *Solver {
	return &Solver{constraints: append([]Constraint(nil), constraints...)}
}

// WithConstraint adds c to the constraints of s, and returns s.
func (s *Solver) WithConstraint(c Constraint) *Solver {
	s.constraints = append(s.constraints, c)
	return s
}

// WithConstraints adds all of cs to the constraints of s, in order, and returns s.
func (s *Solver) WithConstraints(cs []Constraint) *Solver {
	s.constraints = append(s.constraints, cs...)
	return s
}

// Constraints returns the constraints of s, in the order they were added.
// The returned slice must not be modified.
func (s *Solver) Constraints() []Constraint {
	return s.constraints[:len(s.constraints):len(s.constraints)]
}

// Program returns the SMT-LIB v2 program that a query with the given config would send to the solver.
func (s *Solver) Program(config QueryConfig) (string, error) {
	return BuildProgram(s.constraints, config)
}

// Query asks the solver described by config whether the constraints of s can all be satisfied.
func (s *Solver) Query(ctx context.Context, config QueryConfig) (Result, error) {
	if config.Local {
		return s.QueryLocal(ctx, config)
	}
	return s.QueryRemote(ctx, config)
}

// QueryLocal runs the solver described by config on this machine.
// Errors are wrapped with the step that failed.
func (s *Solver) QueryLocal(ctx context.Context, config QueryConfig) (Result, error) {
	program, err := BuildProgram(s.constraints, config)
	if err != nil {
		return Result{}, errors.Wrap(err, "cannot translate constraints")
	}
	s.logf("program:\n%s", program)
	backendFor := s.backendFor
	if backendFor == nil {
		backendFor = BackendFor
	}
	backend, err := backendFor(config.Solver)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot run %s", config.Solver)
	}
	binary, err := backend.Locate()
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot run %s", config.Solver)
	}
	argv := backend.Args(binary, config)
	s.logf("running %s", strings.Join(argv, " "))
	killed, stdout, err := s.runner().Run(ctx, argv, program)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot run %s", config.Solver)
	}
	s.logf("output:\n%s", stdout)
	res, err := Interpret(killed, stdout, config)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot interpret output of %s", config.Solver)
	}
	s.logf("result: %s", res.Status)
	return res, nil
}

// QueryRemote always fails with ErrUnsupportedOperation.
func (s *Solver) QueryRemote(ctx context.Context, config QueryConfig) (Result, error) {
	return Result{}, errors.Wrapf(ErrUnsupportedOperation, "remote query to %s", config.Solver)
}

func (s *Solver) runner() Runner {
	if s.Runner != nil {
		return s.Runner
	}
	r := ExecRunner{}
	if s.Verbose {
		r.Stderr = func(argv []string, stderr string) { s.logf("%s stderr:\n%s", argv[0], stderr) }
	}
	return r
}

// logf prints a message, one "c " comment line per line, if s is verbose.
func (s *Solver) logf(format string, args ...interface{}) {
	if !s.Verbose {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(os.Stderr, "c %s\n", line)
	}
}
