package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/samber/lo"

	"github.com/netre/smtbridge/bv"
	"github.com/netre/smtbridge/smt"
)

func main() {
	var (
		verbose    bool
		model      bool
		program    bool
		check      bool
		remote     bool
		timeout    uint
		solverName string
	)
	flag.BoolVar(&verbose, "verbose", false, "sets verbose mode on")
	flag.BoolVar(&model, "model", false, "displays a model when the constraints are satisfiable")
	flag.BoolVar(&program, "program", false, "rather than solving the problem, prints the SMT-LIB v2 program sent to the solver")
	flag.BoolVar(&check, "check", false, "rather than solving the problem, reports which solvers are installed")
	flag.BoolVar(&remote, "remote", false, "runs the solver remotely (not supported yet)")
	flag.UintVar(&timeout, "timeout", smt.DefaultQueryConfig().TimeoutInSeconds, "time limit given to the solver, in seconds")
	flag.StringVar(&solverName, "solver", "z3", "solver to use (z3|boolector)")
	flag.Parse()
	if check {
		checkSolvers()
		return
	}
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Syntax : %s [options] file.bv\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	solverType, err := smt.ParseSolverType(solverName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid option: %v\n", err)
		os.Exit(1)
	}
	config := smt.DefaultQueryConfig().
		WithSolver(solverType).
		WithTimeout(timeout).
		WithModel(model).
		WithLocal(!remote)
	path := flag.Args()[0]
	s, err := parse(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not parse problem: %v\n", err)
		os.Exit(1)
	}
	s.Verbose = verbose
	if program {
		prog, err := s.Program(config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not build program: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(prog)
		return
	}
	fmt.Printf("c solving %s with %s\n", path, solverType)
	if err := solve(s, config); err != nil {
		fmt.Fprintf(os.Stderr, "could not solve problem: %v\n", err)
		os.Exit(1)
	}
}

func checkSolvers() {
	for _, st := range []smt.SolverType{smt.Z3, smt.Boolector} {
		if smt.HasLocalSolverFor(st) {
			fmt.Printf("c %s: available\n", st)
		} else {
			fmt.Printf("c %s: not found\n", st)
		}
	}
}

func parse(path string) (*smt.Solver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	defer f.Close()
	eqs, err := bv.ParseEquations(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse equations in %q: %v", path, err)
	}
	constraints := lo.Map(eqs, func(eq bv.Equation, _ int) smt.Constraint { return smt.Constraint(eq) })
	return smt.New(constraints...), nil
}

func solve(s *smt.Solver, config smt.QueryConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := s.Query(ctx, config)
	if err != nil {
		return err
	}
	switch res.Status {
	case smt.Sat:
		fmt.Println("SATISFIABLE")
	case smt.Unsat:
		fmt.Println("UNSATISFIABLE")
	default:
		fmt.Println("UNKNOWN")
	}
	if res.Model == nil {
		return nil
	}
	for _, name := range res.Model.Names() {
		fmt.Printf("%s: %v\n", name, res.Model[name])
	}
	for _, c := range s.Constraints() {
		if ok, err := res.Model.Satisfies(c); err != nil || !ok {
			fmt.Printf("c model does not satisfy %s\n", c)
			return nil
		}
	}
	fmt.Println("c model verified")
	return nil
}
