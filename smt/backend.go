package smt

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Directories where solver binaries are looked for, in order.
var binDirs = []string{"/usr/bin/", "/usr/local/bin/"}

// A Backend knows how to find and call one solver program.
type Backend interface {
	// Type is the kind of solver handled by the backend.
	Type() SolverType
	// Locate returns the path of the solver binary.
	// It returns an error wrapping ErrBinaryNotFound if no candidate path exists.
	Locate() (string, error)
	// Args returns the command line running binary on a program read from stdin.
	Args(binary string, config QueryConfig) []string
}

type z3Backend struct {
	paths []string
}

func (b z3Backend) Type() SolverType { return Z3 }

func (b z3Backend) Locate() (string, error) { return locate(Z3, b.paths) }

func (b z3Backend) Args(binary string, config QueryConfig) []string {
	return []string{binary, "-in", fmt.Sprintf("-t:%d", config.TimeoutInSeconds)}
}

type boolectorBackend struct {
	paths []string
}

func (b boolectorBackend) Type() SolverType { return Boolector }

func (b boolectorBackend) Locate() (string, error) { return locate(Boolector, b.paths) }

func (b boolectorBackend) Args(binary string, config QueryConfig) []string {
	modelGen := "0"
	if config.GenerateModel {
		modelGen = "1"
	}
	return []string{
		binary,
		fmt.Sprintf("--time=%d", config.TimeoutInSeconds),
		"--output-format=smt2",
		"--model-gen=" + modelGen,
	}
}

// candidates returns the paths where the binary of the given solver can be found, in order.
func candidates(solver SolverType) []string {
	return lo.Map(binDirs, func(dir string, _ int) string { return dir + solver.binary() })
}

// locate returns the first existing path in paths.
func locate(solver SolverType, paths []string) (string, error) {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.Wrapf(ErrBinaryNotFound, "no %s binary in %v", solver, paths)
}

// BackendFor returns the backend handling the given kind of solver.
func BackendFor(solver SolverType) (Backend, error) {
	switch solver {
	case Z3:
		return z3Backend{paths: candidates(Z3)}, nil
	case Boolector:
		return boolectorBackend{paths: candidates(Boolector)}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedOperation, "no backend for solver %d", solver)
	}
}

// HasLocalSolverFor is true iff the binary of the given solver can be found on this machine.
// Every call looks at the file system again.
func HasLocalSolverFor(solver SolverType) bool {
	b, err := BackendFor(solver)
	if err != nil {
		return false
	}
	_, err = b.Locate()
	return err == nil
}
