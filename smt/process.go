package smt

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// A Runner runs a program, feeding it input and collecting its output.
type Runner interface {
	// Run runs argv with input on its standard input and returns everything it wrote on its
	// standard output, once it has closed it.
	// killed is true if the process was terminated by a signal rather than exiting on its own.
	Run(ctx context.Context, argv []string, input string) (killed bool, stdout string, err error)
}

// ExecRunner is a Runner spawning real processes.
// A non-zero exit status is not an error: solvers use it to report their verdict.
type ExecRunner struct {
	// Stderr, if not nil, is called with what the process wrote on its standard error.
	Stderr func(argv []string, stderr string)
}

// Run implements Runner.
// When ctx is done before the process terminates, the process is killed and ErrCancelled is returned.
// A process that exited on its own is reported normally, even if ctx is done by the time Run returns.
func (r ExecRunner) Run(ctx context.Context, argv []string, input string) (killed bool, stdout string, err error) {
	if len(argv) == 0 {
		return false, "", &ProcessError{Argv: argv, Err: errors.New("empty command line")}
	}
	var outBuf, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	if r.Stderr != nil && errBuf.Len() > 0 {
		r.Stderr(argv, errBuf.String())
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return false, "", cancelled(ctx, argv)
		}
		return false, "", &ProcessError{Argv: argv, Stderr: errBuf.String(), Err: err}
	}
	killed = !cmd.ProcessState.Exited()
	if killed && ctx.Err() != nil {
		return false, "", cancelled(ctx, argv)
	}
	return killed, outBuf.String(), nil
}

func cancelled(ctx context.Context, argv []string) error {
	return errors.Wrapf(ErrCancelled, "%s: %v", argv[0], ctx.Err())
}
