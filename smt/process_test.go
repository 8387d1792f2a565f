package smt

import (
	"context"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shell = "/bin/sh"

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("no POSIX shell on windows")
	}
	if _, err := os.Stat(shell); err != nil {
		t.Skipf("%s not available", shell)
	}
}

func TestExecRunner(t *testing.T) {
	requireShell(t)
	var r ExecRunner
	killed, stdout, err := r.Run(context.Background(), []string{shell, "-c", "cat"}, "(check-sat)\n")
	require.NoError(t, err)
	assert.False(t, killed)
	assert.Equal(t, "(check-sat)\n", stdout)

	killed, stdout, err = r.Run(context.Background(), []string{shell, "-c", "echo unsat; exit 3"}, "")
	require.NoError(t, err)
	assert.False(t, killed)
	assert.Equal(t, "unsat\n", stdout)
}

func TestExecRunnerKilled(t *testing.T) {
	requireShell(t)
	killed, _, err := ExecRunner{}.Run(context.Background(), []string{shell, "-c", "echo sat; kill -9 $$"}, "")
	require.NoError(t, err)
	assert.True(t, killed)
}

func TestExecRunnerStderr(t *testing.T) {
	requireShell(t)
	var got string
	r := ExecRunner{Stderr: func(argv []string, stderr string) { got = stderr }}
	_, stdout, err := r.Run(context.Background(), []string{shell, "-c", "echo oops >&2; echo unknown"}, "")
	require.NoError(t, err)
	assert.Equal(t, "unknown\n", stdout)
	assert.Equal(t, "oops\n", got)
}

func TestExecRunnerFailure(t *testing.T) {
	var perr *ProcessError
	_, _, err := ExecRunner{}.Run(context.Background(), []string{"/nonexistent/dir/z3", "-in"}, "")
	if assert.ErrorAs(t, err, &perr) {
		assert.Equal(t, []string{"/nonexistent/dir/z3", "-in"}, perr.Argv)
	}
	_, _, err = ExecRunner{}.Run(context.Background(), nil, "")
	assert.ErrorAs(t, err, &perr)
}

func TestExecRunnerCancelled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, _, err := ExecRunner{}.Run(ctx, []string{shell, "-c", "exec sleep 5"}, "")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunnerCancelledAfterExit(t *testing.T) {
	requireShell(t)
	scripts := map[string]string{
		"echo warning >&2; echo unsat":          "unsat\n",
		"echo warning >&2; echo unsat; exit 20": "unsat\n",
	}
	for script, expected := range scripts {
		ctx, cancel := context.WithCancel(context.Background())
		r := ExecRunner{Stderr: func(argv []string, stderr string) { cancel() }}
		killed, stdout, err := r.Run(ctx, []string{shell, "-c", script}, "")
		require.NoError(t, err, "running %q", script)
		assert.False(t, killed)
		assert.Equal(t, expected, stdout)
		cancel()
	}
}
