package smt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o755))
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "usr", "bin", "z3")
	second := filepath.Join(dir, "usr", "local", "bin", "z3")
	paths := []string{first, second}

	_, err := locate(Z3, paths)
	assert.ErrorIs(t, err, ErrBinaryNotFound)

	touch(t, second)
	path, err := locate(Z3, paths)
	require.NoError(t, err)
	assert.Equal(t, second, path)

	touch(t, first)
	path, err = locate(Z3, paths)
	require.NoError(t, err)
	assert.Equal(t, first, path)
}

func TestLocateSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "boolector")
	second := filepath.Join(dir, "b", "boolector")
	require.NoError(t, os.MkdirAll(first, 0o755))
	_, err := boolectorBackend{paths: []string{first, second}}.Locate()
	assert.ErrorIs(t, err, ErrBinaryNotFound)
	touch(t, second)
	path, err := boolectorBackend{paths: []string{first, second}}.Locate()
	require.NoError(t, err)
	assert.Equal(t, second, path)
}

func TestBackendFor(t *testing.T) {
	b, err := BackendFor(Z3)
	require.NoError(t, err)
	assert.Equal(t, Z3, b.Type())
	assert.Equal(t, []string{"/usr/bin/z3", "/usr/local/bin/z3"}, b.(z3Backend).paths)

	b, err = BackendFor(Boolector)
	require.NoError(t, err)
	assert.Equal(t, Boolector, b.Type())
	assert.Equal(t, []string{"/usr/bin/boolector", "/usr/local/bin/boolector"}, b.(boolectorBackend).paths)

	_, err = BackendFor(SolverType(42))
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.False(t, HasLocalSolverFor(SolverType(42)))
}

func TestArgs(t *testing.T) {
	config := DefaultQueryConfig().WithTimeout(30)
	assert.Equal(t,
		[]string{"/usr/bin/z3", "-in", "-t:30"},
		z3Backend{}.Args("/usr/bin/z3", config))
	assert.Equal(t,
		[]string{"/usr/bin/z3", "-in", "-t:30"},
		z3Backend{}.Args("/usr/bin/z3", config.WithModel(true)))
	assert.Equal(t,
		[]string{"/opt/boolector", "--time=30", "--output-format=smt2", "--model-gen=0"},
		boolectorBackend{}.Args("/opt/boolector", config))
	assert.Equal(t,
		[]string{"/opt/boolector", "--time=5", "--output-format=smt2", "--model-gen=1"},
		boolectorBackend{}.Args("/opt/boolector", config.WithTimeout(5).WithModel(true)))
}
