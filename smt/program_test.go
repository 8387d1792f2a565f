package smt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netre/smtbridge/bv"
)

func TestBuildProgram(t *testing.T) {
	c := NewConstraint(bv.Var("a", 8), bv.Var("b", 8))
	prog, err := BuildProgram([]Constraint{c}, DefaultQueryConfig())
	require.NoError(t, err)
	const expected = "(set-logic QF_ABV)\n" +
		"(declare-fun a () (_ BitVec 8))\n" +
		"(declare-fun b () (_ BitVec 8))\n" +
		"\n" +
		"(assert (= a b))\n" +
		"\n" +
		"(check-sat)"
	assert.Equal(t, expected, prog)

	prog, err = BuildProgram([]Constraint{c}, DefaultQueryConfig().WithModel(true))
	require.NoError(t, err)
	assert.Equal(t, expected+"\n(get-model)", prog)
}

func TestBuildProgramEmpty(t *testing.T) {
	prog, err := BuildProgram(nil, DefaultQueryConfig())
	require.NoError(t, err)
	assert.Equal(t, "(set-logic QF_ABV)\n\n\n(check-sat)", prog)
}

func testConstraints() []Constraint {
	x, y, z := bv.Var("x", 8), bv.Var("y", 8), bv.Var("z", 16)
	return []Constraint{
		NewConstraint(bv.Add(y, x), bv.Extract(z, 7, 0)),
		Assert(bv.Ult(bv.Var("data[3]", 8), x)),
		NewConstraint(bv.Concat(x, y), z),
		NewConstraint(bv.Zext(bv.Var("x", 4), 8), y),
		NewConstraint(bv.Add(y, x), bv.Extract(z, 7, 0)),
	}
}

func TestBuildProgramDeterministic(t *testing.T) {
	first, err := BuildProgram(testConstraints(), DefaultQueryConfig())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		prog, err := BuildProgram(testConstraints(), DefaultQueryConfig())
		require.NoError(t, err)
		assert.Equal(t, first, prog)
	}
}

func TestBuildProgramDeclarations(t *testing.T) {
	prog, err := BuildProgram(testConstraints(), DefaultQueryConfig())
	require.NoError(t, err)
	var decls []string
	for _, line := range strings.Split(prog, "\n") {
		if strings.HasPrefix(line, "(declare-fun ") {
			decls = append(decls, line)
		}
	}
	assert.Equal(t, []string{
		"(declare-fun |data[3]| () (_ BitVec 8))",
		"(declare-fun x () (_ BitVec 4))",
		"(declare-fun x () (_ BitVec 8))",
		"(declare-fun y () (_ BitVec 8))",
		"(declare-fun z () (_ BitVec 16))",
	}, decls)
	assert.Equal(t, 5, strings.Count(prog, "(assert "))
	assert.Contains(t, prog, "(assert (= (ite (bvult |data[3]| x) #b1 #b0) #b1))\n")
}

func TestBuildProgramFailure(t *testing.T) {
	a := bv.Var("a", 8)
	tests := [][]Constraint{
		{NewConstraint(a, a), NewConstraint(bv.And(a, bv.Var("c", 4)), a)},
		{NewConstraint(a, bv.Var("b", 4))},
		{NewConstraint(a, a), NewConstraint(bv.Rol(a, bv.Var("k", 8)), a)},
		{NewConstraint(a, nil)},
		{NewConstraint(bv.Var("a|b", 8), a)},
		{NewConstraint(a, a), Assert(bv.Var("false", 1))},
	}
	for _, cs := range tests {
		prog, err := BuildProgram(cs, DefaultQueryConfig())
		var terr *TranslationError
		assert.ErrorAs(t, err, &terr, "building program for %v", cs)
		assert.Empty(t, prog)
	}
}
