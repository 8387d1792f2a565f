package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netre/smtbridge/bv"
)

func TestTranslate(t *testing.T) {
	a, b := bv.Var("a", 8), bv.Var("b", 8)
	tests := []struct {
		e        bv.Expr
		expected string
	}{
		{a, "a"},
		{bv.Const(5, 4), "#b0101"},
		{bv.Const(0, 1), "#b0"},
		{bv.Not(a), "(bvnot a)"},
		{bv.Neg(a), "(bvneg a)"},
		{bv.Add(a, b), "(bvadd a b)"},
		{bv.Ashr(bv.Mul(a, b), bv.Const(1, 8)), "(bvashr (bvmul a b) #b00000001)"},
		{bv.Concat(a, bv.Var("c", 4)), "(concat a c)"},
		{bv.Ult(a, b), "(ite (bvult a b) #b1 #b0)"},
		{bv.Sge(a, b), "(ite (bvsle b a) #b1 #b0)"},
		{bv.Ne(a, b), "(bvnot (ite (= a b) #b1 #b0))"},
		{bv.Extract(a, 3, 0), "((_ extract 3 0) a)"},
		{bv.Zext(a, 16), "((_ zero_extend 8) a)"},
		{bv.Sext(a, 12), "((_ sign_extend 4) a)"},
		{bv.Zext(a, 8), "((_ zero_extend 0) a)"},
		{bv.Rol(a, bv.Const(3, 8)), "((_ rotate_left 3) a)"},
		{bv.Ror(a, bv.Const(10, 8)), "((_ rotate_right 2) a)"},
		{bv.Ite(bv.Eq(a, b), a, b), "(ite (= (ite (= a b) #b1 #b0) #b1) a b)"},
		{bv.Var("data[3]", 1), "|data[3]|"},
		{bv.Var("assert", 1), "|assert|"},
	}
	for _, test := range tests {
		got, err := Translate(test.e)
		if assert.NoError(t, err, "translating %s", test.e) {
			assert.Equal(t, test.expected, got, "translating %s", test.e)
		}
	}
}

func TestTranslateFailure(t *testing.T) {
	a := bv.Var("a", 8)
	invalid := []bv.Expr{
		bv.Rol(a, bv.Var("k", 8)),
		bv.And(a, bv.Var("c", 4)),
		bv.Var("", 8),
		bv.Var("a|b", 8),
		bv.Var("true", 8),
		bv.Add(a, bv.Var("bvadd", 8)),
		bv.Extract(a, 9, 0),
		bv.Zext(a, 4),
	}
	for _, e := range invalid {
		_, err := Translate(e)
		var terr *TranslationError
		if assert.ErrorAs(t, err, &terr, "translating %s", e) {
			assert.Equal(t, e.String(), terr.Expr)
		}
	}
}

func TestSymbol(t *testing.T) {
	tests := map[string]string{
		"a":         "a",
		"x_1":       "x_1",
		"n.q?":      "n.q?",
		"1a":        "|1a|",
		"data[3]":   "|data[3]|",
		"a b":       "|a b|",
		"let":       "|let|",
		"(weird)":   "|(weird)|",
		"check-sat": "|check-sat|",
	}
	for name, expected := range tests {
		got, err := Symbol(name)
		require.NoError(t, err, "symbol for %q", name)
		assert.Equal(t, expected, got, "symbol for %q", name)
		assert.Equal(t, name, unquote(got))
	}
	for _, name := range []string{"", "a|b", `a\b`, "true", "false", "not", "ite", "bvadd", "distinct", "=", "concat"} {
		_, err := Symbol(name)
		assert.Error(t, err, "symbol for %q", name)
	}
}
