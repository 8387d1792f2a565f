package bv

import (
	"fmt"
	"strings"
	"testing"
)

// To each expression, associate an expected string output.
// An empty string means an error is expected.
var exprToString = map[string]string{
	"a:8":                                "a:8",
	"0x1f:8":                             "0x1f:8",
	"31:8":                               "0x1f:8",
	"0b101:3":                            "0x5:3",
	`"data[3]":1`:                        `"data[3]":1`,
	"add(a:8, 1:8)":                      "add(a:8, 0x1:8)",
	"not(xor(a:4, b:4))":                 "not(xor(a:4, b:4))",
	"ugt(a:8, b:8)":                      "ult(b:8, a:8)",
	"ne(a:8, b:8)":                       "not(eq(a:8, b:8))",
	"extract(a:8, 3, 0)":                 "extract(a:8, 3, 0)",
	"zext(a:8, 16)":                      "zext(a:8, 16)",
	"concat(a:8, extract(b:8, 0, 0))":    "concat(a:8, extract(b:8, 0, 0))",
	"ite(eq(a:1, 1:1), a:1, b:1)":        "ite(eq(a:1, 0x1:1), a:1, b:1)",
	"and(a:8 /* comment */, b:8) // end": "and(a:8, b:8)",
	"and:8":                              "and:8",
	"a":                                  "",
	"a:0":                                "",
	"a:b":                                "",
	"256:8":                              "",
	"and(a:8, b:4)":                      "",
	"ne(a:8, b:4)":                       "",
	"foo(a:8)":                           "",
	"extract(a:8, 8, 0)":                 "",
	"extract(a:8, 3)":                    "",
	"zext(a:8, 4)":                       "",
	"zext(a:8, b:8)":                     "",
	"add(a:8)":                           "",
	"add(a:8, 3)":                        "",
	"add(a:8, b:8":                       "",
	"a:8 b:8":                            "",
	"":                                   "",
}

func TestParse(t *testing.T) {
	for expr, expected := range exprToString {
		e, err := Parse(strings.NewReader(expr))
		if expected == "" {
			if err == nil {
				t.Errorf("expression %q should not be parsed, got %s", expr, e)
			}
			continue
		}
		if err != nil {
			t.Errorf("Could not parse expression %q: %v", expr, err)
		} else if e.String() != expected {
			t.Errorf("For expression %q, expected %q, got %q", expr, expected, e.String())
		}
	}
}

func TestParseString(t *testing.T) {
	exprs := []Expr{
		And(Add(Var("a", 8), Const(1, 8)), Not(Var("b", 8))),
		Ite(Sle(Var("x y", 4), Const(0xf, 4)), Sext(Var("x y", 4), 8), Rol(Var("z", 8), Const(3, 8))),
		Concat(Extract(Var("bus[0]", 32), 31, 16), Zext(Var("q", 1), 16)),
	}
	for _, e := range exprs {
		e2, err := Parse(strings.NewReader(e.String()))
		if err != nil {
			t.Errorf("could not parse back %q: %v", e.String(), err)
		} else if e2.String() != e.String() {
			t.Errorf("expected %q, got %q", e.String(), e2.String())
		}
	}
}

func TestParseEquations(t *testing.T) {
	const input = `
	// Half adder
	a:8 = b:8;
	add(a:8, 1:8) = c:8
	eq(a:8, b:8) = 1:1
	`
	eqs, err := ParseEquations(strings.NewReader(input))
	if err != nil {
		t.Fatalf("could not parse equations: %v", err)
	}
	expected := []string{"a:8 = b:8", "add(a:8, 0x1:8) = c:8", "eq(a:8, b:8) = 0x1:1"}
	if len(eqs) != len(expected) {
		t.Fatalf("expected %d equations, got %d", len(expected), len(eqs))
	}
	for i, eq := range eqs {
		if eq.String() != expected[i] {
			t.Errorf("equation #%d: expected %q, got %q", i, expected[i], eq.String())
		}
	}
	for _, input := range []string{"a:8 = b:4", "a:8 b:8", "a:8 =", "a:8 = b:8 = c:8"} {
		if _, err := ParseEquations(strings.NewReader(input)); err == nil {
			t.Errorf("equations %q should not be parsed", input)
		}
	}
	if eqs, err := ParseEquations(strings.NewReader("  // nothing\n")); err != nil || len(eqs) != 0 {
		t.Errorf("expected no equation and no error, got %v, %v", eqs, err)
	}
}

func ExampleParse() {
	expr := "and(add(a:8, 0x01:8), not(b:8))"
	e, err := Parse(strings.NewReader(expr))
	if err != nil {
		fmt.Printf("Could not parse expression %q: %v", expr, err)
	} else {
		fmt.Printf("%s is %d bits wide", e, e.Width())
	}
	// Output:
	// and(add(a:8, 0x1:8), not(b:8)) is 8 bits wide
}
