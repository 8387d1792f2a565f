// Package bv describes bit-vector expressions over named signals.
//
// Gate-level netlists are usually reasoned about as sets of Boolean functions over multi-bit signals:
// a bus "data" of width 8, the output of an adder, the 3 low bits of a register, and so on.
// This package provides a small expression tree to describe such functions, so that they can be
// compared, evaluated or handed to an SMT solver (see package smt).
//
// An expression is built from variables, constants and operators. Every expression has a width,
// the number of bits of the value it denotes. Comparisons denote a single bit, 1 meaning "true".
//
// For example, the following function of two 8-bit signals a and b:
//
//	(a + 1) & ~b
//
// will be defined with the following code:
//
//	e := And(Add(Var("a", 8), Const(1, 8)), Not(Var("b", 8)))
//
// Its textual representation, as returned by e.String() and as accepted by Parse, is
//
//	and(add(a:8, 0x1:8), not(b:8))
//
// Constructors do not check operand widths: an ill-formed expression can be built, and Check
// reports whether it is well-formed.
package bv
