package bv

import (
	"fmt"
	"strconv"
	"unicode"
)

// An Expr is any bit-vector expression.
type Expr interface {
	// Width is the number of bits of the value denoted by the expression.
	Width() int
	// Operands returns the direct subexpressions, in order.
	Operands() []Expr
	String() string
}

// An Equation states that two expressions must denote the same value.
type Equation struct {
	LHS Expr
	RHS Expr
}

func (eq Equation) String() string {
	return eq.LHS.String() + " = " + eq.RHS.String()
}

// Op identifies the operator of a Unary, Binary or Extension node.
type Op byte

const (
	OpNot    = Op(iota) // Bitwise negation
	OpNeg               // Two's complement negation
	OpAnd               // Bitwise and
	OpOr                // Bitwise or
	OpXor               // Bitwise exclusive or
	OpAdd               // Addition modulo 2^width
	OpSub               // Subtraction modulo 2^width
	OpMul               // Multiplication modulo 2^width
	OpUdiv              // Unsigned division
	OpUrem              // Unsigned remainder
	OpSdiv              // Signed division
	OpSrem              // Signed remainder, with the sign of the dividend
	OpShl               // Left shift
	OpLshr              // Logical right shift
	OpAshr              // Arithmetic right shift
	OpRol               // Left rotation
	OpRor               // Right rotation
	OpConcat            // Concatenation
	OpEq                // Equality
	OpUlt               // Unsigned less than
	OpUle               // Unsigned less or equal
	OpSlt               // Signed less than
	OpSle               // Signed less or equal
	OpZext              // Zero extension
	OpSext              // Sign extension
)

var opNames = [...]string{
	OpNot:    "not",
	OpNeg:    "neg",
	OpAnd:    "and",
	OpOr:     "or",
	OpXor:    "xor",
	OpAdd:    "add",
	OpSub:    "sub",
	OpMul:    "mul",
	OpUdiv:   "udiv",
	OpUrem:   "urem",
	OpSdiv:   "sdiv",
	OpSrem:   "srem",
	OpShl:    "shl",
	OpLshr:   "lshr",
	OpAshr:   "ashr",
	OpRol:    "rol",
	OpRor:    "ror",
	OpConcat: "concat",
	OpEq:     "eq",
	OpUlt:    "ult",
	OpUle:    "ule",
	OpSlt:    "slt",
	OpSle:    "sle",
	OpZext:   "zext",
	OpSext:   "sext",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// IsComparison is true iff op yields a single bit.
func (op Op) IsComparison() bool {
	switch op {
	case OpEq, OpUlt, OpUle, OpSlt, OpSle:
		return true
	default:
		return false
	}
}

// Variable is a named signal of a given width.
type Variable struct {
	Name string
	Size int
}

// Var generates a named variable of the given width.
func Var(name string, width int) Expr {
	return Variable{Name: name, Size: width}
}

func (v Variable) Width() int       { return v.Size }
func (v Variable) Operands() []Expr { return nil }

func (v Variable) String() string {
	name := v.Name
	if !isIdent(name) {
		name = strconv.Quote(name)
	}
	return name + ":" + strconv.Itoa(v.Size)
}

// Constant is a literal value of a given width.
// Widths above 64 bits cannot be represented.
type Constant struct {
	Value uint64
	Size  int
}

// Const generates a constant. value is truncated to width bits.
func Const(value uint64, width int) Expr {
	return Constant{Value: value & Mask(width), Size: width}
}

func (c Constant) Width() int       { return c.Size }
func (c Constant) Operands() []Expr { return nil }
func (c Constant) String() string   { return fmt.Sprintf("0x%x:%d", c.Value, c.Size) }

// Unary is a negation.
type Unary struct {
	Op Op
	X  Expr
}

func (u Unary) Width() int       { return u.X.Width() }
func (u Unary) Operands() []Expr { return []Expr{u.X} }
func (u Unary) String() string   { return u.Op.String() + "(" + u.X.String() + ")" }

// Binary is a bitwise, arithmetic, shift, concatenation or comparison operation.
type Binary struct {
	Op Op
	X  Expr
	Y  Expr
}

func (b Binary) Width() int {
	switch {
	case b.Op == OpConcat:
		return b.X.Width() + b.Y.Width()
	case b.Op.IsComparison():
		return 1
	default:
		return b.X.Width()
	}
}

func (b Binary) Operands() []Expr { return []Expr{b.X, b.Y} }

func (b Binary) String() string {
	return b.Op.String() + "(" + b.X.String() + ", " + b.Y.String() + ")"
}

// Slice selects the bits Hi down to Lo (both included) of X.
type Slice struct {
	X  Expr
	Hi int
	Lo int
}

func (s Slice) Width() int       { return s.Hi - s.Lo + 1 }
func (s Slice) Operands() []Expr { return []Expr{s.X} }

func (s Slice) String() string {
	return fmt.Sprintf("extract(%s, %d, %d)", s.X, s.Hi, s.Lo)
}

// Extension widens X to Size bits, either with zeros or with copies of its sign bit.
type Extension struct {
	Op   Op
	X    Expr
	Size int
}

func (e Extension) Width() int       { return e.Size }
func (e Extension) Operands() []Expr { return []Expr{e.X} }

func (e Extension) String() string {
	return fmt.Sprintf("%s(%s, %d)", e.Op, e.X, e.Size)
}

// Cond is an if-then-else. Cond must be 1 bit wide.
type Cond struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (c Cond) Width() int       { return c.Then.Width() }
func (c Cond) Operands() []Expr { return []Expr{c.Cond, c.Then, c.Else} }

func (c Cond) String() string {
	return "ite(" + c.Cond.String() + ", " + c.Then.String() + ", " + c.Else.String() + ")"
}

// Not is the bitwise negation of x.
func Not(x Expr) Expr { return Unary{Op: OpNot, X: x} }

// Neg is the two's complement negation of x.
func Neg(x Expr) Expr { return Unary{Op: OpNeg, X: x} }

// And is the bitwise and of x and y.
func And(x, y Expr) Expr { return Binary{Op: OpAnd, X: x, Y: y} }

// Or is the bitwise or of x and y.
func Or(x, y Expr) Expr { return Binary{Op: OpOr, X: x, Y: y} }

// Xor is the bitwise exclusive or of x and y.
func Xor(x, y Expr) Expr { return Binary{Op: OpXor, X: x, Y: y} }

// Add is x + y, modulo 2^width.
func Add(x, y Expr) Expr { return Binary{Op: OpAdd, X: x, Y: y} }

// Sub is x - y, modulo 2^width.
func Sub(x, y Expr) Expr { return Binary{Op: OpSub, X: x, Y: y} }

// Mul is x * y, modulo 2^width.
func Mul(x, y Expr) Expr { return Binary{Op: OpMul, X: x, Y: y} }

// Udiv is the unsigned quotient of x by y. Dividing by 0 yields all ones.
func Udiv(x, y Expr) Expr { return Binary{Op: OpUdiv, X: x, Y: y} }

// Urem is the unsigned remainder of x by y. Dividing by 0 yields x.
func Urem(x, y Expr) Expr { return Binary{Op: OpUrem, X: x, Y: y} }

// Sdiv is the signed quotient of x by y, rounded toward zero.
func Sdiv(x, y Expr) Expr { return Binary{Op: OpSdiv, X: x, Y: y} }

// Srem is the signed remainder of x by y, with the sign of x.
func Srem(x, y Expr) Expr { return Binary{Op: OpSrem, X: x, Y: y} }

// Shl shifts x left by y bits. Both operands must have the same width.
func Shl(x, y Expr) Expr { return Binary{Op: OpShl, X: x, Y: y} }

// Lshr shifts x right by y bits, filling with zeros.
func Lshr(x, y Expr) Expr { return Binary{Op: OpLshr, X: x, Y: y} }

// Ashr shifts x right by y bits, filling with the sign bit of x.
func Ashr(x, y Expr) Expr { return Binary{Op: OpAshr, X: x, Y: y} }

// Rol rotates x left by y bits.
// Solvers only accept constant rotation amounts.
func Rol(x, y Expr) Expr { return Binary{Op: OpRol, X: x, Y: y} }

// Ror rotates x right by y bits.
func Ror(x, y Expr) Expr { return Binary{Op: OpRor, X: x, Y: y} }

// Concat places x on the most significant side of y.
func Concat(x, y Expr) Expr { return Binary{Op: OpConcat, X: x, Y: y} }

// Eq is 1 iff x and y are equal.
func Eq(x, y Expr) Expr { return Binary{Op: OpEq, X: x, Y: y} }

// Ult is 1 iff x < y, as unsigned values.
func Ult(x, y Expr) Expr { return Binary{Op: OpUlt, X: x, Y: y} }

// Ule is 1 iff x <= y, as unsigned values.
func Ule(x, y Expr) Expr { return Binary{Op: OpUle, X: x, Y: y} }

// Slt is 1 iff x < y, as two's complement values.
func Slt(x, y Expr) Expr { return Binary{Op: OpSlt, X: x, Y: y} }

// Sle is 1 iff x <= y, as two's complement values.
func Sle(x, y Expr) Expr { return Binary{Op: OpSle, X: x, Y: y} }

// Ne is true iff x and y differ.
func Ne(x, y Expr) Expr { return Not(Eq(x, y)) }

// Ugt is 1 iff x > y, as unsigned values.
func Ugt(x, y Expr) Expr { return Ult(y, x) }

// Uge is 1 iff x >= y, as unsigned values.
func Uge(x, y Expr) Expr { return Ule(y, x) }

// Sgt is 1 iff x > y, as two's complement values.
func Sgt(x, y Expr) Expr { return Slt(y, x) }

// Sge is 1 iff x >= y, as two's complement values.
func Sge(x, y Expr) Expr { return Sle(y, x) }

// Extract selects bits hi down to lo of x.
func Extract(x Expr, hi, lo int) Expr {
	return Slice{X: x, Hi: hi, Lo: lo}
}

// Zext extends x to width bits, filling with zeros.
func Zext(x Expr, width int) Expr {
	return Extension{Op: OpZext, X: x, Size: width}
}

// Sext extends x to width bits, filling with its sign bit.
func Sext(x Expr, width int) Expr {
	return Extension{Op: OpSext, X: x, Size: width}
}

// Ite is x if cond is 1, y else.
func Ite(cond, x, y Expr) Expr {
	return Cond{Cond: cond, Then: x, Else: y}
}

// Nodes returns all the nodes of e, in post-order: operands always appear before the node using them.
// Shared subexpressions appear once per use.
func Nodes(e Expr) []Expr {
	var res []Expr
	var rec func(e Expr)
	rec = func(e Expr) {
		for _, sub := range e.Operands() {
			rec(sub)
		}
		res = append(res, e)
	}
	rec(e)
	return res
}

// IsVariable is true iff n is a variable.
func IsVariable(n Expr) bool {
	_, ok := n.(Variable)
	return ok
}

// Variables returns the distinct variables of e, in order of first appearance.
func Variables(e Expr) []Variable {
	var res []Variable
	seen := make(map[Variable]bool)
	for _, n := range Nodes(e) {
		if v, ok := n.(Variable); ok && !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}
	return res
}

// Check returns an error if e is ill-formed, i.e if some widths are inconsistent.
// Nodes of unknown types are not checked.
func Check(e Expr) error {
	for _, n := range Nodes(e) {
		if err := checkNode(n); err != nil {
			return err
		}
	}
	return nil
}

func checkNode(n Expr) error {
	switch n := n.(type) {
	case Variable:
		if n.Name == "" {
			return fmt.Errorf("variable has an empty name")
		}
		if n.Size <= 0 {
			return fmt.Errorf("variable %q has invalid width %d", n.Name, n.Size)
		}
	case Constant:
		if n.Size <= 0 || n.Size > 64 {
			return fmt.Errorf("constant %#x has invalid width %d", n.Value, n.Size)
		}
		if n.Value&^Mask(n.Size) != 0 {
			return fmt.Errorf("constant %#x does not fit in %d bits", n.Value, n.Size)
		}
	case Unary:
		if n.Op != OpNot && n.Op != OpNeg {
			return fmt.Errorf("%s is not a unary operator", n.Op)
		}
	case Binary:
		if n.Op < OpAnd || n.Op > OpSle {
			return fmt.Errorf("%s is not a binary operator", n.Op)
		}
		if n.Op == OpConcat {
			return nil
		}
		if wx, wy := n.X.Width(), n.Y.Width(); wx != wy {
			return fmt.Errorf("operands of %s have different widths %d and %d", n.Op, wx, wy)
		}
	case Slice:
		if n.Lo < 0 || n.Hi < n.Lo || n.Hi >= n.X.Width() {
			return fmt.Errorf("cannot extract bits %d..%d of a %d-bit value", n.Hi, n.Lo, n.X.Width())
		}
	case Extension:
		if n.Op != OpZext && n.Op != OpSext {
			return fmt.Errorf("%s is not an extension operator", n.Op)
		}
		if n.Size < n.X.Width() {
			return fmt.Errorf("cannot %s a %d-bit value to %d bits", n.Op, n.X.Width(), n.Size)
		}
	case Cond:
		if w := n.Cond.Width(); w != 1 {
			return fmt.Errorf("ite condition must be 1 bit wide, not %d", w)
		}
		if wt, we := n.Then.Width(), n.Else.Width(); wt != we {
			return fmt.Errorf("ite branches have different widths %d and %d", wt, we)
		}
	}
	return nil
}

// Mask returns a value with the width lowest bits set.
func Mask(width int) uint64 {
	if width <= 0 {
		return 0
	}
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// isIdent is true iff name can be written as is in the textual representation.
func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
