package bv

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"
)

type parser struct {
	s     scanner.Scanner
	eof   bool             // Have we reached eof yet?
	tok   rune             // Kind of the last token read
	token string           // Last token read
	pos   scanner.Position // Position of the last token read
	err   error            // First error reported by the scanner
}

var unaryOps = map[string]func(Expr) Expr{
	"not": Not,
	"neg": Neg,
}

var binaryOps = map[string]func(Expr, Expr) Expr{
	"and":    And,
	"or":     Or,
	"xor":    Xor,
	"add":    Add,
	"sub":    Sub,
	"mul":    Mul,
	"udiv":   Udiv,
	"urem":   Urem,
	"sdiv":   Sdiv,
	"srem":   Srem,
	"shl":    Shl,
	"lshr":   Lshr,
	"ashr":   Ashr,
	"rol":    Rol,
	"ror":    Ror,
	"concat": Concat,
	"eq":     Eq,
	"ne":     Ne,
	"ult":    Ult,
	"ule":    Ule,
	"ugt":    Ugt,
	"uge":    Uge,
	"slt":    Slt,
	"sle":    Sle,
	"sgt":    Sgt,
	"sge":    Sge,
}

var extensionOps = map[string]func(Expr, int) Expr{
	"zext": Zext,
	"sext": Sext,
}

// Parse parses an expression from the given input Reader.
// It returns the corresponding expression, after having checked it is well-formed.
// Expressions are written using the following syntax:
//
// - a variable is written "name:width", e.g "a:8". Names that are not identifiers are quoted: "\"data[3]\":1",
// - a constant is written "value:width", the value being decimal, hexadecimal (0x), octal (0o) or binary (0b),
// - an operation is written "op(arg1, arg2...)". Available operators are the names of the constructors of this package,
// in lowercase: "not", "add", "eq", "ugt", "extract(x, hi, lo)", "zext(x, width)", "ite(c, x, y)", etc.
//
// Go-style comments are ignored.
func Parse(r io.Reader) (Expr, error) {
	p := newParser(r)
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	if !p.eof {
		return nil, fmt.Errorf("unexpected token %q at %s", p.token, p.pos)
	}
	return e, nil
}

// ParseEquations parses a list of equations "lhs = rhs" from the given input Reader.
// Equations can optionally be separated by semicolons.
// Both sides of each equation must have the same width.
func ParseEquations(r io.Reader) ([]Equation, error) {
	p := newParser(r)
	var res []Equation
	for !p.eof {
		lhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.token != "=" {
			return nil, fmt.Errorf("expected '=' at %s, found %q", p.pos, p.token)
		}
		pos := p.pos
		p.scan()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if lhs.Width() != rhs.Width() {
			return nil, fmt.Errorf("at %s, cannot equate %d-bit and %d-bit values", pos, lhs.Width(), rhs.Width())
		}
		res = append(res, Equation{LHS: lhs, RHS: rhs})
		if p.token == ";" {
			p.scan()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return res, nil
}

func newParser(r io.Reader) *parser {
	p := &parser{}
	p.s.Init(r)
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("%s: %s", s.Pos(), msg)
		}
	}
	p.scan()
	return p
}

func (p *parser) scan() {
	if p.eof {
		return
	}
	p.tok = p.s.Scan()
	p.eof = p.tok == scanner.EOF
	p.token = p.s.TokenText()
	p.pos = p.s.Position
}

func (p *parser) parseExpr() (Expr, error) {
	if p.eof {
		return nil, fmt.Errorf("at position %v, expected expression, found EOF", p.s.Pos())
	}
	pos := p.pos
	switch p.tok {
	case scanner.Int:
		val, err := strconv.ParseUint(p.token, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid constant %q at %s: %v", p.token, pos, err)
		}
		p.scan()
		w, err := p.parseWidth()
		if err != nil {
			return nil, err
		}
		c := Constant{Value: val, Size: w}
		if err := checkNode(c); err != nil {
			return nil, fmt.Errorf("at %s: %v", pos, err)
		}
		return c, nil
	case scanner.String:
		name, err := strconv.Unquote(p.token)
		if err != nil {
			return nil, fmt.Errorf("invalid name %s at %s: %v", p.token, pos, err)
		}
		p.scan()
		return p.parseVar(name, pos)
	case scanner.Ident:
		name := p.token
		p.scan()
		if p.token == "(" {
			return p.parseCall(name, pos)
		}
		return p.parseVar(name, pos)
	default:
		return nil, fmt.Errorf("unexpected token %q at %s", p.token, pos)
	}
}

func (p *parser) parseVar(name string, pos scanner.Position) (Expr, error) {
	w, err := p.parseWidth()
	if err != nil {
		return nil, err
	}
	v := Variable{Name: name, Size: w}
	if err := checkNode(v); err != nil {
		return nil, fmt.Errorf("at %s: %v", pos, err)
	}
	return v, nil
}

func (p *parser) parseWidth() (int, error) {
	if p.token != ":" {
		return 0, fmt.Errorf("expected ':' at %s, found %q", p.pos, p.token)
	}
	p.scan()
	if p.tok != scanner.Int {
		return 0, fmt.Errorf("expected width at %s, found %q", p.pos, p.token)
	}
	w, err := strconv.Atoi(p.token)
	if err != nil || w <= 0 {
		return 0, fmt.Errorf("invalid width %q at %s", p.token, p.pos)
	}
	p.scan()
	return w, nil
}

// An arg is an argument of an operation: either an expression or, for extract and extensions, a plain integer.
type arg struct {
	e Expr
	n int
}

func (p *parser) parseArg() (arg, error) {
	if p.tok == scanner.Int {
		text, pos := p.token, p.pos
		p.scan()
		if p.token != ":" {
			n, err := strconv.Atoi(text)
			if err != nil {
				return arg{}, fmt.Errorf("invalid integer %q at %s", text, pos)
			}
			return arg{n: n}, nil
		}
		val, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return arg{}, fmt.Errorf("invalid constant %q at %s: %v", text, pos, err)
		}
		w, err := p.parseWidth()
		if err != nil {
			return arg{}, err
		}
		c := Constant{Value: val, Size: w}
		if err := checkNode(c); err != nil {
			return arg{}, fmt.Errorf("at %s: %v", pos, err)
		}
		return arg{e: c}, nil
	}
	e, err := p.parseExpr()
	return arg{e: e}, err
}

func (p *parser) parseCall(name string, pos scanner.Position) (Expr, error) {
	p.scan() // Skip "("
	var args []arg
	for p.token != ")" {
		if p.eof {
			return nil, fmt.Errorf("expected closing parenthesis, found EOF at %s", p.s.Pos())
		}
		a, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.token == "," {
			p.scan()
		} else if p.token != ")" {
			return nil, fmt.Errorf("expected ',' or ')' at %s, found %q", p.pos, p.token)
		}
	}
	p.scan() // Skip ")"
	e, err := makeCall(name, args)
	if err != nil {
		return nil, fmt.Errorf("at %s: %v", pos, err)
	}
	if err := Check(e); err != nil {
		return nil, fmt.Errorf("at %s: %v", pos, err)
	}
	return e, nil
}

// makeCall builds the operation name applied to args.
func makeCall(name string, args []arg) (Expr, error) {
	exprs := func(n int) ([]Expr, error) {
		if len(args) != n {
			return nil, fmt.Errorf("%s expects %d arguments, got %d", name, n, len(args))
		}
		res := make([]Expr, n)
		for i, a := range args {
			if a.e == nil {
				return nil, fmt.Errorf("argument %d of %s must be an expression, not %d", i+1, name, a.n)
			}
			res[i] = a.e
		}
		return res, nil
	}
	ints := func(from int) ([]int, error) {
		res := make([]int, 0, len(args)-from)
		for i := from; i < len(args); i++ {
			if args[i].e != nil {
				return nil, fmt.Errorf("argument %d of %s must be an integer, not %s", i+1, name, args[i].e)
			}
			res = append(res, args[i].n)
		}
		return res, nil
	}
	if f, ok := unaryOps[name]; ok {
		es, err := exprs(1)
		if err != nil {
			return nil, err
		}
		return f(es[0]), nil
	}
	if f, ok := binaryOps[name]; ok {
		es, err := exprs(2)
		if err != nil {
			return nil, err
		}
		return f(es[0], es[1]), nil
	}
	if f, ok := extensionOps[name]; ok {
		if len(args) != 2 || args[0].e == nil {
			return nil, fmt.Errorf("%s expects an expression and a width", name)
		}
		ns, err := ints(1)
		if err != nil {
			return nil, err
		}
		return f(args[0].e, ns[0]), nil
	}
	switch name {
	case "extract":
		if len(args) != 3 || args[0].e == nil {
			return nil, fmt.Errorf("extract expects an expression and two bit indices")
		}
		ns, err := ints(1)
		if err != nil {
			return nil, err
		}
		return Extract(args[0].e, ns[0], ns[1]), nil
	case "ite":
		es, err := exprs(3)
		if err != nil {
			return nil, err
		}
		return Ite(es[0], es[1], es[2]), nil
	default:
		return nil, fmt.Errorf("unknown operator %q", name)
	}
}
