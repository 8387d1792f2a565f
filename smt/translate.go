package smt

import (
	"fmt"
	"strings"

	"github.com/netre/smtbridge/bv"
)

var binaryFuncs = map[bv.Op]string{
	bv.OpAnd:    "bvand",
	bv.OpOr:     "bvor",
	bv.OpXor:    "bvxor",
	bv.OpAdd:    "bvadd",
	bv.OpSub:    "bvsub",
	bv.OpMul:    "bvmul",
	bv.OpUdiv:   "bvudiv",
	bv.OpUrem:   "bvurem",
	bv.OpSdiv:   "bvsdiv",
	bv.OpSrem:   "bvsrem",
	bv.OpShl:    "bvshl",
	bv.OpLshr:   "bvlshr",
	bv.OpAshr:   "bvashr",
	bv.OpConcat: "concat",
}

var comparisonFuncs = map[bv.Op]string{
	bv.OpEq:  "=",
	bv.OpUlt: "bvult",
	bv.OpUle: "bvule",
	bv.OpSlt: "bvslt",
	bv.OpSle: "bvsle",
}

// Translate returns the SMT-LIB v2 term denoting e.
// Comparisons, that are Boolean terms in SMT-LIB, are turned back into 1-bit vectors.
// It returns a *TranslationError if e is ill-formed or contains nodes that cannot be expressed,
// such as rotations by a non-constant amount.
func Translate(e bv.Expr) (string, error) {
	if err := bv.Check(e); err != nil {
		return "", &TranslationError{Expr: e.String(), Reason: err.Error()}
	}
	var sb strings.Builder
	if err := translate(&sb, e); err != nil {
		return "", &TranslationError{Expr: e.String(), Reason: err.Error()}
	}
	return sb.String(), nil
}

func translate(sb *strings.Builder, e bv.Expr) error {
	switch e := e.(type) {
	case bv.Variable:
		sym, err := Symbol(e.Name)
		if err != nil {
			return err
		}
		sb.WriteString(sym)
	case bv.Constant:
		fmt.Fprintf(sb, "#b%0*b", e.Size, e.Value)
	case bv.Unary:
		switch e.Op {
		case bv.OpNot:
			return apply(sb, "bvnot", e.X)
		case bv.OpNeg:
			return apply(sb, "bvneg", e.X)
		default:
			return fmt.Errorf("unsupported unary operator %s", e.Op)
		}
	case bv.Binary:
		if f, ok := binaryFuncs[e.Op]; ok {
			return apply(sb, f, e.X, e.Y)
		}
		if f, ok := comparisonFuncs[e.Op]; ok {
			sb.WriteString("(ite ")
			if err := apply(sb, f, e.X, e.Y); err != nil {
				return err
			}
			sb.WriteString(" #b1 #b0)")
			return nil
		}
		if e.Op == bv.OpRol || e.Op == bv.OpRor {
			k, ok := e.Y.(bv.Constant)
			if !ok {
				return fmt.Errorf("rotation amount %s is not a constant", e.Y)
			}
			f := "rotate_left"
			if e.Op == bv.OpRor {
				f = "rotate_right"
			}
			return apply(sb, fmt.Sprintf("(_ %s %d)", f, k.Value%uint64(e.X.Width())), e.X)
		}
		return fmt.Errorf("unsupported binary operator %s", e.Op)
	case bv.Slice:
		return apply(sb, fmt.Sprintf("(_ extract %d %d)", e.Hi, e.Lo), e.X)
	case bv.Extension:
		f := "zero_extend"
		if e.Op == bv.OpSext {
			f = "sign_extend"
		}
		return apply(sb, fmt.Sprintf("(_ %s %d)", f, e.Size-e.X.Width()), e.X)
	case bv.Cond:
		sb.WriteString("(ite (= ")
		if err := translate(sb, e.Cond); err != nil {
			return err
		}
		sb.WriteString(" #b1) ")
		if err := translate(sb, e.Then); err != nil {
			return err
		}
		sb.WriteByte(' ')
		if err := translate(sb, e.Else); err != nil {
			return err
		}
		sb.WriteByte(')')
	default:
		return fmt.Errorf("unsupported expression of type %T", e)
	}
	return nil
}

// apply writes the application of f to args.
func apply(sb *strings.Builder, f string, args ...bv.Expr) error {
	sb.WriteByte('(')
	sb.WriteString(f)
	for _, arg := range args {
		sb.WriteByte(' ')
		if err := translate(sb, arg); err != nil {
			return err
		}
	}
	sb.WriteByte(')')
	return nil
}

// Names that cannot be used as simple symbols although they are made of valid characters.
var reservedWords = map[string]bool{
	"_": true, "!": true, "as": true, "let": true, "exists": true, "forall": true, "match": true, "par": true,
	"BINARY": true, "DECIMAL": true, "HEXADECIMAL": true, "NUMERAL": true, "STRING": true,
	"assert": true, "check-sat": true, "declare-fun": true, "define-fun": true, "exit": true,
	"get-model": true, "pop": true, "push": true, "set-logic": true, "set-option": true,
}

// Symbols of the core, bit-vector and array theories.
// "|true|" denotes the same symbol as "true", so variables cannot be named after them.
var theorySymbols = map[string]bool{
	"true": true, "false": true, "not": true, "and": true, "or": true, "xor": true, "=>": true, "=": true,
	"distinct": true, "ite": true, "Bool": true, "BitVec": true, "Array": true, "select": true, "store": true,
	"concat": true, "extract": true, "repeat": true, "zero_extend": true, "sign_extend": true,
	"rotate_left": true, "rotate_right": true, "bvnot": true, "bvneg": true, "bvand": true, "bvor": true,
	"bvxor": true, "bvnand": true, "bvnor": true, "bvxnor": true, "bvcomp": true, "bvadd": true, "bvsub": true,
	"bvmul": true, "bvudiv": true, "bvurem": true, "bvsdiv": true, "bvsrem": true, "bvsmod": true,
	"bvshl": true, "bvlshr": true, "bvashr": true, "bvult": true, "bvule": true, "bvugt": true, "bvuge": true,
	"bvslt": true, "bvsle": true, "bvsgt": true, "bvsge": true,
}

// Symbol returns the SMT-LIB v2 symbol naming the variable name.
// Names that are not valid simple symbols, such as "data[3]", are quoted: "|data[3]|".
// Names of theory symbols, such as "true" or "bvadd", are rejected.
func Symbol(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty symbol")
	}
	if theorySymbols[name] {
		return "", fmt.Errorf("name %q is a theory symbol", name)
	}
	if isSimpleSymbol(name) && !reservedWords[name] {
		return name, nil
	}
	if strings.ContainsAny(name, `|\`) {
		return "", fmt.Errorf("name %q cannot be written as a symbol", name)
	}
	return "|" + name + "|", nil
}

func isSimpleSymbol(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		case strings.IndexByte("~!@$%^&*_-+=<>.?/", c) >= 0:
		default:
			return false
		}
	}
	return true
}

// unquote returns the name denoted by the symbol sym.
func unquote(sym string) string {
	if len(sym) >= 2 && sym[0] == '|' && sym[len(sym)-1] == '|' {
		return sym[1 : len(sym)-1]
	}
	return sym
}
