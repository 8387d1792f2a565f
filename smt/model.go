package smt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/netre/smtbridge/bv"
)

// A BitVector is a value of a given width, as found in a model.
type BitVector struct {
	Value uint64
	Width int
}

func (b BitVector) String() string {
	return fmt.Sprintf("0x%x:%d", b.Value, b.Width)
}

// A Model associates variable names with their value.
type Model map[string]BitVector

// Names returns the names of the variables bound in m, sorted.
func (m Model) Names() []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}

func (m Model) String() string {
	strs := lo.Map(m.Names(), func(name string, _ int) string {
		return name + "=" + m[name].String()
	})
	return "{" + strings.Join(strs, ", ") + "}"
}

// Eval returns the value of e under the bindings of m.
func (m Model) Eval(e bv.Expr) (uint64, error) {
	env := make(map[string]uint64, len(m))
	for name, val := range m {
		env[name] = val.Value
	}
	return bv.Eval(e, env)
}

// Satisfies is true iff both sides of c have the same value under the bindings of m.
func (m Model) Satisfies(c Constraint) (bool, error) {
	lhs, err := m.Eval(c.LHS)
	if err != nil {
		return false, err
	}
	rhs, err := m.Eval(c.RHS)
	if err != nil {
		return false, err
	}
	return lhs == rhs, nil
}

// ParseModel parses the model printed by the given solver after a (get-model) command.
// Both the "(model (define-fun ...) ...)" and the "((define-fun ...) ...)" forms are accepted.
// Only bit-vector constants are kept: functions with parameters and other sorts are ignored.
// Values are expected as #b or #x literals; Z3 can also print them as (_ bvN width).
// Anything after the model is ignored.
func ParseModel(text string, solver SolverType) (Model, error) {
	r := sexpReader{text: text, solver: solver}
	root, err := r.read()
	if err != nil {
		return nil, err
	}
	if !root.isList {
		return nil, r.errorf(root.offset, "expected a list, found %q", root.atom)
	}
	defs := root.list
	if len(defs) > 0 && defs[0].atom == "model" {
		defs = defs[1:]
	}
	model := make(Model)
	for _, def := range defs {
		if !def.isList || len(def.list) == 0 {
			return nil, r.errorf(def.offset, "expected a definition, found %q", def.atom)
		}
		if def.list[0].atom != "define-fun" {
			continue
		}
		name, val, ok, err := r.parseDefinition(def)
		if err != nil {
			return nil, err
		}
		if ok {
			model[name] = val
		}
	}
	return model, nil
}

// parseDefinition parses "(define-fun name () (_ BitVec w) value)".
// ok is false if def does not define a bit-vector constant.
func (r *sexpReader) parseDefinition(def sexp) (name string, val BitVector, ok bool, err error) {
	if len(def.list) != 5 || def.list[1].isList {
		return "", val, false, r.errorf(def.offset, "malformed define-fun")
	}
	name = unquote(def.list[1].atom)
	if params := def.list[2]; !params.isList || len(params.list) != 0 {
		return "", val, false, nil
	}
	typ := def.list[3]
	if !typ.isList || len(typ.list) != 3 || typ.list[0].atom != "_" || typ.list[1].atom != "BitVec" {
		return "", val, false, nil
	}
	width, err := strconv.Atoi(typ.list[2].atom)
	if err != nil || width <= 0 {
		return "", val, false, r.errorf(typ.offset, "invalid bit-vector width for %s", name)
	}
	val, err = r.parseValue(def.list[4], width)
	if err != nil {
		return "", val, false, err
	}
	return name, val, true, nil
}

func (r *sexpReader) parseValue(e sexp, width int) (BitVector, error) {
	if e.isList {
		// (_ bvN w)
		if r.solver != Z3 || len(e.list) != 3 || e.list[0].atom != "_" || !strings.HasPrefix(e.list[1].atom, "bv") {
			return BitVector{}, r.errorf(e.offset, "unexpected value")
		}
		w, err := strconv.Atoi(e.list[2].atom)
		if err != nil || w != width {
			return BitVector{}, r.errorf(e.offset, "value width does not match %d", width)
		}
		return r.bitVector(e, strings.TrimPrefix(e.list[1].atom, "bv"), 10, width)
	}
	switch {
	case strings.HasPrefix(e.atom, "#b"):
		digits := e.atom[2:]
		if len(digits) != width {
			return BitVector{}, r.errorf(e.offset, "%q is not %d bits wide", e.atom, width)
		}
		return r.bitVector(e, digits, 2, width)
	case strings.HasPrefix(e.atom, "#x"):
		digits := e.atom[2:]
		if 4*len(digits) != width {
			return BitVector{}, r.errorf(e.offset, "%q is not %d bits wide", e.atom, width)
		}
		return r.bitVector(e, digits, 16, width)
	default:
		return BitVector{}, r.errorf(e.offset, "unexpected value %q", e.atom)
	}
}

func (r *sexpReader) bitVector(e sexp, digits string, base, width int) (BitVector, error) {
	if width > 64 {
		return BitVector{}, r.errorf(e.offset, "%d-bit values are not supported", width)
	}
	v, err := strconv.ParseUint(digits, base, width)
	if err != nil || digits == "" {
		return BitVector{}, r.errorf(e.offset, "invalid value %q", digits)
	}
	return BitVector{Value: v, Width: width}, nil
}

// A sexp is either an atom or a list of sexps.
type sexp struct {
	atom   string
	list   []sexp
	isList bool
	offset int
}

// A sexpReader reads s-expressions as printed by SMT solvers.
type sexpReader struct {
	text   string
	pos    int
	solver SolverType
}

func (r *sexpReader) errorf(offset int, format string, args ...interface{}) error {
	return &ModelParseError{Solver: r.solver, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func (r *sexpReader) skipSpace() {
	for r.pos < len(r.text) {
		switch r.text[r.pos] {
		case ';': // Comment, up to the end of line
			for r.pos < len(r.text) && r.text[r.pos] != '\n' {
				r.pos++
			}
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

func (r *sexpReader) read() (sexp, error) {
	r.skipSpace()
	if r.pos >= len(r.text) {
		return sexp{}, r.errorf(r.pos, "unexpected end of model")
	}
	start := r.pos
	switch r.text[r.pos] {
	case '(':
		r.pos++
		res := sexp{isList: true, offset: start}
		for {
			r.skipSpace()
			if r.pos >= len(r.text) {
				return sexp{}, r.errorf(start, "unbalanced parenthesis")
			}
			if r.text[r.pos] == ')' {
				r.pos++
				return res, nil
			}
			sub, err := r.read()
			if err != nil {
				return sexp{}, err
			}
			res.list = append(res.list, sub)
		}
	case ')':
		return sexp{}, r.errorf(start, "unexpected ')'")
	case '|':
		end := strings.IndexByte(r.text[start+1:], '|')
		if end < 0 {
			return sexp{}, r.errorf(start, "unterminated quoted symbol")
		}
		r.pos = start + end + 2
	case '"':
		r.pos++
		for {
			if r.pos >= len(r.text) {
				return sexp{}, r.errorf(start, "unterminated string")
			}
			r.pos++
			if r.text[r.pos-1] != '"' {
				continue
			}
			if r.pos < len(r.text) && r.text[r.pos] == '"' { // Escaped quote
				r.pos++
				continue
			}
			break
		}
	default:
		for r.pos < len(r.text) && !strings.ContainsRune(" \t\n\r();|\"", rune(r.text[r.pos])) {
			r.pos++
		}
	}
	return sexp{atom: r.text[start:r.pos], offset: start}, nil
}
