package smt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/netre/smtbridge/bv"
)

const logic = "QF_ABV"

// declarations returns the distinct variables of all constraints, sorted by name then width.
func declarations(constraints []Constraint) []bv.Variable {
	vars := lo.FlatMap(constraints, func(c Constraint, _ int) []bv.Variable {
		nodes := lo.Filter(append(bv.Nodes(c.LHS), bv.Nodes(c.RHS)...), func(n bv.Expr, _ int) bool {
			return bv.IsVariable(n)
		})
		return lo.Map(nodes, func(n bv.Expr, _ int) bv.Variable { return n.(bv.Variable) })
	})
	vars = lo.Uniq(vars)
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].Name != vars[j].Name {
			return vars[i].Name < vars[j].Name
		}
		return vars[i].Size < vars[j].Size
	})
	return vars
}

// BuildProgram returns the SMT-LIB v2 program checking whether all constraints can hold together.
// The output only depends on the constraints and on config.GenerateModel.
// Nothing is returned if one of the constraints cannot be translated.
func BuildProgram(constraints []Constraint, config QueryConfig) (string, error) {
	asserts := make([]string, len(constraints))
	for i, c := range constraints {
		lhs, rhs, err := c.terms()
		if err != nil {
			return "", errors.Wrapf(err, "cannot translate constraint %s", c)
		}
		asserts[i] = fmt.Sprintf("(assert (= %s %s))\n", lhs, rhs)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "(set-logic %s)\n", logic)
	for _, v := range declarations(constraints) {
		sym, err := Symbol(v.Name)
		if err != nil {
			return "", &TranslationError{Expr: v.String(), Reason: err.Error()}
		}
		fmt.Fprintf(&sb, "(declare-fun %s () (_ BitVec %d))\n", sym, v.Size)
	}
	sb.WriteByte('\n')
	for _, a := range asserts {
		sb.WriteString(a)
	}
	sb.WriteString("\n(check-sat)")
	if config.GenerateModel {
		sb.WriteString("\n(get-model)")
	}
	return sb.String(), nil
}
