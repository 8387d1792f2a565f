/*
Package smt checks bit-vector constraints with external SMT solvers.

Constraints are equalities between two bv.Expr of the same width. They are translated to an
SMT-LIB v2 program, which is written on the standard input of a solver process. The first line
of its output is the verdict, and what follows is the model, if one was requested.

Supported solvers are Z3 and Boolector. Their binaries are looked for in /usr/bin, then in
/usr/local/bin; the PATH is never used.

# Describing a problem

A set of constraints is accumulated in a Solver:

	a, b := bv.Var("a", 8), bv.Var("b", 8)
	s := smt.New().
		WithConstraint(smt.NewConstraint(bv.Add(a, b), bv.Const(0x10, 8))).
		WithConstraint(smt.Assert(bv.Ult(a, b)))

The program that will be sent to the solver can be obtained with s.Program(config).

# Solving a problem

	config := smt.DefaultQueryConfig().WithSolver(smt.Boolector).WithModel(true)
	res, err := s.Query(ctx, config)

The time limit of config is enforced by the solver itself: a solver running out of time yields an
Unknown status. Cancelling ctx kills the process and makes Query return an error matching ErrCancelled.

When the status is Sat and a model was requested, res.Model binds every variable to its value:

	for _, name := range res.Model.Names() {
		fmt.Printf("%s = %v\n", name, res.Model[name])
	}

Errors are wrapped with the step of the query that failed; their kind can be tested with errors.Is
and errors.As against the sentinel errors and error types of this package.
*/
package smt
