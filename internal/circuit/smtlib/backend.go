package smtlib

import (
	"bufio"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"verifyc/internal/circuit"
	"verifyc/internal/verrors"
)

// Backend is the concrete SMT-LIB circuit. It owns the growing command
// log (declarations plus negated-obligation assertions) and drives a
// fresh child solver process per obligation checked.
type Backend struct {
	solverPath string
	decls      []Command
	negated    []Expr // one negated claim per Assert call, insertion order
}

var _ circuit.Backend = (*Backend)(nil)

// NewBackend targets solverPath (e.g. "z3") as the child solver binary.
func NewBackend(solverPath string) *Backend {
	return &Backend{solverPath: solverPath}
}

func (b *Backend) BoolType() circuit.Sort { return circuit.SortBool }
func (b *Backend) IntType() circuit.Sort  { return circuit.SortInt }

func (b *Backend) FromBool(v bool) circuit.Term  { return BooleanExpr{Value: v} }
func (b *Backend) FromUint(v uint64) circuit.Term { return IntegerExpr{Value: v} }

func (b *Backend) DeclareBool(name string) circuit.Term {
	b.decls = append(b.decls, DeclareConst{Name: name, Sort: circuit.SortBool})
	return VarAccessExpr{Name: name}
}

func (b *Backend) DeclareInt(name string) circuit.Term {
	b.decls = append(b.decls, DeclareConst{Name: name, Sort: circuit.SortInt})
	return VarAccessExpr{Name: name}
}

type funcSymbol struct {
	name string
}

func (b *Backend) DeclareFn(name string, params []circuit.Sort, ret circuit.Sort) circuit.FuncSymbol {
	b.decls = append(b.decls, DeclareFun{Name: name, Params: params, Ret: ret})
	return funcSymbol{name: name}
}

func (b *Backend) FuncName(fn circuit.FuncSymbol) string {
	return fn.(funcSymbol).name
}

func asExpr(t circuit.Term) Expr { return t.(Expr) }

func exprSlice(ts []circuit.Term) []Expr {
	out := make([]Expr, len(ts))
	for i, t := range ts {
		out[i] = asExpr(t)
	}
	return out
}

func (b *Backend) Invoke(fn circuit.FuncSymbol, args []circuit.Term) circuit.Term {
	return ApplyExpr{Name: fn.(funcSymbol).name, Args: exprSlice(args)}
}

func (b *Backend) Not(a circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpNot, Args: []Expr{asExpr(a)}}
}
func (b *Backend) And(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpAnd, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Or(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpOr, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Implies(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpImplies, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Ite(cond, t, f circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpIfThenElse, Args: []Expr{asExpr(cond), asExpr(t), asExpr(f)}}
}

// Neg is unary minus, built as a one-argument OpSub. Op.Arity reports
// OpSub as variadic like the other non-fixed operators, and the printer
// makes no special case for it, so it prints as (- a).
func (b *Backend) Neg(a circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpSub, Args: []Expr{asExpr(a)}}
}
func (b *Backend) Add(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpAdd, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Sub(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpSub, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Mul(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpMul, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Div(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpDiv, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Rem(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpMod, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Lt(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpLt, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Lteq(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpLtEq, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Gt(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpGt, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Gteq(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpGtEq, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) NonZero(a circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpNeq, Args: []Expr{asExpr(a), IntegerExpr{Value: 0}}}
}

func (b *Backend) Eq(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpEq, Args: []Expr{asExpr(a), asExpr(c)}}
}
func (b *Backend) Neq(a, c circuit.Term) circuit.Term {
	return OperatorExpr{Op: OpNeq, Args: []Expr{asExpr(a), asExpr(c)}}
}

// Assert stores the negation of claim; validity is unsatisfiability of
// that negation.
func (b *Backend) Assert(claim circuit.Term) {
	b.negated = append(b.negated, OperatorExpr{Op: OpNot, Args: []Expr{asExpr(claim)}})
}

// Check runs one child solver invocation per recorded Assert, in order.
func (b *Backend) Check() []circuit.Outcome {
	outcomes := make([]circuit.Outcome, len(b.negated))
	for i := range b.negated {
		outcomes[i] = b.checkOne(i)
	}
	return outcomes
}

// checkOne replays every declaration plus every assertion up to and
// including ith, appends a trailing check-sat, and interprets the
// child's response.
func (b *Backend) checkOne(ith int) circuit.Outcome {
	var cmds []Command
	cmds = append(cmds, b.decls...)
	for i := 0; i <= ith; i++ {
		cmds = append(cmds, AssertCmd{Expr: b.negated[i]})
	}
	cmds = append(cmds, CheckSatCmd{})

	outcome, err := b.run(cmds)
	if err != nil {
		return circuit.Unknown
	}
	return outcome
}

// run spawns the solver, streams the transcript to its stdin from a
// background goroutine (so a full stdout buffer can't deadlock the
// write), and reads response lines until the process exits.
func (b *Backend) run(cmds []Command) (circuit.Outcome, error) {
	cmd := exec.Command(b.solverPath, "-in")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return circuit.Unknown, verrors.NewSolver("failed to open solver stdin", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return circuit.Unknown, verrors.NewSolver("failed to open solver stdout", err)
	}
	if err := cmd.Start(); err != nil {
		return circuit.Unknown, verrors.NewSolver("failed to start solver process", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		return NewPrinter(stdin).Write(cmds)
	})

	outcome := circuit.Unknown
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		switch scanner.Text() {
		case "unsat":
			outcome = circuit.Valid
		case "sat":
			outcome = circuit.Invalid
		case "unknown":
			outcome = circuit.Unknown
		}
	}

	writeErr := g.Wait()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return circuit.Unknown, verrors.NewSolver("failed to write SMT-LIB transcript", writeErr)
	}
	if waitErr != nil {
		// the child exited abnormally; any response line already scanned
		// still stands, otherwise Unknown (spec.md §5).
		return outcome, nil
	}
	return outcome, nil
}
