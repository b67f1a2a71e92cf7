package smtlib

import (
	"strings"
	"testing"

	"verifyc/internal/circuit"
)

func printAll(t *testing.T, cmds []Command) string {
	t.Helper()
	var sb strings.Builder
	if err := NewPrinter(&sb).Write(cmds); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	return sb.String()
}

func TestPrinterDeclareConst(t *testing.T) {
	got := printAll(t, []Command{
		DeclareConst{Name: "x_1", Sort: circuit.SortInt},
		DeclareConst{Name: "b_1", Sort: circuit.SortBool},
	})
	want := "(declare-const x_1 Int)\n(declare-const b_1 Bool)\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrinterDeclareFun(t *testing.T) {
	got := printAll(t, []Command{
		DeclareFun{Name: "f", Params: []circuit.Sort{circuit.SortInt, circuit.SortInt}, Ret: circuit.SortBool},
	})
	want := "(declare-fun f (Int Int) Bool)\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrinterAssertAndCheckSat(t *testing.T) {
	got := printAll(t, []Command{
		AssertCmd{Expr: OperatorExpr{Op: OpGtEq, Args: []Expr{VarAccessExpr{Name: "x"}, IntegerExpr{Value: 0}}}},
		CheckSatCmd{},
	})
	want := "(assert (>= x 0))\n(check-sat)\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrinterNestedOperatorsAndApply(t *testing.T) {
	got := printAll(t, []Command{
		AssertCmd{Expr: OperatorExpr{
			Op: OpImplies,
			Args: []Expr{
				OperatorExpr{Op: OpNeq, Args: []Expr{VarAccessExpr{Name: "y"}, IntegerExpr{Value: 0}}},
				ApplyExpr{Name: "f", Args: []Expr{VarAccessExpr{Name: "x"}, VarAccessExpr{Name: "y"}}},
			},
		}},
	})
	want := "(assert (=> (!= y 0) (f x y)))\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrinterIfThenElseAndNot(t *testing.T) {
	got := printAll(t, []Command{
		AssertCmd{Expr: OperatorExpr{
			Op: OpIfThenElse,
			Args: []Expr{
				OperatorExpr{Op: OpNot, Args: []Expr{BooleanExpr{Value: true}}},
				IntegerExpr{Value: 1},
				IntegerExpr{Value: 2},
			},
		}},
	})
	want := "(assert (ite (not true) 1 2))\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// Arity reports the fixed counts for Not (1) and IfThenElse (3) and -1
// for a variadic operator such as Add.
func TestOpArityFixedAndVariadic(t *testing.T) {
	if OpNot.Arity() != 1 {
		t.Errorf("OpNot arity: got %d, want 1", OpNot.Arity())
	}
	if OpIfThenElse.Arity() != 3 {
		t.Errorf("OpIfThenElse arity: got %d, want 3", OpIfThenElse.Arity())
	}
	if OpAdd.Arity() != -1 {
		t.Errorf("OpAdd arity: got %d, want -1 (variadic)", OpAdd.Arity())
	}
}
