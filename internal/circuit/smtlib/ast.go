// Package smtlib is the concrete SMT-LIB 2 circuit: a tagged expression
// tree, a textual serializer, and a child solver process driver. Any,
// Bool, and Int all collapse to Expr here, matching the source
// specification's Any = Bool = Int = Expr backend.
package smtlib

import "verifyc/internal/circuit"

// Op is a built-in SMT-LIB operator.
type Op int

const (
	OpEq Op = iota
	OpNeq
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpOr
	OpAnd
	OpImplies
	OpNot
	OpIfThenElse
)

// Arity returns the expected argument count, or -1 for "two or more".
func (op Op) Arity() int {
	switch op {
	case OpIfThenElse:
		return 3
	case OpNot:
		return 1
	default:
		return -1
	}
}

func (op Op) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	case OpGt:
		return ">"
	case OpGtEq:
		return ">="
	case OpLt:
		return "<"
	case OpLtEq:
		return "<="
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpImplies:
		return "=>"
	case OpNot:
		return "not"
	case OpIfThenElse:
		return "ite"
	default:
		return "?"
	}
}

// Expr is the SMT-LIB expression tagged union.
type Expr interface{ isExpr() }

// IntegerExpr is an integer literal.
type IntegerExpr struct{ Value uint64 }

func (IntegerExpr) isExpr() {}

// BooleanExpr is a boolean literal.
type BooleanExpr struct{ Value bool }

func (BooleanExpr) isExpr() {}

// VarAccessExpr reads a declared constant by name.
type VarAccessExpr struct{ Name string }

func (VarAccessExpr) isExpr() {}

// OperatorExpr is an n-ary built-in operator application.
type OperatorExpr struct {
	Op   Op
	Args []Expr
}

func (OperatorExpr) isExpr() {}

// ApplyExpr is an application of a user-declared (uninterpreted)
// function. The source specification's Expr grammar has no such variant
// (its translator is left unspecified for function calls); this is the
// minimal addition needed to serialize a StaticInvoke.
type ApplyExpr struct {
	Name string
	Args []Expr
}

func (ApplyExpr) isExpr() {}

// Command is one SMT-LIB top-level command.
type Command interface{ isCommand() }

// DeclareConst declares a nullary constant of the given sort.
type DeclareConst struct {
	Name string
	Sort circuit.Sort
}

func (DeclareConst) isCommand() {}

// DeclareFun declares an uninterpreted function.
type DeclareFun struct {
	Name   string
	Params []circuit.Sort
	Ret    circuit.Sort
}

func (DeclareFun) isCommand() {}

// AssertCmd asserts a boolean expression.
type AssertCmd struct{ Expr Expr }

func (AssertCmd) isCommand() {}

// CheckSatCmd requests a satisfiability decision on everything asserted
// so far.
type CheckSatCmd struct{}

func (CheckSatCmd) isCommand() {}
