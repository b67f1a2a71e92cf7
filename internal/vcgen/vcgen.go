// Package vcgen walks the syntax arena and threads a path condition
// through every statement and expression, emitting one circuit assertion
// per well-definedness or user-written assertion obligation.
package vcgen

import (
	"fmt"

	"github.com/google/uuid"

	"verifyc/internal/circuit"
	"verifyc/internal/env"
	"verifyc/internal/syntax"
	"verifyc/internal/translator"
	"verifyc/internal/verrors"
)

// Verifier orchestrates one VC-generation pass over a syntactic arena,
// against a fresh circuit backed by backend.
type Verifier struct {
	heap *syntax.Arena
	circ *circuit.Circuit
	env  *env.Environment
	tr   *translator.Translator
}

// New constructs a verifier.
func New(heap *syntax.Arena, backend circuit.Backend) *Verifier {
	circ := circuit.New(backend)
	environment := env.New()
	return &Verifier{
		heap: heap,
		circ: circ,
		env:  environment,
		tr:   translator.New(heap, circ, environment),
	}
}

// ToCircuit walks every top-level declaration under an initially-true
// path condition and returns the populated circuit, ready for Check.
func (v *Verifier) ToCircuit(decls []int) *circuit.Circuit {
	truth := v.circ.FromBool(true)
	for _, d := range decls {
		v.generateTerm(d, truth)
	}
	return v.circ
}

// generateTerm dispatches on the term's shape, returning the possibly
// strengthened path condition. Every recursive call strictly decreases
// the arena index under consideration (the arena invariant), so this
// terminates.
func (v *Verifier) generateTerm(i int, p circuit.Bool) circuit.Bool {
	switch term := v.heap.Get(i).(type) {
	case *syntax.Function:
		return v.generateFunction(term, p)
	case *syntax.Block:
		return v.generateBlock(term, p)
	case *syntax.Assume:
		return v.generateAssume(term, p)
	case *syntax.Assert:
		return v.generateAssert(term, p)
	case *syntax.Binary:
		return v.generateBinary(term, p)
	case *syntax.IfElse:
		return v.generateIfElse(term, p)
	case *syntax.StaticInvoke:
		return v.generateInvoke(term, p)
	case *syntax.Braced:
		v.generateTerm(term.E, p)
		return p
	case *syntax.VarAccess, *syntax.BoolLiteral, *syntax.IntLiteral:
		return p
	default:
		panic(verrors.Unsupported(fmt.Sprintf("%T in statement position", term)))
	}
}

func (v *Verifier) generateFunction(fn *syntax.Function, p circuit.Bool) circuit.Bool {
	bodyP := p
	for _, param := range fn.Params {
		bodyP = bodyP.And(v.declareBinding(param))
	}

	for _, req := range fn.Requires {
		v.generateTerm(req, bodyP)
		bodyP = bodyP.And(v.tr.TranslateBool(req))
	}

	bodyP = v.generateTerm(fn.Body, bodyP)

	if len(fn.Rets) > 1 {
		panic(verrors.Unsupported("multi-return function"))
	}
	if len(fn.Rets) == 1 {
		ret := fn.Rets[0]
		// the return symbol's own well-formedness fact (e.g. non-negativity
		// for uint) is deliberately not assumed here: unlike a parameter, a
		// return binding's value is pinned to bodyVal by the equation below,
		// so asserting ret's well-formedness for free would let a negative
		// bodyVal masquerade as a valid uint result.
		v.declareBinding(ret)
		bodyVal := v.tr.Translate(fn.Body)
		retVal := v.env.Lookup(ret.Name)
		bodyP = bodyP.And(retVal.Eq(bodyVal))
	}

	for _, ens := range fn.Ensures {
		v.generateTerm(ens, bodyP)
		v.circ.Assert(bodyP.Implies(v.tr.TranslateBool(ens)))
	}

	// "Finally declare an uninterpreted function symbol for this function
	// so that later callers can StaticInvoke it" — only meaningful when a
	// return sort exists; a function with no returns clause is simply
	// never invocable (open question (a): the general case is left open).
	if len(fn.Rets) == 1 {
		paramSorts := make([]circuit.Sort, len(fn.Params))
		for i, prm := range fn.Params {
			paramSorts[i] = v.tr.TranslateType(prm.Type)
		}
		retSort := v.tr.TranslateType(fn.Rets[0].Type)
		v.env.DeclareFn(v.circ.DeclareFn(fn.Name, paramSorts, retSort))
	}

	return bodyP
}

// declareBinding declares a fresh backend symbol for b and binds it into
// the environment under its source-level name. The backend symbol itself
// carries a UUID suffix so that two functions reusing a binding name
// never collide in the circuit's single flat declare-const namespace.
//
// It returns the binding's own well-formedness fact: the circuit's Int
// sort carries no sign (spec.md §4.2 distinguishes only Bool and Int),
// so a uint-typed binding only means something narrower than Int if the
// generator conjoins that narrowing itself. Declaring a uint binding
// therefore yields `binding >= 0` (generateFunction conjoins it for
// parameters only); every other case yields `true`.
func (v *Verifier) declareBinding(b syntax.Binding) circuit.Bool {
	symbol := fmt.Sprintf("%s_%s", b.Name, uuid.NewString())
	switch v.tr.TranslateType(b.Type) {
	case circuit.SortBool:
		v.env.Alloc(b.Name, v.circ.DeclareBool(symbol).ToAny())
		return v.circ.FromBool(true)
	case circuit.SortInt:
		term := v.circ.DeclareInt(symbol)
		v.env.Alloc(b.Name, term.ToAny())
		if it, ok := v.heap.Get(b.Type).(*syntax.IntType); ok && !it.Signed {
			return term.Gteq(v.circ.FromUint(0))
		}
		return v.circ.FromBool(true)
	default:
		panic(verrors.NewInvariant("declareBinding: unreachable sort"))
	}
}

func (v *Verifier) generateBlock(b *syntax.Block, p circuit.Bool) circuit.Bool {
	for _, s := range b.Stmts {
		p = v.generateTerm(s, p)
	}
	return p
}

func (v *Verifier) generateAssume(a *syntax.Assume, p circuit.Bool) circuit.Bool {
	v.generateTerm(a.E, p)
	return p.And(v.tr.TranslateBool(a.E))
}

func (v *Verifier) generateAssert(a *syntax.Assert, p circuit.Bool) circuit.Bool {
	v.generateTerm(a.E, p)
	claim := v.tr.TranslateBool(a.E)
	v.circ.Assert(p.Implies(claim))
	return p.And(claim)
}

// generateBinary implements the short-circuit table: the logical
// connectives thread a locally-strengthened path condition into their
// right operand only, unsigned subtraction and division/remainder emit
// their own well-definedness obligation, and every other operator just
// recurses left-then-right under the unchanged P. The path condition
// returned to the caller is always the original P — strengthening here is
// local to the subexpression.
func (v *Verifier) generateBinary(b *syntax.Binary, p circuit.Bool) circuit.Bool {
	switch b.Op {
	case syntax.LogicalAnd, syntax.LogicalImplies:
		v.generateTerm(b.Lhs, p)
		v.generateTerm(b.Rhs, p.And(v.tr.TranslateBool(b.Lhs)))
	case syntax.LogicalOr:
		v.generateTerm(b.Lhs, p)
		v.generateTerm(b.Rhs, p.And(v.tr.TranslateBool(b.Lhs).Not()))
	case syntax.Subtract:
		v.generateTerm(b.Lhs, p)
		v.generateTerm(b.Rhs, p)
		v.circ.Assert(p.Implies(v.tr.TranslateInt(b.Lhs).Gteq(v.tr.TranslateInt(b.Rhs))))
	case syntax.Divide, syntax.Remainder:
		v.generateTerm(b.Lhs, p)
		v.generateTerm(b.Rhs, p)
		v.circ.Assert(p.Implies(v.tr.TranslateInt(b.Rhs).NonZero()))
	default:
		v.generateTerm(b.Lhs, p)
		v.generateTerm(b.Rhs, p)
	}
	return p
}

func (v *Verifier) generateIfElse(n *syntax.IfElse, p circuit.Bool) circuit.Bool {
	v.generateTerm(n.Cond, p)
	cond := v.tr.TranslateBool(n.Cond)
	v.generateTerm(n.Tt, p.And(cond))
	v.generateTerm(n.Ff, p.And(cond.Not()))
	return p
}

func (v *Verifier) generateInvoke(n *syntax.StaticInvoke, p circuit.Bool) circuit.Bool {
	for _, a := range n.Args {
		v.generateTerm(a, p)
	}
	return p
}
