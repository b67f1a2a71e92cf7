// Package circuit is a backend-agnostic builder of logical and arithmetic
// terms, plus a collector of assertions to be checked. It is the single
// place a concrete solver plugs in: everything upstream (translator,
// vcgen) talks only to the Bool/Int/Any/Function wrapper types below,
// never to a concrete backend's own term representation.
package circuit

// Sort is one of the circuit's two built-in sorts.
type Sort int

const (
	SortBool Sort = iota
	SortInt
)

func (s Sort) String() string {
	switch s {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int"
	default:
		return "?"
	}
}

// Outcome is the per-obligation result of a Check call.
type Outcome int

const (
	// Valid means the obligation's negation is unsatisfiable.
	Valid Outcome = iota
	// Invalid means the obligation's negation is satisfiable.
	Invalid
	// Unknown means the backend returned no decision (including: the
	// solver subprocess failed to spawn, or exited without printing a
	// decision).
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "Valid"
	case Invalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Term is an opaque handle minted and interpreted only by the Backend
// that created it. Wrapper types in this package never inspect a Term's
// concrete representation; they only ever pass it back to the Backend
// that produced it.
type Term interface{}

// FuncSymbol is an opaque handle to a declared uninterpreted function,
// analogous to Term but for function declarations.
type FuncSymbol interface{}

// Backend is the capability interface a concrete circuit implementation
// (e.g. the SMT-LIB backend) must satisfy. Every operation here
// corresponds to one method of Circuit or of the Bool/Int/Any/Function
// wrapper types below; the wrapper types exist purely to make those operations
// sort-safe to call from Go without generics.
type Backend interface {
	BoolType() Sort
	IntType() Sort

	FromBool(v bool) Term
	FromUint(v uint64) Term

	DeclareBool(name string) Term
	DeclareInt(name string) Term
	DeclareFn(name string, params []Sort, ret Sort) FuncSymbol

	Not(a Term) Term
	And(a, b Term) Term
	Or(a, b Term) Term
	Implies(a, b Term) Term
	Ite(cond, t, f Term) Term

	Neg(a Term) Term
	Add(a, b Term) Term
	Sub(a, b Term) Term
	Mul(a, b Term) Term
	Div(a, b Term) Term
	Rem(a, b Term) Term
	Lt(a, b Term) Term
	Lteq(a, b Term) Term
	Gt(a, b Term) Term
	Gteq(a, b Term) Term
	NonZero(a Term) Term

	Eq(a, b Term) Term
	Neq(a, b Term) Term

	FuncName(fn FuncSymbol) string
	Invoke(fn FuncSymbol, args []Term) Term

	// Assert records claim as an obligation: the backend stores its
	// negation and checks that negation for unsatisfiability later.
	Assert(claim Term)
	// Check returns one Outcome per prior Assert call, in insertion
	// order.
	Check() []Outcome
}

// Circuit is the mutable collector the verifier builds against: it owns a
// Backend and exposes the sort-safe wrapper types.
type Circuit struct {
	backend Backend
}

// New wraps an already-constructed Backend.
func New(backend Backend) *Circuit {
	return &Circuit{backend: backend}
}

func (c *Circuit) BoolType() Sort { return c.backend.BoolType() }
func (c *Circuit) IntType() Sort  { return c.backend.IntType() }

func (c *Circuit) FromBool(v bool) Bool { return Bool{c: c, term: c.backend.FromBool(v)} }
func (c *Circuit) FromUint(v uint64) Int { return Int{c: c, term: c.backend.FromUint(v)} }

func (c *Circuit) DeclareBool(name string) Bool {
	return Bool{c: c, term: c.backend.DeclareBool(name)}
}

func (c *Circuit) DeclareInt(name string) Int {
	return Int{c: c, term: c.backend.DeclareInt(name)}
}

func (c *Circuit) DeclareFn(name string, params []Sort, ret Sort) Function {
	return Function{c: c, sym: c.backend.DeclareFn(name, params, ret)}
}

// Assert adds claim as an obligation to be checked.
func (c *Circuit) Assert(claim Bool) { c.backend.Assert(claim.term) }

// Check returns one Outcome per prior Assert call, in insertion order.
func (c *Circuit) Check() []Outcome { return c.backend.Check() }

// --- Any ----------------------------------------------------------------

// Any is the erased sort: it carries a hidden concrete sort and supports
// only equality and coercion back to a specific sort.
type Any struct {
	c    *Circuit
	term Term
}

func (a Any) Eq(other Any) Bool  { return Bool{c: a.c, term: a.c.backend.Eq(a.term, other.term)} }
func (a Any) Neq(other Any) Bool { return Bool{c: a.c, term: a.c.backend.Neq(a.term, other.term)} }

// --- Bool -----------------------------------------------------------------

// Bool is a boolean-sorted term.
type Bool struct {
	c    *Circuit
	term Term
}

// ToAny erases Bool's sort.
func (b Bool) ToAny() Any { return Any{c: b.c, term: b.term} }

// BoolFromAny recovers a Bool view of an erased term. Sort correctness is
// the caller's responsibility — by construction, the translator only
// calls this where the AST shape guarantees the underlying term is
// boolean-sorted (see internal/translator).
func BoolFromAny(a Any) Bool { return Bool{c: a.c, term: a.term} }

func (b Bool) Not() Bool { return Bool{c: b.c, term: b.c.backend.Not(b.term)} }
func (b Bool) And(other Bool) Bool {
	return Bool{c: b.c, term: b.c.backend.And(b.term, other.term)}
}
func (b Bool) Or(other Bool) Bool {
	return Bool{c: b.c, term: b.c.backend.Or(b.term, other.term)}
}
func (b Bool) Implies(other Bool) Bool {
	return Bool{c: b.c, term: b.c.backend.Implies(b.term, other.term)}
}

// Ite builds an if-then-else term over two erased branches.
func (b Bool) Ite(t, f Any) Any {
	return Any{c: b.c, term: b.c.backend.Ite(b.term, t.term, f.term)}
}

// --- Int --------------------------------------------------------------

// Int is an integer-sorted term. Arithmetic is over mathematical
// integers: no overflow, no finite width.
type Int struct {
	c    *Circuit
	term Term
}

// ToAny erases Int's sort.
func (i Int) ToAny() Any { return Any{c: i.c, term: i.term} }

// IntFromAny recovers an Int view of an erased term; see BoolFromAny.
func IntFromAny(a Any) Int { return Int{c: a.c, term: a.term} }

func (i Int) NonZero() Bool { return Bool{c: i.c, term: i.c.backend.NonZero(i.term)} }
func (i Int) Lt(o Int) Bool   { return Bool{c: i.c, term: i.c.backend.Lt(i.term, o.term)} }
func (i Int) Lteq(o Int) Bool { return Bool{c: i.c, term: i.c.backend.Lteq(i.term, o.term)} }
func (i Int) Gt(o Int) Bool   { return Bool{c: i.c, term: i.c.backend.Gt(i.term, o.term)} }
func (i Int) Gteq(o Int) Bool { return Bool{c: i.c, term: i.c.backend.Gteq(i.term, o.term)} }

func (i Int) Neg() Int         { return Int{c: i.c, term: i.c.backend.Neg(i.term)} }
func (i Int) Add(o Int) Int { return Int{c: i.c, term: i.c.backend.Add(i.term, o.term)} }
func (i Int) Sub(o Int) Int { return Int{c: i.c, term: i.c.backend.Sub(i.term, o.term)} }
func (i Int) Mul(o Int) Int { return Int{c: i.c, term: i.c.backend.Mul(i.term, o.term)} }
func (i Int) Div(o Int) Int { return Int{c: i.c, term: i.c.backend.Div(i.term, o.term)} }
func (i Int) Rem(o Int) Int { return Int{c: i.c, term: i.c.backend.Rem(i.term, o.term)} }

// --- Function -----------------------------------------------------------

// Function is an uninterpreted function symbol declared in the circuit.
type Function struct {
	c   *Circuit
	sym FuncSymbol
}

func (f Function) Name() string { return f.c.backend.FuncName(f.sym) }

// Invoke constructs a term representing an invocation of f with args.
func (f Function) Invoke(args []Any) Any {
	terms := make([]Term, len(args))
	for i, a := range args {
		terms[i] = a.term
	}
	return Any{c: f.c, term: f.c.backend.Invoke(f.sym, terms)}
}
