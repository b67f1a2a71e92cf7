// Package env is the verifier's symbol table: variable names bound to
// circuit terms, function names bound to circuit function symbols. The
// two namespaces are disjoint.
package env

import (
	"verifyc/internal/circuit"
	"verifyc/internal/verrors"
)

// Environment grows monotonically over the lifetime of one VC generation
// pass; it never shrinks.
type Environment struct {
	bindings   map[string]circuit.Any
	fnBindings map[string]circuit.Function
}

// New returns an empty environment.
func New() *Environment {
	return &Environment{
		bindings:   make(map[string]circuit.Any),
		fnBindings: make(map[string]circuit.Function),
	}
}

// Alloc binds name to term, shadowing any prior binding of the same name.
func (e *Environment) Alloc(name string, term circuit.Any) {
	e.bindings[name] = term
}

// Lookup returns the term bound to name. An unbound name is a malformed
// upstream AST (missing name resolution), so it panics rather than
// returning an error.
func (e *Environment) Lookup(name string) circuit.Any {
	term, ok := e.bindings[name]
	if !ok {
		panic(verrors.NewInvariant("unbound variable: " + name))
	}
	return term
}

// DeclareFn registers fn under its own name.
func (e *Environment) DeclareFn(fn circuit.Function) {
	e.fnBindings[fn.Name()] = fn
}

// LookupFn returns the function symbol bound to name; panics if unbound.
func (e *Environment) LookupFn(name string) circuit.Function {
	fn, ok := e.fnBindings[name]
	if !ok {
		panic(verrors.NewInvariant("unbound function: " + name))
	}
	return fn
}
