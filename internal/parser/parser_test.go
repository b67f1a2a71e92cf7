package parser

import (
	"testing"

	"verifyc/internal/syntax"
)

func parse(t *testing.T, src string) (*syntax.Arena, []int) {
	t.Helper()
	var decls []int
	var p *Parser
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("unexpected parse panic: %v", r)
			}
		}()
		p = New(src, "test.src")
		decls = p.Parse()
	}()
	return p.Heap, decls
}

func mustFail(t *testing.T, src string) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected parse of %q to panic", src)
		}
	}()
	p := New(src, "test.src")
	p.Parse()
}

// the six worked scenarios (spec.md §8) must at least parse into one
// top-level Function each, with the expected requires/ensures counts.
func TestParseWorkedScenarios(t *testing.T) {
	tests := []struct {
		name           string
		src            string
		wantRequires   int
		wantEnsures    int
		wantReturnsLen int
	}{
		{"f", `function f(uint x) ensures x >= 0 { x }`, 0, 1, 0},
		{"g", `function g(uint x, uint y) { assert x / y == x / y }`, 0, 0, 0},
		{"g2", `function g2(uint x, uint y) requires y != 0 { assert x / y == x / y }`, 1, 0, 0},
		{"h", `function h(uint x, uint y) { assert (y != 0) ==> (x / y == x / y) }`, 0, 0, 0},
		{"s", `function s(uint x, uint y) { assert x - y == x - y }`, 0, 0, 0},
		{"c", `function c(bool b, uint x) { assert if b { x } else { x } == x }`, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heap, decls := parse(t, tt.src)
			if len(decls) != 1 {
				t.Fatalf("expected 1 top-level decl, got %d", len(decls))
			}
			fn, ok := heap.Get(decls[0]).(*syntax.Function)
			if !ok {
				t.Fatalf("expected *syntax.Function, got %T", heap.Get(decls[0]))
			}
			if len(fn.Requires) != tt.wantRequires {
				t.Errorf("requires: got %d, want %d", len(fn.Requires), tt.wantRequires)
			}
			if len(fn.Ensures) != tt.wantEnsures {
				t.Errorf("ensures: got %d, want %d", len(fn.Ensures), tt.wantEnsures)
			}
			if len(fn.Rets) != tt.wantReturnsLen {
				t.Errorf("rets: got %d, want %d", len(fn.Rets), tt.wantReturnsLen)
			}
		})
	}
}

func TestParseReturnsClause(t *testing.T) {
	heap, decls := parse(t, `function f(uint x) returns (uint y) { x }`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	if len(fn.Rets) != 1 || fn.Rets[0].Name != "y" {
		t.Fatalf("expected a single return binding named y, got %+v", fn.Rets)
	}
}

func TestParseRequiresEnsuresEitherOrder(t *testing.T) {
	// ensures before requires must also be accepted (spec.md doesn't fix
	// an order between the two clause kinds).
	heap, decls := parse(t, `function f(uint x) ensures x >= 0 requires x < 100 { x }`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	if len(fn.Requires) != 1 || len(fn.Ensures) != 1 {
		t.Fatalf("expected 1 requires and 1 ensures, got %d/%d", len(fn.Requires), len(fn.Ensures))
	}
}

func TestParsePrecedenceClimbing(t *testing.T) {
	// "*" binds tighter than "+", which binds tighter than "==", which
	// binds tighter than "&&".
	heap, decls := parse(t, `function f(uint a, uint b, uint c) { assert a + b * c == a && true }`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	block := heap.Get(fn.Body).(*syntax.Block)
	assertStmt := heap.Get(block.Stmts[0]).(*syntax.Assert)
	top := heap.Get(assertStmt.E).(*syntax.Binary)
	if top.Op != syntax.LogicalAnd {
		t.Fatalf("expected top-level operator to be &&, got %s", top.Op)
	}
	eq := heap.Get(top.Lhs).(*syntax.Binary)
	if eq.Op != syntax.Equals {
		t.Fatalf("expected lhs of && to be ==, got %s", eq.Op)
	}
	sum := heap.Get(eq.Lhs).(*syntax.Binary)
	if sum.Op != syntax.Add {
		t.Fatalf("expected lhs of == to be +, got %s", sum.Op)
	}
	product := heap.Get(sum.Rhs).(*syntax.Binary)
	if product.Op != syntax.Multiply {
		t.Fatalf("expected rhs of + to be *, got %s", product.Op)
	}
}

func TestParseArrayAndTupleSyntax(t *testing.T) {
	// arrays/tuples must parse even though the translator later rejects
	// them (open question (c)).
	heap, decls := parse(t, `function f([uint] xs, (uint, bool) t) {
		assert xs[0] == xs[0]
		assert xs[0..1] == xs[0..1]
		assert t.0 == t.0
		assert |xs| == |xs|
	}`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if _, ok := heap.Get(fn.Params[0].Type).(*syntax.ArrayType); !ok {
		t.Errorf("expected first param type to be ArrayType, got %T", heap.Get(fn.Params[0].Type))
	}
	if _, ok := heap.Get(fn.Params[1].Type).(*syntax.TupleType); !ok {
		t.Errorf("expected second param type to be TupleType, got %T", heap.Get(fn.Params[1].Type))
	}
}

func TestParseArrayGeneratorAndConstructor(t *testing.T) {
	heap, decls := parse(t, `function f(uint n) { assert [0; n] == [1, 2, 3] }`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	block := heap.Get(fn.Body).(*syntax.Block)
	assertStmt := heap.Get(block.Stmts[0]).(*syntax.Assert)
	eq := heap.Get(assertStmt.E).(*syntax.Binary)
	if _, ok := heap.Get(eq.Lhs).(*syntax.ArrayGenerator); !ok {
		t.Errorf("expected lhs to be ArrayGenerator, got %T", heap.Get(eq.Lhs))
	}
	ctor, ok := heap.Get(eq.Rhs).(*syntax.ArrayConstructor)
	if !ok || len(ctor.Elements) != 3 {
		t.Errorf("expected rhs to be a 3-element ArrayConstructor, got %#v", heap.Get(eq.Rhs))
	}
}

func TestParseStaticInvoke(t *testing.T) {
	heap, decls := parse(t, `function f(uint x) { assert g(x, x) == g(x, x) }`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	block := heap.Get(fn.Body).(*syntax.Block)
	assertStmt := heap.Get(block.Stmts[0]).(*syntax.Assert)
	eq := heap.Get(assertStmt.E).(*syntax.Binary)
	inv, ok := heap.Get(eq.Lhs).(*syntax.StaticInvoke)
	if !ok || inv.Name != "g" || len(inv.Args) != 2 {
		t.Fatalf("expected a 2-arg invocation of g, got %#v", heap.Get(eq.Lhs))
	}
}

func TestParseAssumeStatement(t *testing.T) {
	heap, decls := parse(t, `function f(uint x) { assume x > 0 assert x >= 0 }`)
	fn := heap.Get(decls[0]).(*syntax.Function)
	block := heap.Get(fn.Body).(*syntax.Block)
	if len(block.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Stmts))
	}
	if _, ok := heap.Get(block.Stmts[0]).(*syntax.Assume); !ok {
		t.Errorf("expected first statement to be Assume, got %T", heap.Get(block.Stmts[0]))
	}
	if _, ok := heap.Get(block.Stmts[1]).(*syntax.Assert); !ok {
		t.Errorf("expected second statement to be Assert, got %T", heap.Get(block.Stmts[1]))
	}
}

func TestParseErrorsOnMalformedInput(t *testing.T) {
	tests := []string{
		`function f(uint x { x }`,          // missing ')'
		`function f(uint x) { x`,            // missing '}'
		`function (uint x) { x }`,           // missing function name
		`function f(x) { x }`,               // missing type before param name
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			mustFail(t, src)
		})
	}
}
