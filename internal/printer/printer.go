// Package printer walks syntax-arena terms back into source text. It
// backs the "compile" CLI subcommand only; it is not part of the
// verification core and performs no sort checking of its own.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"verifyc/internal/syntax"
)

// Printer accumulates source text for one compilation unit.
type Printer struct {
	heap   *syntax.Arena
	out    strings.Builder
	indent int
}

// New constructs a printer over heap.
func New(heap *syntax.Arena) *Printer {
	return &Printer{heap: heap}
}

func (p *Printer) write(s string)   { p.out.WriteString(s) }
func (p *Printer) writeln(s string) { p.write(s); p.write("\n") }

func (p *Printer) writeIndent() {
	p.write(strings.Repeat("    ", p.indent))
}

// Done returns the accumulated text.
func (p *Printer) Done() string { return p.out.String() }

// Print appends the rendering of every declaration index in decls,
// separated by blank lines.
func (p *Printer) Print(decls []int) string {
	for i, d := range decls {
		if i > 0 {
			p.writeln("")
		}
		p.generate(d)
		p.writeln("")
	}
	return p.Done()
}

func (p *Printer) generate(i int) {
	switch v := p.heap.Get(i).(type) {
	case *syntax.Function:
		p.genFunction(v)
	case *syntax.Assert:
		p.write("assert ")
		p.generate(v.E)
	case *syntax.Assume:
		p.write("assume ")
		p.generate(v.E)
	case *syntax.Block:
		p.genBlock(v)
	case *syntax.Binary:
		p.generate(v.Lhs)
		p.write(" " + v.Op.String() + " ")
		p.generate(v.Rhs)
	case *syntax.Braced:
		p.write("(")
		p.generate(v.E)
		p.write(")")
	case *syntax.IfElse:
		p.write("if ")
		p.generate(v.Cond)
		p.write(" ")
		p.generate(v.Tt)
		p.write(" else ")
		p.generate(v.Ff)
	case *syntax.VarAccess:
		p.write(v.Name)
	case *syntax.StaticInvoke:
		p.write(v.Name)
		p.write("(")
		p.genList(v.Args)
		p.write(")")
	case *syntax.BoolLiteral:
		if v.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case *syntax.IntLiteral:
		p.write(strconv.FormatUint(v.Value, 10))
	case *syntax.TupleConstructor:
		p.write("(")
		p.genList(v.Elements)
		p.write(")")
	case *syntax.TupleAccess:
		p.generate(v.Src)
		p.write(".")
		p.write(strconv.Itoa(v.Index))
	case *syntax.ArrayConstructor:
		p.write("[")
		p.genList(v.Elements)
		p.write("]")
	case *syntax.ArrayAccess:
		p.generate(v.Src)
		p.write("[")
		p.generate(v.Index)
		p.write("]")
	case *syntax.ArraySlice:
		p.generate(v.Src)
		p.write("[")
		p.generate(v.Start)
		p.write("..")
		p.generate(v.End)
		p.write("]")
	case *syntax.ArrayGenerator:
		p.write("[")
		p.generate(v.Item)
		p.write("; ")
		p.generate(v.Len)
		p.write("]")
	case *syntax.ArrayLength:
		p.write("|")
		p.generate(v.Src)
		p.write("|")
	case *syntax.BoolType:
		p.write("bool")
	case *syntax.IntType:
		if v.Signed {
			p.write("int")
		} else {
			p.write("uint")
		}
	case *syntax.TupleType:
		p.write("(")
		p.genList(v.Elements)
		p.write(")")
	case *syntax.ArrayType:
		p.write("[")
		p.generate(v.Elem)
		p.write("]")
	default:
		p.write(fmt.Sprintf("/* unprintable: %T */", v))
	}
}

func (p *Printer) genList(indices []int) {
	for i, idx := range indices {
		if i != 0 {
			p.write(", ")
		}
		p.generate(idx)
	}
}

func (p *Printer) genFunction(fn *syntax.Function) {
	p.write("function ")
	p.write(fn.Name)
	p.write("(")
	p.genBindings(fn.Params)
	p.write(")")
	if len(fn.Rets) > 0 {
		p.write(" returns (")
		p.genBindings(fn.Rets)
		p.write(")")
	}
	for _, req := range fn.Requires {
		p.write(" requires ")
		p.generate(req)
	}
	for _, ens := range fn.Ensures {
		p.write(" ensures ")
		p.generate(ens)
	}
	p.write(" ")
	p.generate(fn.Body)
}

func (p *Printer) genBindings(bindings []syntax.Binding) {
	for i, b := range bindings {
		if i != 0 {
			p.write(", ")
		}
		p.generate(b.Type)
		p.write(" ")
		p.write(b.Name)
	}
}

func (p *Printer) genBlock(b *syntax.Block) {
	p.writeln("{")
	p.indent++
	for _, s := range b.Stmts {
		p.writeIndent()
		p.generate(s)
		p.writeln("")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}
