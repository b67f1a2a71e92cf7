package smtlib

import (
	"fmt"
	"io"
	"strings"

	"verifyc/internal/circuit"
)

func sortString(s circuit.Sort) string {
	switch s {
	case circuit.SortBool:
		return "Bool"
	case circuit.SortInt:
		return "Int"
	default:
		return "?"
	}
}

// Printer serializes commands in SMT-LIB 2 surface syntax.
type Printer struct {
	out io.Writer
}

// NewPrinter wraps out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Write serializes every command in order.
func (p *Printer) Write(commands []Command) error {
	for _, cmd := range commands {
		if err := p.writeCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeCommand(cmd Command) error {
	switch c := cmd.(type) {
	case DeclareConst:
		_, err := fmt.Fprintf(p.out, "(declare-const %s %s)\n", c.Name, sortString(c.Sort))
		return err
	case DeclareFun:
		params := make([]string, len(c.Params))
		for i, s := range c.Params {
			params[i] = sortString(s)
		}
		_, err := fmt.Fprintf(p.out, "(declare-fun %s (%s) %s)\n", c.Name, strings.Join(params, " "), sortString(c.Ret))
		return err
	case AssertCmd:
		if _, err := io.WriteString(p.out, "(assert "); err != nil {
			return err
		}
		if err := p.writeExpr(c.Expr); err != nil {
			return err
		}
		_, err := io.WriteString(p.out, ")\n")
		return err
	case CheckSatCmd:
		_, err := io.WriteString(p.out, "(check-sat)\n")
		return err
	default:
		return fmt.Errorf("smtlib: unknown command %T", cmd)
	}
}

func (p *Printer) writeExpr(e Expr) error {
	switch v := e.(type) {
	case IntegerExpr:
		_, err := fmt.Fprintf(p.out, "%d", v.Value)
		return err
	case BooleanExpr:
		_, err := fmt.Fprintf(p.out, "%t", v.Value)
		return err
	case VarAccessExpr:
		_, err := io.WriteString(p.out, v.Name)
		return err
	case OperatorExpr:
		if _, err := fmt.Fprintf(p.out, "(%s", v.Op.String()); err != nil {
			return err
		}
		for _, arg := range v.Args {
			if _, err := io.WriteString(p.out, " "); err != nil {
				return err
			}
			if err := p.writeExpr(arg); err != nil {
				return err
			}
		}
		_, err := io.WriteString(p.out, ")")
		return err
	case ApplyExpr:
		if _, err := fmt.Fprintf(p.out, "(%s", v.Name); err != nil {
			return err
		}
		for _, arg := range v.Args {
			if _, err := io.WriteString(p.out, " "); err != nil {
				return err
			}
			if err := p.writeExpr(arg); err != nil {
				return err
			}
		}
		_, err := io.WriteString(p.out, ")")
		return err
	default:
		return fmt.Errorf("smtlib: unknown expr %T", e)
	}
}
