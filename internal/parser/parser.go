// Package parser is a hand-rolled recursive-descent, precedence-climbing
// parser. It produces a (*syntax.Arena, []int) pair — the arena and the
// indices of the top-level declarations — exactly the shape spec.md §6
// requires of "the parser interface consumed by the core". The precise
// surface grammar below is not part of the verification core (spec.md
// §1); only the AST shapes it builds are.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"verifyc/internal/lexer"
	"verifyc/internal/syntax"
	"verifyc/internal/verrors"
)

// precedence climbing table, lowest-binds-loosest first, mirroring the
// teacher's own parser.go precedence map.
var precedence = map[lexer.TokenType]int{
	lexer.TokenImplies:     1,
	lexer.TokenOr:          2,
	lexer.TokenAnd:         3,
	lexer.TokenDoubleEqual: 4,
	lexer.TokenNotEqual:    4,
	lexer.TokenLT:          5,
	lexer.TokenGT:          5,
	lexer.TokenLE:          5,
	lexer.TokenGE:          5,
	lexer.TokenPlus:        6,
	lexer.TokenMinus:       6,
	lexer.TokenStar:        7,
	lexer.TokenSlash:       7,
	lexer.TokenPercent:     7,
}

var binops = map[lexer.TokenType]syntax.BinOp{
	lexer.TokenImplies:     syntax.LogicalImplies,
	lexer.TokenOr:          syntax.LogicalOr,
	lexer.TokenAnd:         syntax.LogicalAnd,
	lexer.TokenDoubleEqual: syntax.Equals,
	lexer.TokenNotEqual:    syntax.NotEquals,
	lexer.TokenLT:          syntax.LessThan,
	lexer.TokenGT:          syntax.GreaterThan,
	lexer.TokenLE:          syntax.LessThanOrEquals,
	lexer.TokenGE:          syntax.GreaterThanOrEquals,
	lexer.TokenPlus:        syntax.Add,
	lexer.TokenMinus:       syntax.Subtract,
	lexer.TokenStar:        syntax.Multiply,
	lexer.TokenSlash:       syntax.Divide,
	lexer.TokenPercent:     syntax.Remainder,
}

// Parser holds the token stream and the arena being built.
type Parser struct {
	tokens      []lexer.Token
	current     int
	Heap        *syntax.Arena
	file        string
	sourceLines []string
}

// New constructs a parser over source, attributing file to error
// locations.
func New(source, file string) *Parser {
	scanner := lexer.NewScanner(source, file)
	return &Parser{
		tokens:      scanner.ScanTokens(),
		Heap:        syntax.NewArena(),
		file:        file,
		sourceLines: strings.Split(source, "\n"),
	}
}

// Parse parses every top-level function declaration, returning their
// arena indices. A malformed program raises a *verrors.Error via panic
// (recovered at the CLI boundary, spec.md §7).
func (p *Parser) Parse() (decls []int) {
	for !p.isAtEnd() {
		decls = append(decls, p.function())
	}
	return decls
}

func (p *Parser) function() int {
	p.consume(lexer.TokenFunction, "expect 'function'")
	name := p.consume(lexer.TokenIdent, "expect function name").Lexeme
	p.consume(lexer.TokenLParen, "expect '(' after function name")
	var params []syntax.Binding
	if !p.check(lexer.TokenRParen) {
		params = append(params, p.binding())
		for p.match(lexer.TokenComma) {
			params = append(params, p.binding())
		}
	}
	p.consume(lexer.TokenRParen, "expect ')' after parameters")

	var rets []syntax.Binding
	if p.match(lexer.TokenReturns) {
		p.consume(lexer.TokenLParen, "expect '(' after returns")
		rets = append(rets, p.binding())
		for p.match(lexer.TokenComma) {
			rets = append(rets, p.binding())
		}
		p.consume(lexer.TokenRParen, "expect ')' after return bindings")
	}

	var requires, ensures []int
	for p.match(lexer.TokenRequires) {
		requires = append(requires, p.expression())
	}
	for p.match(lexer.TokenEnsures) {
		ensures = append(ensures, p.expression())
	}
	// requires/ensures may be interleaved in either order in practice;
	// accept a second round of whichever was written second.
	for {
		if p.match(lexer.TokenRequires) {
			requires = append(requires, p.expression())
			continue
		}
		if p.match(lexer.TokenEnsures) {
			ensures = append(ensures, p.expression())
			continue
		}
		break
	}

	body := p.blockExpr()

	return p.Heap.Alloc(&syntax.Function{
		Name:     name,
		Params:   params,
		Rets:     rets,
		Requires: requires,
		Ensures:  ensures,
		Body:     body,
	})
}

func (p *Parser) binding() syntax.Binding {
	t := p.typeExpr()
	name := p.consume(lexer.TokenIdent, "expect binding name").Lexeme
	return syntax.Binding{Type: t, Name: name}
}

func (p *Parser) typeExpr() int {
	switch {
	case p.match(lexer.TokenBool):
		return p.Heap.Alloc(&syntax.BoolType{})
	case p.match(lexer.TokenUint):
		return p.Heap.Alloc(&syntax.IntType{Signed: false})
	case p.match(lexer.TokenInt):
		return p.Heap.Alloc(&syntax.IntType{Signed: true})
	case p.match(lexer.TokenLBracket):
		elem := p.typeExpr()
		p.consume(lexer.TokenRBracket, "expect ']' after array element type")
		return p.Heap.Alloc(&syntax.ArrayType{Elem: elem})
	case p.match(lexer.TokenLParen):
		elems := []int{p.typeExpr()}
		for p.match(lexer.TokenComma) {
			elems = append(elems, p.typeExpr())
		}
		p.consume(lexer.TokenRParen, "expect ')' after tuple type")
		return p.Heap.Alloc(&syntax.TupleType{Elements: elems})
	default:
		p.fail("expect a type")
		panic("unreachable")
	}
}

// blockExpr parses "{" stmt* "}" into a syntax.Block term.
func (p *Parser) blockExpr() int {
	p.consume(lexer.TokenLBrace, "expect '{' to start block")
	var stmts []int
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		stmts = append(stmts, p.statement())
	}
	p.consume(lexer.TokenRBrace, "expect '}' after block")
	return p.Heap.Alloc(&syntax.Block{Stmts: stmts})
}

func (p *Parser) statement() int {
	if p.match(lexer.TokenAssert) {
		return p.Heap.Alloc(&syntax.Assert{E: p.expression()})
	}
	if p.match(lexer.TokenAssume) {
		return p.Heap.Alloc(&syntax.Assume{E: p.expression()})
	}
	return p.expression()
}

func (p *Parser) expression() int {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) int {
	left := p.parsePostfix()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = p.Heap.Alloc(&syntax.Binary{Op: binops[tok.Type], Lhs: left, Rhs: right})
	}
	return left
}

func (p *Parser) parsePostfix() int {
	expr := p.primary()
	for {
		switch {
		case p.match(lexer.TokenLBracket):
			first := p.expression()
			if p.match(lexer.TokenDotDot) {
				end := p.expression()
				p.consume(lexer.TokenRBracket, "expect ']' after array slice")
				expr = p.Heap.Alloc(&syntax.ArraySlice{Src: expr, Start: first, End: end})
			} else {
				p.consume(lexer.TokenRBracket, "expect ']' after array index")
				expr = p.Heap.Alloc(&syntax.ArrayAccess{Src: expr, Index: first})
			}
		case p.match(lexer.TokenDot):
			idxTok := p.consume(lexer.TokenNumber, "expect tuple index after '.'")
			idx, _ := strconv.Atoi(idxTok.Lexeme)
			expr = p.Heap.Alloc(&syntax.TupleAccess{Src: expr, Index: idx})
		default:
			return expr
		}
	}
}

func (p *Parser) primary() int {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokenNumber:
		v, _ := strconv.ParseUint(tok.Lexeme, 10, 64)
		return p.Heap.Alloc(&syntax.IntLiteral{Value: v})
	case lexer.TokenTrue:
		return p.Heap.Alloc(&syntax.BoolLiteral{Value: true})
	case lexer.TokenFalse:
		return p.Heap.Alloc(&syntax.BoolLiteral{Value: false})
	case lexer.TokenIdent:
		if p.match(lexer.TokenLParen) {
			var args []int
			if !p.check(lexer.TokenRParen) {
				args = append(args, p.expression())
				for p.match(lexer.TokenComma) {
					args = append(args, p.expression())
				}
			}
			p.consume(lexer.TokenRParen, "expect ')' after call arguments")
			return p.Heap.Alloc(&syntax.StaticInvoke{Name: tok.Lexeme, Args: args})
		}
		return p.Heap.Alloc(&syntax.VarAccess{Name: tok.Lexeme})
	case lexer.TokenPipe:
		inner := p.expression()
		p.consume(lexer.TokenPipe, "expect '|' to close array length")
		return p.Heap.Alloc(&syntax.ArrayLength{Src: inner})
	case lexer.TokenLParen:
		first := p.expression()
		if p.match(lexer.TokenComma) {
			elems := []int{first}
			elems = append(elems, p.expression())
			for p.match(lexer.TokenComma) {
				elems = append(elems, p.expression())
			}
			p.consume(lexer.TokenRParen, "expect ')' after tuple elements")
			return p.Heap.Alloc(&syntax.TupleConstructor{Elements: elems})
		}
		p.consume(lexer.TokenRParen, "expect ')' after expression")
		return p.Heap.Alloc(&syntax.Braced{E: first})
	case lexer.TokenLBracket:
		if p.check(lexer.TokenRBracket) {
			p.advance()
			return p.Heap.Alloc(&syntax.ArrayConstructor{})
		}
		first := p.expression()
		if p.match(lexer.TokenSemicolon) {
			length := p.expression()
			p.consume(lexer.TokenRBracket, "expect ']' after array generator")
			return p.Heap.Alloc(&syntax.ArrayGenerator{Item: first, Len: length})
		}
		elems := []int{first}
		for p.match(lexer.TokenComma) {
			elems = append(elems, p.expression())
		}
		p.consume(lexer.TokenRBracket, "expect ']' after array elements")
		return p.Heap.Alloc(&syntax.ArrayConstructor{Elements: elems})
	case lexer.TokenIf:
		cond := p.expression()
		tt := p.blockExpr()
		p.consume(lexer.TokenElse, "expect 'else' after if branch")
		ff := p.blockExpr()
		return p.Heap.Alloc(&syntax.IfElse{Cond: cond, Tt: tt, Ff: ff})
	default:
		p.current--
		p.fail(fmt.Sprintf("unexpected token in expression: %q", tok.Lexeme))
		panic("unreachable")
	}
}

// --- token utility belt, in the teacher's style -----------------------

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(fmt.Sprintf("%s (got %q)", msg, p.peek().Lexeme))
	panic("unreachable")
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.tokens[p.current-1]
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

func (p *Parser) fail(message string) {
	tok := p.peek()
	err := verrors.NewInput(message, tok.File, tok.Line, tok.Column)
	if tok.Line > 0 && tok.Line <= len(p.sourceLines) {
		err = err.WithSource(p.sourceLines[tok.Line-1])
	}
	panic(err)
}
