// Package xparser is the precedence-climbing parser that turns a lexer
// token stream into an ast.Expr, grounded on the teacher's
// internal/parser.Parser (parseBinary(minPrec)/parseUnary/parseCall/primary
// shape) but generalized for spec.md §4.3's operator table: comparisons,
// &, +/-, */, right-associative ^ (whose right operand may itself carry a
// leading unary minus), postfix %, scientific-notation/decimal literal
// folding, and juxtaposition (implicit multiplication) as an explicit
// grammar production.
//
// Where the teacher's primary()/consume() panic a *errors.SentraError on a
// malformed program, this parser panics a *xlerror.ErrorValue internally
// and recovers it at the Parse() boundary — the formula engine never lets
// an error escape as a Go panic, only as a returned value.
package xparser

import (
	"strconv"
	"strings"

	"xlfp/internal/ast"
	"xlfp/internal/lexer"
	"xlfp/xlerror"
)

// Parser consumes a fixed token slice and produces one ast.Expr — a
// formula is always a single expression, never a statement sequence.
type Parser struct {
	tokens  []lexer.Token
	current int
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the parser to completion, requiring the whole token stream to
// be consumed (trailing garbage is a syntax error). It never panics: any
// internal panic raised by the recursive-descent helpers below is recovered
// here. A structural syntax error from fail() is reported as #ERROR!; any
// other recovered panic is reported as #VALUE!.
func Parse(tokens []lexer.Token) (expr ast.Expr, err *xlerror.ErrorValue) {
	p := New(tokens)
	defer func() {
		if r := recover(); r != nil {
			expr = nil
			if ev, ok := r.(*xlerror.ErrorValue); ok {
				err = ev
				return
			}
			err = xlerror.ErrValue
		}
	}()
	expr = p.expression()
	if !p.isAtEnd() {
		p.fail()
	}
	return expr, nil
}

// expression is the lowest precedence tier: comparisons.
func (p *Parser) expression() ast.Expr {
	return p.comparison()
}

var comparisonOps = map[lexer.TokenType]bool{
	lexer.TokenEqual: true, lexer.TokenNotEqual: true,
	lexer.TokenGreater: true, lexer.TokenGreaterEq: true,
	lexer.TokenLess: true, lexer.TokenLessEq: true,
}

func (p *Parser) comparison() ast.Expr {
	left := p.concat()
	for comparisonOps[p.peek().Type] {
		op := p.advance()
		right := p.concat()
		left = &ast.Binary{Left: left, Operator: op.Lexeme, Right: right}
	}
	return left
}

func (p *Parser) concat() ast.Expr {
	left := p.addSub()
	for p.check(lexer.TokenAmp) {
		op := p.advance()
		right := p.addSub()
		left = &ast.Binary{Left: left, Operator: op.Lexeme, Right: right}
	}
	return left
}

func (p *Parser) addSub() ast.Expr {
	left := p.mulDiv()
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.advance()
		right := p.mulDiv()
		left = &ast.Binary{Left: left, Operator: op.Lexeme, Right: right}
	}
	return left
}

func (p *Parser) mulDiv() ast.Expr {
	left := p.implicitMul()
	for p.check(lexer.TokenMult) || p.check(lexer.TokenDiv) {
		op := p.advance()
		right := p.implicitMul()
		left = &ast.Binary{Left: left, Operator: op.Lexeme, Right: right}
	}
	return left
}

// implicitMul is spec.md §4.3 point 9's juxtaposition rule: a factor
// immediately followed by another factor-starting token, with no explicit
// operator between them, is implicit multiplication — "5(a1)" ≡ "5*(a1)".
// It sits between */ and unary/power so that an explicit "*"/"/" always
// still separates two juxtaposed runs correctly (mulDiv calls this for
// each of its own operands).
func (p *Parser) implicitMul() ast.Expr {
	left := p.unarySigned()
	for p.startsFactor(p.peek().Type) {
		right := p.unarySigned()
		left = &ast.Binary{Left: left, Operator: "*", Right: right}
	}
	return left
}

// startsFactor reports whether t can open a new juxtaposed factor — every
// primary-starting terminal, deliberately excluding any operator or
// separator so "a - b" is never misread as "a" juxtaposed with "-b".
func (p *Parser) startsFactor(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenNumber, lexer.TokenDecimal, lexer.TokenString, lexer.TokenXLError,
		lexer.TokenAbsCell, lexer.TokenMixedCell, lexer.TokenRelCell, lexer.TokenVariable,
		lexer.TokenFunction, lexer.TokenFunctionFixed3, lexer.TokenLParen, lexer.TokenLBrace:
		return true
	default:
		return false
	}
}

// unarySigned parses an optional leading "-" wrapping a power expression.
// Unary minus binds *looser* than "^": "-2^2" parses as -(2^2), per
// spec.md §4.3's worked example. The power production below recurses back
// into unarySigned for its own right-hand operand, which is what lets
// "2^-2" bind the minus to the exponent alone.
func (p *Parser) unarySigned() ast.Expr {
	if p.check(lexer.TokenMinus) {
		p.advance()
		operand := p.unarySigned()
		return &ast.Unary{Operator: "-", Operand: operand}
	}
	return p.power()
}

// power is right-associative; its right operand is parsed by unarySigned
// (not power directly) so a signed exponent like "2^-2-1" is legal without
// letting the trailing "-1" get folded into the exponent.
func (p *Parser) power() ast.Expr {
	left := p.postfix()
	if p.check(lexer.TokenCaret) {
		p.advance()
		right := p.unarySigned()
		return &ast.Binary{Left: left, Operator: "^", Right: right}
	}
	return left
}

// postfix handles the trailing "%" operator, which binds tighter than
// anything above it: "50%" is one unit before juxtaposition or "^" ever
// see it.
func (p *Parser) postfix() ast.Expr {
	expr := p.primary()
	for p.check(lexer.TokenPercent) {
		p.advance()
		expr = &ast.Percent{Operand: expr}
	}
	return expr
}

func (p *Parser) primary() ast.Expr {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokenNumber:
		return p.finishNumber(tok.Lexeme)
	case lexer.TokenDecimal:
		return p.finishLeadingDecimal()
	case lexer.TokenString:
		return &ast.Text{Value: tok.Lexeme}
	case lexer.TokenXLError:
		return &ast.ErrorLit{Code: xlerror.Code(tok.Lexeme)}
	case lexer.TokenAbsCell, lexer.TokenMixedCell, lexer.TokenRelCell:
		return parseCellRef(tok)
	case lexer.TokenVariable:
		return &ast.Variable{Name: tok.Lexeme}
	case lexer.TokenFunction, lexer.TokenFunctionFixed3:
		return p.finishCall(strings.ToUpper(tok.Lexeme))
	case lexer.TokenLParen:
		inner := p.expression()
		p.consume(lexer.TokenRParen)
		return inner
	case lexer.TokenLBrace:
		return p.finishArray()
	default:
		p.fail()
		return nil // unreachable; fail always panics
	}
}

// finishNumber assembles an integer literal's optional decimal tail and
// optional scientific-notation exponent (spec.md §4.3 point 8: these fold
// into one Number node at parse time, never left for the runtime to see as
// separate tokens).
func (p *Parser) finishNumber(whole string) ast.Expr {
	text := whole
	if p.check(lexer.TokenDecimal) {
		p.advance()
		frac := ""
		if p.check(lexer.TokenNumber) {
			frac = p.advance().Lexeme
		}
		text += "." + frac
	}
	return p.finishExponent(text)
}

// finishLeadingDecimal handles a literal beginning with "." (no integer
// part), e.g. ".5".
func (p *Parser) finishLeadingDecimal() ast.Expr {
	frac := ""
	if p.check(lexer.TokenNumber) {
		frac = p.advance().Lexeme
	}
	return p.finishExponent("0." + frac)
}

func (p *Parser) finishExponent(mantissa string) ast.Expr {
	n, err := strconv.ParseFloat(mantissa, 64)
	if err != nil {
		p.fail()
	}
	if !p.check(lexer.TokenSciE) {
		return &ast.Number{Value: n}
	}
	p.advance()
	sign := 1.0
	if p.check(lexer.TokenMinus) {
		p.advance()
		sign = -1
	} else if p.check(lexer.TokenPlus) {
		p.advance()
	}
	if !p.check(lexer.TokenNumber) {
		p.fail()
	}
	expDigits := p.advance().Lexeme
	exp, err := strconv.ParseFloat(expDigits, 64)
	if err != nil {
		p.fail()
	}
	return &ast.Number{Value: n * pow10(sign*exp)}
}

func pow10(exp float64) float64 {
	result := 1.0
	neg := exp < 0
	if neg {
		exp = -exp
	}
	for i := 0; i < int(exp); i++ {
		result *= 10
	}
	if neg {
		return 1 / result
	}
	return result
}

// finishCall parses a call's argument list. Per spec.md §4.3 "Argument
// lists", slots are separated by "," or ";" interchangeably; a slot
// immediately followed by a separator (or the closing paren) with no
// expression between is an ast.Blank, and a run of N separators always
// yields N+1 slots — including a call whose parens contain nothing but
// separators, e.g. "SUBSTITUTE(;;;)" (3 separators, 4 blank slots).
// A genuinely empty call "F()" yields zero slots, not one blank.
func (p *Parser) finishCall(name string) ast.Expr {
	p.consume(lexer.TokenLParen)
	var args []ast.Expr
	if !p.check(lexer.TokenRParen) {
		args = append(args, p.argSlot())
		for p.matchSeparator() {
			args = append(args, p.argSlot())
		}
	}
	p.consume(lexer.TokenRParen)
	return &ast.Call{Name: name, Args: args}
}

func (p *Parser) matchSeparator() bool {
	if p.check(lexer.TokenComma) || p.check(lexer.TokenSemicolon) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) argSlot() ast.Expr {
	if p.check(lexer.TokenComma) || p.check(lexer.TokenSemicolon) || p.check(lexer.TokenRParen) {
		return &ast.Blank{}
	}
	return p.expression()
}

// finishArray parses a rank-1 array literal "{a; b; c}". Elements may be
// separated by ";", "," or the reserved "\" token — spec.md treats all
// three as equivalent row/element separators in the rank-1 case — and, like
// a call's argument list, a run of separators with nothing between them is
// an ast.Blank slot (TEXTJOIN's seed scenarios rely on this: `{"1",,"2","3"}`
// carries a blank between the first and second elements).
func (p *Parser) finishArray() ast.Expr {
	var elements []ast.Expr
	if !p.check(lexer.TokenRBrace) {
		elements = append(elements, p.arraySlot())
		for p.matchArraySeparator() {
			elements = append(elements, p.arraySlot())
		}
	}
	p.consume(lexer.TokenRBrace)
	return &ast.Array{Elements: elements}
}

func (p *Parser) matchArraySeparator() bool {
	if p.check(lexer.TokenSemicolon) || p.check(lexer.TokenComma) || p.check(lexer.TokenBackslash) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) arraySlot() ast.Expr {
	if p.check(lexer.TokenSemicolon) || p.check(lexer.TokenComma) || p.check(lexer.TokenBackslash) || p.check(lexer.TokenRBrace) {
		return &ast.Blank{}
	}
	return p.expression()
}

// parseCellRef splits a cell-reference lexeme (e.g. "A1", "$A$1", "B$7")
// into its column letters and row number, recording which half carried a
// "$".
func parseCellRef(tok lexer.Token) *ast.CellRef {
	s := tok.Lexeme
	colAbs := false
	if strings.HasPrefix(s, "$") {
		colAbs = true
		s = s[1:]
	}
	i := 0
	for i < len(s) && isLetterByte(s[i]) {
		i++
	}
	column := s[:i]
	rest := s[i:]
	rowAbs := false
	if strings.HasPrefix(rest, "$") {
		rowAbs = true
		rest = rest[1:]
	}
	row, _ := strconv.Atoi(rest)
	return &ast.CellRef{Name: tok.Lexeme, Column: strings.ToUpper(column), Row: row, ColAbs: colAbs, RowAbs: rowAbs}
}

func isLetterByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *Parser) consume(t lexer.TokenType) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail()
	return lexer.Token{}
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

// fail aborts parsing with a structural-syntax error. Like the teacher's
// consume()/primary(), this is a panic internally — recovered at Parse().
// spec.md §7 reserves #ERROR! for a structural parse failure, distinct from
// #VALUE! (a well-formed call with the wrong argument count, caught at
// evaluation time by the registry instead).
func (p *Parser) fail() {
	panic(xlerror.ErrGeneric.Withf("malformed formula near " + p.peek().String()))
}
