// Package ast is the formula expression tree: a visitor-pattern Expr
// hierarchy trimmed from the teacher's statement-and-expression language
// down to the single production spec.md's grammar actually needs — a
// formula is one expression, never a sequence of statements.
package ast

import "xlfp/xlerror"

// Expr is any node in the formula tree. Visit dispatches to the matching
// Visitor method, mirroring the teacher's Expr.Accept(ExprVisitor) shape.
type Expr interface {
	Visit(v Visitor) Result
}

// Result is what evaluating a node produces. It's declared in this package
// (rather than importing runtime's richer Value type here) to keep ast
// free of a dependency on the runtime/value packages; runtime's Evaluator
// satisfies Visitor by returning its own value.Value wrapped as a Result.
type Result interface{}

// Visitor is implemented by exactly one consumer in this module —
// runtime.Evaluator — the way the teacher's compiler.Compiler is the one
// production implementation of parser.ExprVisitor.
type Visitor interface {
	VisitNumber(n *Number) Result
	VisitText(t *Text) Result
	VisitErrorLit(e *ErrorLit) Result
	VisitBlank(b *Blank) Result
	VisitArray(a *Array) Result
	VisitVariable(v *Variable) Result
	VisitCellRef(c *CellRef) Result
	VisitBinary(b *Binary) Result
	VisitUnary(u *Unary) Result
	VisitPercent(p *Percent) Result
	VisitCall(c *Call) Result
}

// Number is a numeric literal, including scientific-notation and decimal
// literals already folded by the parser (spec.md §4.3 point 8).
type Number struct{ Value float64 }

func (n *Number) Visit(v Visitor) Result { return v.VisitNumber(n) }

// Text is a string literal.
type Text struct{ Value string }

func (t *Text) Visit(v Visitor) Result { return v.VisitText(t) }

// ErrorLit is a literal XLERROR token, e.g. #REF!.
type ErrorLit struct{ Code xlerror.Code }

func (e *ErrorLit) Visit(v Visitor) Result { return v.VisitErrorLit(e) }

// Blank is an elided argument slot arising from adjacent separators
// (spec.md §4.3, "Argument lists").
type Blank struct{}

func (b *Blank) Visit(v Visitor) Result { return v.VisitBlank(b) }

// Array is a rank-1 array literal `{a; b; c}`.
type Array struct{ Elements []Expr }

func (a *Array) Visit(v Visitor) Result { return v.VisitArray(a) }

// Variable is a plain identifier looked up in the binding map.
type Variable struct{ Name string }

func (va *Variable) Visit(v Visitor) Result { return v.VisitVariable(va) }

// CellRef is a syntactic cell address. Name carries the original source
// spelling (e.g. "A1", "$A$1") since spec.md's binding-first resolution
// rule needs to probe the binding map under that exact key before falling
// back to the cell resolver.
type CellRef struct {
	Name     string
	Column   string
	Row      int
	ColAbs   bool
	RowAbs   bool
}

func (c *CellRef) Visit(v Visitor) Result { return v.VisitCellRef(c) }

// Binary is any binary operator: comparison, &, +, -, *, /, ^.
type Binary struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (b *Binary) Visit(v Visitor) Result { return v.VisitBinary(b) }

// Unary is a prefix operator; only "-" appears in spec.md's grammar.
type Unary struct {
	Operator string
	Operand  Expr
}

func (u *Unary) Visit(v Visitor) Result { return v.VisitUnary(u) }

// Percent is the postfix %, x% ≡ x/100.
type Percent struct{ Operand Expr }

func (p *Percent) Visit(v Visitor) Result { return v.VisitPercent(p) }

// Call is a function invocation. Implicit multiplication (spec.md §4.3
// point 9) is expressed at parse time as a Binary "*", not as a Call —
// Call is reserved for genuine FUNCTION(args) syntax.
//
// Args always has one entry per argument slot, including blanks (a slot
// between two separators, or at the start/end of the list, is a *Blank
// node) — Arity checking in the registry counts len(Args) directly.
type Call struct {
	Name string
	Args []Expr
}

func (c *Call) Visit(v Visitor) Result { return v.VisitCall(c) }
