// Package runtime walks an ast.Expr and produces a value.Value, broadcasting
// scalar operations across rank-1 arrays as spec.md §4.4 requires.
//
// Evaluator implements ast.Visitor directly the way the teacher's
// internal/compiler.Compiler implements parser.ExprVisitor to walk the same
// kind of tree — except Evaluator interprets straight to a value.Value
// instead of emitting bytecode for a separate VM to run.
package runtime

import (
	"math"
	"strings"

	"xlfp/internal/ast"
	"xlfp/registry"
	"xlfp/value"
	"xlfp/xlerror"
)

// CellResolver resolves a syntactic cell reference to a Value. Per spec.md
// §6 the default (nil Resolver passed to New) always answers Blank.
type CellResolver func(ref value.CellRef) value.Value

func defaultResolver(value.CellRef) value.Value { return value.Blank() }

// Evaluator is built fresh per Thunk.Invoke call: it is cheap (one binding
// map, one resolver, one registry pointer) and holds no state that would
// make concurrent invocation of the same Thunk unsafe.
type Evaluator struct {
	Bindings map[string]value.Value
	Resolver CellResolver
	Registry *registry.Registry
}

func New(bindings map[string]value.Value, resolver CellResolver, reg *registry.Registry) *Evaluator {
	if resolver == nil {
		resolver = defaultResolver
	}
	return &Evaluator{Bindings: bindings, Resolver: resolver, Registry: reg}
}

// Eval walks expr and returns its Value — the single entry point Thunk.Invoke
// calls.
func (e *Evaluator) Eval(expr ast.Expr) value.Value {
	return expr.Visit(e).(value.Value)
}

func (e *Evaluator) VisitNumber(n *ast.Number) ast.Result { return value.Number(n.Value) }
func (e *Evaluator) VisitText(t *ast.Text) ast.Result     { return value.Text(t.Value) }
func (e *Evaluator) VisitBlank(*ast.Blank) ast.Result     { return value.Blank() }

func (e *Evaluator) VisitErrorLit(lit *ast.ErrorLit) ast.Result {
	return value.Error(xlerror.FromCode(lit.Code))
}

// VisitVariable resolves a bare identifier against the binding map, falling
// back to the TRUE/FALSE boolean literals the grammar has no keyword for
// (spec.md §4.1 gives the registry no room for a zero-arity "literal", so
// these two names resolve here instead, but only once the binding map has
// had first refusal). An unbound name is otherwise #NAME?, spec.md §7's
// "function name not in registry" sibling case for plain variables.
func (e *Evaluator) VisitVariable(v *ast.Variable) ast.Result {
	if val, ok := e.lookupBinding(v.Name); ok {
		return val
	}
	switch strings.ToUpper(v.Name) {
	case "TRUE":
		return value.Bool(true)
	case "FALSE":
		return value.Bool(false)
	}
	return value.Error(xlerror.ErrName)
}

// VisitCellRef implements spec.md §4.3's binding-first resolution rule: a
// name like "A1" that also exists in the binding map resolves as a variable;
// only otherwise does it fall through to the injected CellResolver.
func (e *Evaluator) VisitCellRef(c *ast.CellRef) ast.Result {
	if val, ok := e.lookupBinding(c.Name); ok {
		return val
	}
	ref := value.CellRef{Column: c.Column, Row: c.Row, ColAbs: c.ColAbs, RowAbs: c.RowAbs}
	return e.Resolver(ref)
}

// lookupBinding matches spec.md §6's "keys are case-insensitively matched
// but preserved as given": try the exact spelling first, then scan for a
// case-insensitive match.
func (e *Evaluator) lookupBinding(name string) (value.Value, bool) {
	if v, ok := e.Bindings[name]; ok {
		return v, true
	}
	for k, v := range e.Bindings {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return value.Value{}, false
}

func (e *Evaluator) VisitArray(a *ast.Array) ast.Result {
	elems := make([]value.Value, len(a.Elements))
	for i, el := range a.Elements {
		v := e.Eval(el)
		if value.IsError(v) {
			return v
		}
		elems[i] = v
	}
	return value.Array(elems)
}

func (e *Evaluator) VisitUnary(u *ast.Unary) ast.Result {
	operand := e.Eval(u.Operand)
	switch u.Operator {
	case "-":
		return Map1(operand, negate)
	default:
		return value.Error(xlerror.ErrValue)
	}
}

func negate(v value.Value) value.Value {
	n, err := value.ToNumber(v)
	if err != nil {
		return value.Error(err)
	}
	return value.Number(-n)
}

func (e *Evaluator) VisitPercent(p *ast.Percent) ast.Result {
	operand := e.Eval(p.Operand)
	return Map1(operand, func(v value.Value) value.Value {
		n, err := value.ToNumber(v)
		if err != nil {
			return value.Error(err)
		}
		return value.Number(n / 100)
	})
}

// VisitBinary dispatches by operator lexeme. Arithmetic and comparison
// operators broadcast uniformly (spec.md §4.4); "&" concatenation is the
// one binary operator spec.md §4.4 calls out as scalar-only.
func (e *Evaluator) VisitBinary(b *ast.Binary) ast.Result {
	left := e.Eval(b.Left)
	if value.IsError(left) {
		return left
	}
	right := e.Eval(b.Right)
	if value.IsError(right) {
		return right
	}
	if b.Operator == "&" {
		return concat(left, right)
	}
	op, ok := arithOps[b.Operator]
	if ok {
		return Zip2(left, right, op)
	}
	cmp, ok := comparisonOps[b.Operator]
	if ok {
		return Zip2(left, right, cmp)
	}
	return value.Error(xlerror.ErrValue)
}

// concat is deliberately not run through Zip2: spec.md §4.4 singles out "&"
// as scalar-only, an array operand on either side is a VALUE! rather than a
// broadcast.
func concat(l, r value.Value) value.Value {
	if value.IsArray(l) || value.IsArray(r) {
		return value.Error(xlerror.ErrValue)
	}
	lt, err := value.ToText(l)
	if err != nil {
		return value.Error(err)
	}
	rt, err := value.ToText(r)
	if err != nil {
		return value.Error(err)
	}
	return value.Text(lt + rt)
}

var arithOps = map[string]func(a, b value.Value) value.Value{
	"+": func(a, b value.Value) value.Value { return numeric2(a, b, func(x, y float64) value.Value { return value.Number(x + y) }) },
	"-": func(a, b value.Value) value.Value { return numeric2(a, b, func(x, y float64) value.Value { return value.Number(x - y) }) },
	"*": func(a, b value.Value) value.Value { return numeric2(a, b, func(x, y float64) value.Value { return value.Number(x * y) }) },
	"/": func(a, b value.Value) value.Value {
		return numeric2(a, b, func(x, y float64) value.Value {
			if y == 0 {
				return value.Error(xlerror.ErrDivZero)
			}
			return value.Number(x / y)
		})
	},
	"^": func(a, b value.Value) value.Value { return numeric2(a, b, power) },
}

func power(x, y float64) value.Value {
	if x == 0 && y < 0 {
		return value.Error(xlerror.ErrDivZero)
	}
	result := math.Pow(x, y)
	if math.IsNaN(result) {
		return value.Error(xlerror.ErrNum)
	}
	return value.Number(result)
}

func numeric2(a, b value.Value, op func(x, y float64) value.Value) value.Value {
	x, err := value.ToNumber(a)
	if err != nil {
		return value.Error(err)
	}
	y, err := value.ToNumber(b)
	if err != nil {
		return value.Error(err)
	}
	return op(x, y)
}

// comparisonOps compare textually when either side is Text (spec.md §4.4's
// "Textual comparison" case), numerically otherwise — scalar-to-scalar at
// the leaf the broadcast rule eventually calls this with.
var comparisonOps = map[string]func(a, b value.Value) value.Value{
	"=":  func(a, b value.Value) value.Value { return compare(a, b, func(c int) bool { return c == 0 }) },
	"<>": func(a, b value.Value) value.Value { return compare(a, b, func(c int) bool { return c != 0 }) },
	"<":  func(a, b value.Value) value.Value { return compare(a, b, func(c int) bool { return c < 0 }) },
	">":  func(a, b value.Value) value.Value { return compare(a, b, func(c int) bool { return c > 0 }) },
	"<=": func(a, b value.Value) value.Value { return compare(a, b, func(c int) bool { return c <= 0 }) },
	">=": func(a, b value.Value) value.Value { return compare(a, b, func(c int) bool { return c >= 0 }) },
}

func compare(a, b value.Value, satisfies func(int) bool) value.Value {
	if value.IsError(a) {
		return a
	}
	if value.IsError(b) {
		return b
	}
	if value.IsText(a) || value.IsText(b) {
		at, err := value.ToText(a)
		if err != nil {
			return value.Error(err)
		}
		bt, err := value.ToText(b)
		if err != nil {
			return value.Error(err)
		}
		return value.Bool(satisfies(strings.Compare(at, bt)))
	}
	x, err := value.ToNumber(a)
	if err != nil {
		return value.Error(err)
	}
	y, err := value.ToNumber(b)
	if err != nil {
		return value.Error(err)
	}
	switch {
	case x < y:
		return value.Bool(satisfies(-1))
	case x > y:
		return value.Bool(satisfies(1))
	default:
		return value.Bool(satisfies(0))
	}
}

// VisitCall evaluates every argument slot (a Blank slot becomes value.Blank,
// the zero-valued argument spec.md §4.3 describes) and dispatches through
// the registry, which owns arity checking and the #NAME?/#VALUE! results
// that follow from it.
func (e *Evaluator) VisitCall(c *ast.Call) ast.Result {
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = e.Eval(a)
	}
	return e.Registry.Call(c.Name, args)
}
