package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlfp/builtins"
	"xlfp/internal/ast"
	"xlfp/internal/runtime"
	"xlfp/value"
)

func eval(t *testing.T, expr ast.Expr, bindings map[string]value.Value) value.Value {
	t.Helper()
	e := runtime.New(bindings, nil, builtins.DefaultRegistry())
	return e.Eval(expr)
}

func TestArithmeticBroadcastsScalarAcrossArray(t *testing.T) {
	expr := &ast.Binary{
		Left:     &ast.Number{Value: 1},
		Operator: "+",
		Right:    &ast.Array{Elements: []ast.Expr{&ast.Number{Value: 1}, &ast.Number{Value: 2}, &ast.Number{Value: 3}}},
	}
	result := eval(t, expr, nil)
	require.True(t, value.IsArray(result))
	xs, err := value.AsNumbers(result)
	require.Nil(t, err)
	assert.Equal(t, []float64{2, 3, 4}, xs)
}

func TestConcatRejectsArrayOperands(t *testing.T) {
	expr := &ast.Binary{
		Left:     &ast.Text{Value: "x"},
		Operator: "&",
		Right:    &ast.Array{Elements: []ast.Expr{&ast.Number{Value: 1}}},
	}
	result := eval(t, expr, nil)
	assert.True(t, value.IsError(result))
}

func TestComparisonFallsBackToTextualOrdering(t *testing.T) {
	expr := &ast.Binary{Left: &ast.Text{Value: "b"}, Operator: ">", Right: &ast.Text{Value: "a"}}
	result := eval(t, expr, nil)
	require.True(t, value.IsBool(result))
	assert.True(t, value.AsBool(result))
}

func TestDivisionByZeroYieldsDivZero(t *testing.T) {
	expr := &ast.Binary{Left: &ast.Number{Value: 1}, Operator: "/", Right: &ast.Number{Value: 0}}
	result := eval(t, expr, nil)
	assert.True(t, value.IsError(result))
	assert.Equal(t, "#DIV/0!", string(value.AsError(result).Code))
}

func TestTrueFalseFallBackWhenUnbound(t *testing.T) {
	result := eval(t, &ast.Variable{Name: "TRUE"}, nil)
	require.True(t, value.IsBool(result))
	assert.True(t, value.AsBool(result))
}

func TestBindingMapTakesPrecedenceOverTrueFalseLiteral(t *testing.T) {
	bindings := map[string]value.Value{"TRUE": value.Number(99)}
	result := eval(t, &ast.Variable{Name: "TRUE"}, bindings)
	require.True(t, value.IsNumber(result))
	assert.Equal(t, 99.0, value.AsNumber(result))
}

func TestCellRefResolvesAgainstInjectedResolverWhenUnbound(t *testing.T) {
	resolver := func(ref value.CellRef) value.Value { return value.Number(7) }
	e := runtime.New(nil, resolver, builtins.DefaultRegistry())
	result := e.Eval(&ast.CellRef{Name: "A1", Column: "A", Row: 1})
	assert.Equal(t, value.Number(7), result)
}

func TestBindingMapTakesPrecedenceOverCellResolver(t *testing.T) {
	resolver := func(ref value.CellRef) value.Value { return value.Number(7) }
	e := runtime.New(map[string]value.Value{"A1": value.Number(1)}, resolver, builtins.DefaultRegistry())
	result := e.Eval(&ast.CellRef{Name: "A1", Column: "A", Row: 1})
	assert.Equal(t, value.Number(1), result)
}

func TestLeftmostErrorPropagatesThroughBinary(t *testing.T) {
	expr := &ast.Binary{
		Left:     &ast.Variable{Name: "missing"},
		Operator: "+",
		Right:    &ast.Number{Value: 1},
	}
	result := eval(t, expr, nil)
	assert.True(t, value.IsError(result))
	assert.Equal(t, "#NAME?", string(value.AsError(result).Code))
}

func TestSelectIfBroadcastsElementwisePreservingBranchKind(t *testing.T) {
	cond := value.Array([]value.Value{value.Bool(true), value.Bool(false)})
	thenBranch := value.Text("yes")
	elseBranch := value.Number(0)
	result := runtime.SelectIf(cond, thenBranch, elseBranch)
	require.True(t, value.IsArray(result))
	elems := value.AsArray(result)
	assert.True(t, value.IsText(elems[0]))
	assert.True(t, value.IsNumber(elems[1]))
}
