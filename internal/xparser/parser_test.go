package xparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlfp/builtins"
	"xlfp/internal/ast"
	"xlfp/internal/lexer"
	"xlfp/internal/xparser"
)

func parse(t *testing.T, formula string) ast.Expr {
	t.Helper()
	reg := builtins.DefaultRegistry()
	tokens, lexErr := lexer.NewScanner(formula, reg.Snapshot()).Scan()
	require.Nil(t, lexErr)
	expr, err := xparser.Parse(tokens)
	require.Nil(t, err)
	return expr
}

func TestUnaryMinusBindsLooserThanPower(t *testing.T) {
	// -2^2 should parse as -(2^2), i.e. Unary{-, Binary{2,^,2}}.
	expr := parse(t, "-2^2")
	unary, ok := expr.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, "-", unary.Operator)
	binary, ok := unary.Operand.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "^", binary.Operator)
}

func TestPowerRightOperandMayCarryLeadingUnaryMinus(t *testing.T) {
	// 2^-2 should parse as Binary{2, ^, Unary{-, 2}}.
	expr := parse(t, "2^-2")
	binary, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "^", binary.Operator)
	_, ok = binary.Right.(*ast.Unary)
	assert.True(t, ok)
}

func TestImplicitMultiplicationIsNotTriggeredByMinus(t *testing.T) {
	// "a - b" is subtraction, never juxtaposition.
	expr := parse(t, "a1-a2")
	binary, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "-", binary.Operator)
}

func TestJuxtapositionIsRewrittenAsMultiplication(t *testing.T) {
	expr := parse(t, "5(a1)")
	binary, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", binary.Operator)
}

func TestArgumentListBlankSlotCountIsSeparatorsPlusOne(t *testing.T) {
	expr := parse(t, "SUM(1,,2)")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
	_, isBlank := call.Args[1].(*ast.Blank)
	assert.True(t, isBlank)
}

func TestAllSeparatorArgumentListYieldsAllBlankSlots(t *testing.T) {
	expr := parse(t, "SUBSTITUTE(;;;)")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 4)
	for _, arg := range call.Args {
		_, isBlank := arg.(*ast.Blank)
		assert.True(t, isBlank)
	}
}

func TestEmptyCallYieldsZeroArgSlots(t *testing.T) {
	expr := parse(t, "SUM()")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	assert.Empty(t, call.Args)
}

func TestArrayLiteralSupportsBlankSlots(t *testing.T) {
	expr := parse(t, `{"1",,"2","3"}`)
	arr, ok := expr.(*ast.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 4)
	_, isBlank := arr.Elements[1].(*ast.Blank)
	assert.True(t, isBlank)
}

func TestScientificNotationFoldsIntoOneNumberNode(t *testing.T) {
	expr := parse(t, "-2e-1")
	unary, ok := expr.(*ast.Unary)
	require.True(t, ok)
	num, ok := unary.Operand.(*ast.Number)
	require.True(t, ok)
	assert.InDelta(t, 0.2, num.Value, 1e-9)
}
