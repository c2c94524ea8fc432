package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlfp/value"
	"xlfp/xlfp"
)

func evalFormula(t *testing.T, formula string, bindings map[string]value.Value) value.Value {
	t.Helper()
	parser := xlfp.NewParser(xlfp.Options{})
	result := parser.Parse(formula)
	require.Nil(t, result.Error)
	return result.Result.Invoke(bindings)
}

func TestSumOfScalarsWithBlankSlotAndNestedSum(t *testing.T) {
	bindings := map[string]value.Value{
		"A": value.Number(4),
		"B": value.Number(2),
		"C": value.Number(6),
	}
	result := evalFormula(t, "SUM(A,,B,SUM(3,C))+5", bindings)
	require.True(t, value.IsNumber(result))
	assert.Equal(t, 20.0, value.AsNumber(result))
}

func TestSumOfEmptyCallIsZero(t *testing.T) {
	result := evalFormula(t, "SUM()", nil)
	assert.Equal(t, value.Number(0), result)
}

func TestSqrtOfNegativeYieldsNum(t *testing.T) {
	result := evalFormula(t, "SQRT(-1)", nil)
	assert.True(t, value.IsError(result))
	assert.Equal(t, "#NUM!", string(value.AsError(result).Code))
}

func TestIfSelectsBranchByCondition(t *testing.T) {
	bindings := map[string]value.Value{"a1": value.Number(5)}
	result := evalFormula(t, "IF(a1+a1<4,1,2)", bindings)
	assert.Equal(t, value.Number(2), result)
}

func TestIfErrorRecoversFromAnyError(t *testing.T) {
	result := evalFormula(t, "IFERROR(1/0,99)", nil)
	assert.Equal(t, value.Number(99), result)
}

func TestIfNaOnlyRecoversFromNaError(t *testing.T) {
	result := evalFormula(t, "IFNA(#N/A,99)", nil)
	assert.Equal(t, value.Number(99), result)
	result = evalFormula(t, "IFNA(#REF!,99)", nil)
	assert.True(t, value.IsError(result))
}

func TestAverageStacksAcrossArraysAndScalars(t *testing.T) {
	bindings := map[string]value.Value{"A": value.NumberArray([]float64{2, 4, 6})}
	result := evalFormula(t, "AVERAGE(A,10)", bindings)
	require.True(t, value.IsArray(result))
	xs, err := value.AsNumbers(result)
	require.Nil(t, err)
	assert.Equal(t, []float64{6, 7, 8}, xs)
}

func TestSubstituteWithAllBlankArgsMismatchesFixedArity(t *testing.T) {
	result := evalFormula(t, "SUBSTITUTE(;;;)", nil)
	assert.True(t, value.IsError(result))
	assert.Equal(t, "#VALUE!", string(value.AsError(result).Code))
}

func TestTextJoinSkipsBlanksWhenRequested(t *testing.T) {
	result := evalFormula(t, `TEXTJOIN(";",TRUE,{"1",,"2","3"})`, nil)
	assert.Equal(t, value.Text("1;2;3"), result)
}

func TestTextJoinKeepsBlanksAsEmptyFieldsWhenNotSkipping(t *testing.T) {
	result := evalFormula(t, `TEXTJOIN(";",FALSE,{"1",,"2","3"})`, nil)
	assert.Equal(t, value.Text("1;;2;3"), result)
}

func TestCharOfDivByZeroPropagatesTheError(t *testing.T) {
	result := evalFormula(t, "CHAR(1/0)", nil)
	assert.True(t, value.IsError(result))
	assert.Equal(t, "#DIV/0!", string(value.AsError(result).Code))
}

func TestProperTitleCasesEachWord(t *testing.T) {
	result := evalFormula(t, `PROPER("mary ann smith")`, nil)
	assert.Equal(t, value.Text("Mary Ann Smith"), result)
}
