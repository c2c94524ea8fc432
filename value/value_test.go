package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xlfp/value"
	"xlfp/xlerror"
)

func TestToNumberCoercion(t *testing.T) {
	n, err := value.ToNumber(value.Number(3.5))
	assert.Nil(t, err)
	assert.Equal(t, 3.5, n)

	n, err = value.ToNumber(value.Bool(true))
	assert.Nil(t, err)
	assert.Equal(t, 1.0, n)

	n, err = value.ToNumber(value.Blank())
	assert.Nil(t, err)
	assert.Equal(t, 0.0, n)

	n, err = value.ToNumber(value.Text("42"))
	assert.Nil(t, err)
	assert.Equal(t, 42.0, n)

	_, err = value.ToNumber(value.Text("abc"))
	assert.Equal(t, xlerror.ErrValue, err)
}

func TestToTextRendersSpreadsheetStyle(t *testing.T) {
	text, err := value.ToText(value.Bool(true))
	assert.Nil(t, err)
	assert.Equal(t, "TRUE", text)

	text, err = value.ToText(value.Bool(false))
	assert.Nil(t, err)
	assert.Equal(t, "FALSE", text)

	text, err = value.ToText(value.Blank())
	assert.Nil(t, err)
	assert.Equal(t, "", text)
}

func TestArrayHoldsHeterogeneousElements(t *testing.T) {
	mixed := value.Array([]value.Value{value.Text("abc"), value.Number(4)})
	assert.True(t, value.IsArray(mixed))
	elems := value.AsArray(mixed)
	assert.True(t, value.IsText(elems[0]))
	assert.True(t, value.IsNumber(elems[1]))
}

func TestAsNumbersPropagatesFirstCoercionError(t *testing.T) {
	arr := value.Array([]value.Value{value.Number(1), value.Text("nope"), value.Number(3)})
	_, err := value.AsNumbers(arr)
	assert.Equal(t, xlerror.ErrValue, err)
}

func TestToBoolTreatsBlankAsFalse(t *testing.T) {
	b, err := value.ToBool(value.Blank())
	assert.Nil(t, err)
	assert.False(t, b)
}

func TestErrorValuePropagatesThroughCoercions(t *testing.T) {
	errVal := value.Error(xlerror.ErrDivZero)
	_, err := value.ToNumber(errVal)
	assert.Equal(t, xlerror.ErrDivZero, err)
	_, err = value.ToText(errVal)
	assert.Equal(t, xlerror.ErrDivZero, err)
}
