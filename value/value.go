// Package value implements the tagged-union Value that flows through the
// lexer, parser and runtime: Number, Bool, Text, Array, ErrorValue, Blank
// and CellRef, per the data model every layer shares.
package value

import (
	"strconv"

	"xlfp/xlerror"
)

// Kind tags which field of a Value is live.
type Kind uint8

const (
	KindNumber Kind = iota
	KindBool
	KindText
	KindArray
	KindError
	KindBlank
	KindCellRef
)

// CellRef denotes a spreadsheet address; it's resolved to a Value by the
// runtime's CellResolver, never used directly in arithmetic.
type CellRef struct {
	Column string
	Row    int
	ColAbs bool
	RowAbs bool
}

// Value is never partially initialized: construct it only through the
// constructors below (Number, Bool, Text, Array, ...) so Kind and payload
// always agree.
//
// Array holds []Value rather than []float64: spec.md §9's IF open question
// ("IF(a1>100,'abc',IF(a1>1,4,56))" selecting text at some indices and
// numbers at others) means a rank-1 array can be heterogeneous per element.
// Elements are normally scalars (Number, Bool, Text, Error, or Blank for an
// elided array-literal slot); Array does not check them, so a nested array
// literal or nested JSON array yields a nested Array.
type Value struct {
	kind Kind
	num  float64
	b    bool
	text string
	arr  []Value
	err  *xlerror.ErrorValue
	ref  CellRef
}

func (v Value) Kind() Kind { return v.kind }

func Number(n float64) Value            { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value                 { return Value{kind: KindBool, b: b} }
func Text(s string) Value               { return Value{kind: KindText, text: s} }
func Array(xs []Value) Value            { return Value{kind: KindArray, arr: xs} }
func Error(e *xlerror.ErrorValue) Value { return Value{kind: KindError, err: e} }
func Blank() Value                      { return Value{kind: KindBlank} }
func Ref(r CellRef) Value               { return Value{kind: KindCellRef, ref: r} }

// NumberArray is a convenience constructor for the common all-numeric case
// (array literals, arithmetic broadcast results).
func NumberArray(xs []float64) Value {
	vs := make([]Value, len(xs))
	for i, x := range xs {
		vs[i] = Number(x)
	}
	return Array(vs)
}

func IsNumber(v Value) bool  { return v.kind == KindNumber }
func IsBool(v Value) bool    { return v.kind == KindBool }
func IsText(v Value) bool    { return v.kind == KindText }
func IsArray(v Value) bool   { return v.kind == KindArray }
func IsError(v Value) bool   { return v.kind == KindError }
func IsBlank(v Value) bool   { return v.kind == KindBlank }
func IsCellRef(v Value) bool { return v.kind == KindCellRef }

func AsNumber(v Value) float64            { return v.num }
func AsBool(v Value) bool                 { return v.b }
func AsText(v Value) string               { return v.text }
func AsArray(v Value) []Value             { return v.arr }
func AsError(v Value) *xlerror.ErrorValue { return v.err }
func AsCellRef(v Value) CellRef           { return v.ref }

// AsNumbers coerces every element of an array Value to float64, yielding
// the first coercion error encountered (left to right).
func AsNumbers(v Value) ([]float64, *xlerror.ErrorValue) {
	out := make([]float64, len(v.arr))
	for i, el := range v.arr {
		n, err := ToNumber(el)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// ToNumber coerces a scalar Value to float64 per spec.md §4.4 step 1:
// Number passes through, Bool is 0/1, Blank is 0, a numeric Text parses,
// anything else (including a non-numeric Text) yields VALUE!.
//
// Grounded on original_source/hotxlfp/helper/number.py's to_number: numeric
// strings parse, bools coerce to 0/1, everything else passes through
// unchanged for the caller to reject.
func ToNumber(v Value) (float64, *xlerror.ErrorValue) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindBlank:
		return 0, nil
	case KindText:
		n, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return 0, xlerror.ErrValue
		}
		return n, nil
	case KindError:
		return 0, v.err
	default:
		return 0, xlerror.ErrValue
	}
}

// ToBool coerces a scalar Value to a boolean: nonzero numbers and numeric
// text with a nonzero value are true; Blank is false; text that does not
// parse as a number yields VALUE!.
func ToBool(v Value) (bool, *xlerror.ErrorValue) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindBlank:
		return false, nil
	case KindError:
		return false, v.err
	default:
		n, err := ToNumber(v)
		if err != nil {
			return false, err
		}
		return n != 0, nil
	}
}

// ToText renders a scalar Value as spreadsheet text would: numbers use
// Go's shortest round-trippable form, booleans render TRUE/FALSE, Blank
// renders empty.
func ToText(v Value) (string, *xlerror.ErrorValue) {
	switch v.kind {
	case KindText:
		return v.text, nil
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64), nil
	case KindBool:
		if v.b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case KindBlank:
		return "", nil
	case KindError:
		return "", v.err
	default:
		return "", xlerror.ErrValue
	}
}

// Truthy reports whether an IF condition slot (already reduced to scalar by
// the caller) selects the then-branch.
func Truthy(v Value) (bool, *xlerror.ErrorValue) {
	return ToBool(v)
}
